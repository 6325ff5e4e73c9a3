package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client тонкая обёртка над redis для кэширования консультативных чтений.
// Движок бронирования сам ничего не кэширует — кэш живёт только на
// вызывающем HTTP-слое. Nil-клиент означает "кэш выключен": все методы
// безопасно превращаются в no-op.
type Client struct {
	rdb *redis.Client
}

func New(addr string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Get возвращает закэшированное значение и признак попадания
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	return data, true
}

// Set сохраняет значение с TTL. Ошибки кэша не всплывают: кэш вспомогателен
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c == nil {
		return
	}

	c.rdb.Set(ctx, key, value, ttl)
}

// Delete инвалидирует ключ
func (c *Client) Delete(ctx context.Context, key string) {
	if c == nil {
		return
	}

	c.rdb.Del(ctx, key)
}

// Close закрывает соединение
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	return c.rdb.Close()
}
