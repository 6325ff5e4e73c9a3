package model

import "time"

// Child представляет ребёнка, для которого родитель бронирует сессии
type Child struct {
	ID        int64     `json:"id"`
	ParentID  int64     `json:"parent_id"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}
