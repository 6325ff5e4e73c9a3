package model

import (
	"time"

	"github.com/google/uuid"
)

type RecurrencePattern string

const (
	// PatternDaily исторически означает "каждый будний день", не каждый день.
	// Название сохранено как есть: внешние клиенты зависят от строки "DAILY".
	PatternDaily  RecurrencePattern = "DAILY"
	PatternWeekly RecurrencePattern = "WEEKLY"
)

// RecurringBooking родительская запись серии бронирований одного слота
type RecurringBooking struct {
	ID          int64             `json:"id"`
	SeriesID    uuid.UUID         `json:"series_id"` // внешний идентификатор серии
	ChildID     int64             `json:"child_id"`
	TherapistID int64             `json:"therapist_id"`
	SlotTime    string            `json:"slot_time"` // "HH:MM"
	Pattern     RecurrencePattern `json:"pattern"`
	DayOfWeek   *int              `json:"day_of_week,omitempty"` // обязателен для WEEKLY, 0 = Sunday
	StartDate   time.Time         `json:"start_date"`
	EndDate     time.Time         `json:"end_date"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Bookings []*Booking `json:"bookings,omitempty"`
}
