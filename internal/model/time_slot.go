package model

import "time"

// TimeSlot конкретный часовой интервал терапевта на одну календарную дату.
// Существует независимо от того, забронирован он или нет.
type TimeSlot struct {
	ID          int64     `json:"id"`
	TherapistID int64     `json:"therapist_id"`
	Date        time.Time `json:"date"`       // только дата, время игнорируется
	StartTime   string    `json:"start_time"` // "HH:MM"
	EndTime     string    `json:"end_time"`   // start + 1 час
	IsActive    bool      `json:"is_active"`
	IsBooked    bool      `json:"is_booked"` // производное поле, не из БД
	CreatedAt   time.Time `json:"created_at"`
}
