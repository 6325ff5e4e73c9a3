package model

import "time"

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "SCHEDULED" // Сессия запланирована
	BookingStatusCompleted BookingStatus = "COMPLETED" // Сессия прошла
	BookingStatusCancelled BookingStatus = "CANCELLED" // Отменена (leave cascade или вручную)
)

type Booking struct {
	ID                 int64         `json:"id"`
	ChildID            int64         `json:"child_id"`
	TherapistID        int64         `json:"therapist_id"`
	TimeSlotID         int64         `json:"time_slot_id"`
	RecurringBookingID *int64        `json:"recurring_booking_id,omitempty"` // nil для одиночных бронирований
	Status             BookingStatus `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Slot  *TimeSlot `json:"slot,omitempty"`
	Child *Child    `json:"child,omitempty"`
}
