package model

import "time"

// Therapist представляет терапевта с настроенным набором слотов
type Therapist struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"full_name"`
	Specialization string    `json:"specialization"`
	SelectedSlots  []string  `json:"selected_slots"`       // канонический список времён "HH:MM"
	AvailableSlots []string  `json:"available_slot_times"` // legacy поле, используется если selected_slots пуст
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
