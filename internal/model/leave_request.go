package model

import "time"

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "PENDING"
	LeaveStatusApproved LeaveStatus = "APPROVED" // терминальный статус
	LeaveStatusRejected LeaveStatus = "REJECTED" // терминальный статус
)

type LeaveType string

const (
	LeaveTypePersonal LeaveType = "PERSONAL"
	LeaveTypeSick     LeaveType = "SICK"
	LeaveTypeVacation LeaveType = "VACATION"
)

// LeaveRequest заявка терапевта на выходной. Одобрение запускает каскадную
// отмену всех SCHEDULED бронирований терапевта на эту дату.
type LeaveRequest struct {
	ID          int64       `json:"id"`
	TherapistID int64       `json:"therapist_id"`
	Date        time.Time   `json:"date"`
	Type        LeaveType   `json:"type"`
	Status      LeaveStatus `json:"status"`
	AdminNotes  string      `json:"admin_notes,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
