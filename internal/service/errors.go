package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/thrivekids/therapy_booking/internal/schedule"
)

// Ошибки движка бронирования. Валидационные ошибки возвращаются до любого
// обращения к хранилищу; конфликт слота обнаруживается только в транзакции
// записи.
var (
	// ErrInvalidStartDate дата начала приходится на выходной или не разобралась
	ErrInvalidStartDate = errors.New("start date is not a bookable day")

	// ErrInvalidRecurrence некорректные параметры повторения
	// (например WEEKLY без day_of_week)
	ErrInvalidRecurrence = errors.New("invalid recurrence parameters")

	// ErrEndDateMismatch присланная клиентом дата окончания не совпадает
	// с выведенной по правилу "месяц минус один день"
	ErrEndDateMismatch = errors.New("end date does not match the monthly booking rule")

	// ErrNoSlotsConfigured у терапевта не настроено ни одного времени слота
	ErrNoSlotsConfigured = errors.New("therapist has no slot times configured")

	// ErrSlotNotOffered терапевт не предлагает это время
	ErrSlotNotOffered = errors.New("therapist does not offer this slot time")

	// ErrMalformedSlotTime время слота не в формате "HH:MM". Во входных
	// данных это ошибка; в данных из хранилища — терпимо (лог + пропуск)
	ErrMalformedSlotTime = errors.New("slot time is not in HH:MM format")

	// ErrAlreadyProcessed заявка на выходной уже в терминальном статусе
	ErrAlreadyProcessed = errors.New("leave request is already processed")

	// ErrBookingNotActive бронирование не в статусе SCHEDULED
	ErrBookingNotActive = errors.New("booking is not in scheduled status")

	// ErrNotFound запрошенная сущность не существует
	ErrNotFound = errors.New("not found")
)

// SlotConflictError конфликт на конкретной дате, обнаруженный при коммите.
// Вся серия откатывается; дата нужна UI, чтобы предложить альтернативу.
type SlotConflictError struct {
	Date     time.Time
	SlotTime string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot %s on %s is already booked", e.SlotTime, e.Date.Format(schedule.DateLayout))
}
