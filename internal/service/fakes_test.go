package service

import (
	"context"
	"fmt"
	"time"

	"github.com/thrivekids/therapy_booking/internal/model"
	"github.com/thrivekids/therapy_booking/internal/repository/base"
	"github.com/thrivekids/therapy_booking/internal/schedule"
)

// Фейковые хранилища для тестов сервисов. Транзакционность здесь не
// моделируется: фейк транзакции просто вызывает функцию с nil Querier,
// а фейки хранилищ его игнорируют.

type fakeTx struct {
	err   error
	calls int
}

func (f *fakeTx) InTx(ctx context.Context, fn func(q base.Querier) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type fakeTherapistStore struct {
	therapists map[int64]*model.Therapist
	updated    map[int64][]string
}

func newFakeTherapistStore(therapists ...*model.Therapist) *fakeTherapistStore {
	f := &fakeTherapistStore{
		therapists: make(map[int64]*model.Therapist),
		updated:    make(map[int64][]string),
	}
	for _, t := range therapists {
		f.therapists[t.ID] = t
	}
	return f
}

func (f *fakeTherapistStore) GetByID(ctx context.Context, id int64) (*model.Therapist, error) {
	return f.therapists[id], nil
}

func (f *fakeTherapistStore) UpdateSelectedSlots(ctx context.Context, id int64, slots []string) error {
	f.updated[id] = slots
	return nil
}

type fakeChildStore struct {
	children map[int64]*model.Child
}

func newFakeChildStore(children ...*model.Child) *fakeChildStore {
	f := &fakeChildStore{children: make(map[int64]*model.Child)}
	for _, c := range children {
		f.children[c.ID] = c
	}
	return f
}

func (f *fakeChildStore) GetByID(ctx context.Context, id int64) (*model.Child, error) {
	return f.children[id], nil
}

type fakeSlotStore struct {
	nextID    int64
	persisted []*model.TimeSlot
	created   []*model.TimeSlot
}

func slotKey(therapistID int64, date time.Time, startTime string) string {
	return fmt.Sprintf("%d|%s|%s", therapistID, date.Format(schedule.DateLayout), startTime)
}

func (f *fakeSlotStore) GetOrCreate(ctx context.Context, q base.Querier, therapistID int64, date time.Time, startTime, endTime string) (*model.TimeSlot, error) {
	key := slotKey(therapistID, date, startTime)
	for _, s := range f.created {
		if slotKey(s.TherapistID, s.Date, s.StartTime) == key {
			return s, nil
		}
	}

	f.nextID++
	slot := &model.TimeSlot{
		ID:          f.nextID,
		TherapistID: therapistID,
		Date:        date,
		StartTime:   startTime,
		EndTime:     endTime,
		IsActive:    true,
	}
	f.created = append(f.created, slot)
	return slot, nil
}

func (f *fakeSlotStore) GetByTherapistAndDate(ctx context.Context, therapistID int64, date time.Time) ([]*model.TimeSlot, error) {
	var slots []*model.TimeSlot
	for _, s := range f.persisted {
		if s.TherapistID == therapistID && s.Date.Equal(date) {
			slots = append(slots, s)
		}
	}
	return slots, nil
}

type fakeBookingStore struct {
	nextID      int64
	bookings    map[int64]*model.Booking
	occupied    map[int64]bool // timeSlotID -> активное бронирование существует
	occurrences []schedule.BookedOccurrence

	cancelledTherapist int64
	cancelledDate      time.Time
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{
		bookings: make(map[int64]*model.Booking),
		occupied: make(map[int64]bool),
	}
}

func (f *fakeBookingStore) Create(ctx context.Context, q base.Querier, booking *model.Booking) error {
	f.nextID++
	booking.ID = f.nextID
	f.bookings[booking.ID] = booking
	f.occupied[booking.TimeSlotID] = true
	return nil
}

func (f *fakeBookingStore) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeBookingStore) ExistsActiveForSlot(ctx context.Context, q base.Querier, timeSlotID int64) (bool, error) {
	return f.occupied[timeSlotID], nil
}

func (f *fakeBookingStore) GetByRecurringBookingID(ctx context.Context, recurringID int64) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.RecurringBookingID != nil && *b.RecurringBookingID == recurringID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus model.BookingStatus) (bool, error) {
	b, ok := f.bookings[id]
	if !ok || b.Status != fromStatus {
		return false, nil
	}
	b.Status = toStatus
	return true, nil
}

func (f *fakeBookingStore) CompleteElapsed(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeBookingStore) GetScheduledSlotTimes(ctx context.Context, therapistID int64) ([]schedule.BookedOccurrence, error) {
	return f.occurrences, nil
}

// CancelScheduledByTherapistAndDate повторяет семантику боевого UPDATE:
// отменяются только SCHEDULED бронирования терапевта на дату, повторный
// запуск ничего не находит
func (f *fakeBookingStore) CancelScheduledByTherapistAndDate(ctx context.Context, q base.Querier, therapistID int64, date time.Time) (int64, error) {
	f.cancelledTherapist = therapistID
	f.cancelledDate = date

	var count int64
	for _, b := range f.bookings {
		if b.TherapistID != therapistID || b.Status != model.BookingStatusScheduled {
			continue
		}
		if b.Slot == nil || !b.Slot.Date.Equal(date) {
			continue
		}
		b.Status = model.BookingStatusCancelled
		count++
	}
	return count, nil
}

type fakeRecurringStore struct {
	nextID      int64
	series      map[int64]*model.RecurringBooking
	deactivated []int64
}

func newFakeRecurringStore() *fakeRecurringStore {
	return &fakeRecurringStore{series: make(map[int64]*model.RecurringBooking)}
}

func (f *fakeRecurringStore) Create(ctx context.Context, q base.Querier, rb *model.RecurringBooking) error {
	f.nextID++
	rb.ID = f.nextID
	f.series[rb.ID] = rb
	return nil
}

func (f *fakeRecurringStore) GetByID(ctx context.Context, id int64) (*model.RecurringBooking, error) {
	return f.series[id], nil
}

func (f *fakeRecurringStore) Deactivate(ctx context.Context, id int64) error {
	f.deactivated = append(f.deactivated, id)
	if rb, ok := f.series[id]; ok {
		rb.IsActive = false
	}
	return nil
}

type fakeLeaveStore struct {
	nextID   int64
	requests map[int64]*model.LeaveRequest
}

func newFakeLeaveStore(requests ...*model.LeaveRequest) *fakeLeaveStore {
	f := &fakeLeaveStore{requests: make(map[int64]*model.LeaveRequest)}
	for _, lr := range requests {
		f.requests[lr.ID] = lr
		if lr.ID > f.nextID {
			f.nextID = lr.ID
		}
	}
	return f
}

func (f *fakeLeaveStore) Create(ctx context.Context, lr *model.LeaveRequest) error {
	f.nextID++
	lr.ID = f.nextID
	f.requests[lr.ID] = lr
	return nil
}

func (f *fakeLeaveStore) GetByIDForUpdate(ctx context.Context, q base.Querier, id int64) (*model.LeaveRequest, error) {
	return f.requests[id], nil
}

func (f *fakeLeaveStore) List(ctx context.Context, status *model.LeaveStatus) ([]*model.LeaveRequest, error) {
	var out []*model.LeaveRequest
	for _, lr := range f.requests {
		if status == nil || lr.Status == *status {
			out = append(out, lr)
		}
	}
	return out, nil
}

func (f *fakeLeaveStore) UpdateStatus(ctx context.Context, q base.Querier, id int64, status model.LeaveStatus, adminNotes string) error {
	lr, ok := f.requests[id]
	if !ok {
		return fmt.Errorf("leave request %d not found", id)
	}
	lr.Status = status
	lr.AdminNotes = adminNotes
	return nil
}
