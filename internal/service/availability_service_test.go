package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrivekids/therapy_booking/internal/model"
	"github.com/thrivekids/therapy_booking/internal/schedule"
	"go.uber.org/zap"
)

type availabilityFixture struct {
	therapist *fakeTherapistStore
	bookings  *fakeBookingStore
	slots     *fakeSlotStore
	svc       *AvailabilityService
}

func newAvailabilityFixture() *availabilityFixture {
	f := &availabilityFixture{
		therapist: newFakeTherapistStore(&model.Therapist{
			ID:            1,
			FullName:      "Anna Petrova",
			SelectedSlots: []string{"10:00", "14:00"},
			IsActive:      true,
		}),
		bookings: newFakeBookingStore(),
		slots:    &fakeSlotStore{},
	}

	f.svc = NewAvailabilityService(f.therapist, f.bookings, f.slots, zap.NewNop())
	return f
}

func TestCheckSlotAvailability(t *testing.T) {
	f := newAvailabilityFixture()
	f.bookings.occurrences = []schedule.BookedOccurrence{
		{Date: date(2025, time.November, 10), StartTime: "10:00"},
	}

	verdict, err := f.svc.CheckSlotAvailability(context.Background(), 1, "10:00",
		date(2025, time.November, 7), date(2025, time.December, 6))
	require.NoError(t, err)
	assert.True(t, verdict.IsBooked)
	assert.Equal(t, 1, verdict.BookingCount)

	verdict, err = f.svc.CheckSlotAvailability(context.Background(), 1, "14:00",
		date(2025, time.November, 7), date(2025, time.December, 6))
	require.NoError(t, err)
	assert.False(t, verdict.IsBooked)
}

func TestCheckSlotAvailabilityUnknownTherapist(t *testing.T) {
	f := newAvailabilityFixture()

	_, err := f.svc.CheckSlotAvailability(context.Background(), 99, "10:00",
		date(2025, time.November, 7), date(2025, time.December, 6))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAvailableSlotsWeekend(t *testing.T) {
	f := newAvailabilityFixture()

	slots, err := f.svc.GetAvailableSlots(context.Background(), 1, date(2025, time.November, 8))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetAvailableSlotsNoneConfigured(t *testing.T) {
	f := newAvailabilityFixture()
	f.therapist.therapists[1].SelectedSlots = nil

	slots, err := f.svc.GetAvailableSlots(context.Background(), 1, date(2025, time.November, 10))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetAvailableSlotsMergesPersisted(t *testing.T) {
	f := newAvailabilityFixture()
	day := date(2025, time.November, 10)

	f.slots.persisted = []*model.TimeSlot{
		{ID: 3, TherapistID: 1, Date: day, StartTime: "10:00", EndTime: "11:00", IsActive: true, IsBooked: true},
	}

	slots, err := f.svc.GetAvailableSlots(context.Background(), 1, day)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// Материализованный слот сохраняет id и флаг занятости
	assert.Equal(t, int64(3), slots[0].ID)
	assert.True(t, slots[0].IsBooked)

	// Несохранённый слот синтезируется из настроенных времён
	assert.Zero(t, slots[1].ID)
	assert.Equal(t, "14:00", slots[1].StartTime)
	assert.Equal(t, "15:00", slots[1].EndTime)
	assert.False(t, slots[1].IsBooked)
}

func TestGetAvailableSlotsSkipsInactive(t *testing.T) {
	f := newAvailabilityFixture()
	day := date(2025, time.November, 10)

	f.slots.persisted = []*model.TimeSlot{
		{ID: 3, TherapistID: 1, Date: day, StartTime: "10:00", EndTime: "11:00", IsActive: false},
	}

	slots, err := f.svc.GetAvailableSlots(context.Background(), 1, day)
	require.NoError(t, err)

	// Деактивированный слот не возвращается и не синтезируется заново
	require.Len(t, slots, 1)
	assert.Equal(t, "14:00", slots[0].StartTime)
}

func TestGetAvailableSlotsSkipsMalformedTimes(t *testing.T) {
	f := newAvailabilityFixture()
	f.therapist.therapists[1].SelectedSlots = []string{"10:00", "25:99"}

	slots, err := f.svc.GetAvailableSlots(context.Background(), 1, date(2025, time.November, 10))
	require.NoError(t, err)

	require.Len(t, slots, 1)
	assert.Equal(t, "10:00", slots[0].StartTime)
}
