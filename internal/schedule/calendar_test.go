package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrivekids/therapy_booking/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsBookableDay(t *testing.T) {
	// 2025-11-07 пятница
	assert.True(t, IsBookableDay(date(2025, time.November, 7)))
	assert.True(t, IsBookableDay(date(2025, time.November, 10))) // понедельник

	assert.False(t, IsBookableDay(date(2025, time.November, 8))) // суббота
	assert.False(t, IsBookableDay(date(2025, time.November, 9))) // воскресенье
}

func TestMonthlyEndDate(t *testing.T) {
	assert.Equal(t, date(2025, time.December, 6), MonthlyEndDate(date(2025, time.November, 7)))
	assert.Equal(t, date(2025, time.February, 14), MonthlyEndDate(date(2025, time.January, 15)))
	assert.Equal(t, date(2025, time.July, 31), MonthlyEndDate(date(2025, time.July, 1)))
}

func TestMonthlyEndDateMonthEndStart(t *testing.T) {
	// Старт в конце длинного месяца не перескакивает в следующий месяц,
	// а обрезается до последнего дня целевого
	assert.Equal(t, date(2025, time.February, 28), MonthlyEndDate(date(2025, time.January, 31)))
	assert.Equal(t, date(2024, time.February, 29), MonthlyEndDate(date(2024, time.January, 31)))
	assert.Equal(t, date(2025, time.September, 30), MonthlyEndDate(date(2025, time.August, 31)))
	assert.Equal(t, date(2025, time.February, 28), MonthlyEndDate(date(2025, time.January, 30)))
}

func TestSlotWindow(t *testing.T) {
	start, end, err := SlotWindow("10:00")
	require.NoError(t, err)
	assert.Equal(t, "10:00", start)
	assert.Equal(t, "11:00", end)

	start, end, err = SlotWindow("14:30")
	require.NoError(t, err)
	assert.Equal(t, "14:30", start)
	assert.Equal(t, "15:30", end)

	// Переход через полночь косметический
	start, end, err = SlotWindow("23:00")
	require.NoError(t, err)
	assert.Equal(t, "23:00", start)
	assert.Equal(t, "00:00", end)

	_, _, err = SlotWindow("25:00")
	assert.Error(t, err)

	_, _, err = SlotWindow("garbage")
	assert.Error(t, err)
}

func TestSlotTimesFor(t *testing.T) {
	t.Run("selected slots have priority", func(t *testing.T) {
		therapist := &model.Therapist{
			SelectedSlots:  []string{"10:00", "14:00"},
			AvailableSlots: []string{"09:00"},
		}
		assert.Equal(t, []string{"10:00", "14:00"}, SlotTimesFor(therapist))
	})

	t.Run("falls back to legacy field", func(t *testing.T) {
		therapist := &model.Therapist{
			AvailableSlots: []string{"09:00", "11:00"},
		}
		assert.Equal(t, []string{"09:00", "11:00"}, SlotTimesFor(therapist))
	})

	t.Run("deduplicates and sorts", func(t *testing.T) {
		therapist := &model.Therapist{
			SelectedSlots: []string{"14:00", "10:00", "14:00", "09:00"},
		}
		assert.Equal(t, []string{"09:00", "10:00", "14:00"}, SlotTimesFor(therapist))
	})

	t.Run("no slots configured", func(t *testing.T) {
		assert.Empty(t, SlotTimesFor(&model.Therapist{}))
	})
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2025-11-07")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.November, 7), parsed)

	_, err = ParseDate("07.11.2025")
	assert.Error(t, err)
}

func TestParseSlotTime(t *testing.T) {
	h, m, err := ParseSlotTime("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 30, m)

	_, _, err = ParseSlotTime("9am")
	assert.Error(t, err)
}
