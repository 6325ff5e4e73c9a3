package repository

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrivekids/therapy_booking/internal/model"
)

// fakeRows имитирует pgx.Rows: отдаёт заготовленные строки и, если задан
// err, ведёт себя как выборка, оборванная посреди итерации. Next() при этом
// возвращает false точно так же, как при штатном исчерпании.
type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	for i, d := range dest {
		if row[i] == nil {
			continue
		}
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

var errConnLost = errors.New("unexpected EOF")

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestScanBookedOccurrences(t *testing.T) {
	rows := &fakeRows{rows: [][]any{
		{day(2025, time.November, 10), "10:00"},
		{day(2025, time.November, 17), "10:00"},
	}}

	occurrences, err := scanBookedOccurrences(rows)
	require.NoError(t, err)
	require.Len(t, occurrences, 2)
	assert.Equal(t, "10:00", occurrences[0].StartTime)
	assert.Equal(t, day(2025, time.November, 10), occurrences[0].Date)
}

func TestScanBookedOccurrencesTruncated(t *testing.T) {
	// Обрыв после первой строки: усечённый список без ошибки дал бы
	// резолверу конфликтов ложное "свободно"
	rows := &fakeRows{
		rows: [][]any{{day(2025, time.November, 10), "10:00"}},
		err:  errConnLost,
	}

	occurrences, err := scanBookedOccurrences(rows)
	assert.Nil(t, occurrences)
	assert.ErrorIs(t, err, errConnLost)
}

func TestScanBookingsWithSlotsTruncated(t *testing.T) {
	recurringID := int64(2)
	rows := &fakeRows{
		rows: [][]any{{
			int64(1), int64(7), int64(1), int64(3), &recurringID,
			model.BookingStatusScheduled, time.Now(), time.Now(),
			int64(3), int64(1), day(2025, time.November, 10), "10:00", "11:00", true, time.Now(),
		}},
		err: errConnLost,
	}

	bookings, err := scanBookingsWithSlots(rows)
	assert.Nil(t, bookings)
	assert.ErrorIs(t, err, errConnLost)
}

func TestScanTimeSlotsTruncated(t *testing.T) {
	rows := &fakeRows{
		rows: [][]any{{
			int64(3), int64(1), day(2025, time.November, 10), "10:00", "11:00", true, time.Now(), false,
		}},
		err: errConnLost,
	}

	slots, err := scanTimeSlots(rows)
	assert.Nil(t, slots)
	assert.ErrorIs(t, err, errConnLost)
}

func TestScanLeaveRequestsTruncated(t *testing.T) {
	rows := &fakeRows{
		rows: [][]any{{
			int64(5), int64(1), day(2025, time.November, 14),
			model.LeaveTypeSick, model.LeaveStatusPending, "", time.Now(), time.Now(),
		}},
		err: errConnLost,
	}

	requests, err := scanLeaveRequests(rows)
	assert.Nil(t, requests)
	assert.ErrorIs(t, err, errConnLost)
}
