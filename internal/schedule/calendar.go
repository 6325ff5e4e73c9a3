package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/thrivekids/therapy_booking/internal/model"
)

// DateLayout формат дат на внешней границе ("YYYY-MM-DD")
const DateLayout = "2006-01-02"

// SlotTimeLayout формат времени слота ("HH:MM")
const SlotTimeLayout = "15:04"

// SessionDuration длительность одной сессии
const SessionDuration = time.Hour

// ParseDate разбирает дату формата "YYYY-MM-DD"
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseSlotTime разбирает время слота формата "HH:MM"
func ParseSlotTime(s string) (hour, minute int, err error) {
	t, err := time.Parse(SlotTimeLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse slot time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// IsBookableDay сообщает, можно ли бронировать сессии в этот день.
// Бронируются только будние дни, суббота и воскресенье исключены.
func IsBookableDay(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// SlotTimesFor возвращает упорядоченный набор времён слотов терапевта.
// selected_slots имеет приоритет над legacy полем available_slot_times.
// Пустой результат означает "слоты не настроены", это не ошибка.
func SlotTimesFor(therapist *model.Therapist) []string {
	source := therapist.SelectedSlots
	if len(source) == 0 {
		source = therapist.AvailableSlots
	}

	// Убираем дубликаты и сортируем по времени
	seen := make(map[string]struct{}, len(source))
	var times []string
	for _, s := range source {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		times = append(times, s)
	}
	sort.Strings(times)

	return times
}

// SlotWindow возвращает границы слота: конец всегда через час после начала.
// Переход через полночь (23:00 -> 00:00) чисто косметический и не меняет
// принадлежность слота к дате.
func SlotWindow(slotTime string) (startTime, endTime string, err error) {
	t, err := time.Parse(SlotTimeLayout, slotTime)
	if err != nil {
		return "", "", fmt.Errorf("parse slot time %q: %w", slotTime, err)
	}

	return t.Format(SlotTimeLayout), t.Add(SessionDuration).Format(SlotTimeLayout), nil
}

// MonthlyEndDate вычисляет дату окончания месячной серии: полный месяц
// минус один день. Пример: 2025-11-07 -> 2025-12-06. Старт в конце длинного
// месяца обрезается до последнего дня следующего месяца, а не переносится
// дальше: 2025-01-31 -> 2025-02-28, 2025-08-31 -> 2025-09-30.
func MonthlyEndDate(startDate time.Time) time.Time {
	end := startDate.AddDate(0, 1, 0)
	if end.Day() != startDate.Day() {
		// AddDate нормализовал несуществующий день (31 февраля) в
		// следующий месяц, откатываемся к последнему дню целевого
		return end.AddDate(0, 0, -end.Day())
	}
	return end.AddDate(0, 0, -1)
}

// DateOnly отбрасывает компонент времени, оставляя календарную дату
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
