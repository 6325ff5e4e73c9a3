package schedule

import (
	"time"

	"github.com/thrivekids/therapy_booking/internal/model"
)

// ExpandDates разворачивает паттерн повторения в упорядоченный список
// календарных дат внутри [startDate, endDate] включительно.
//
// DAILY исторически означает "каждый будний день": выходные пропускаются.
// WEEKLY выбирает даты с днём недели dayOfWeek (0 = Sunday).
//
// Валидация входа (будний startDate, dayOfWeek для WEEKLY) выполняется
// вызывающим слоем до разворачивания. Результат конечен и полностью
// материализован: вызывающему нужно точное число сессий до коммита.
func ExpandDates(startDate, endDate time.Time, pattern model.RecurrencePattern, dayOfWeek int) []time.Time {
	start := DateOnly(startDate)
	end := DateOnly(endDate)

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch pattern {
		case model.PatternDaily:
			if !IsBookableDay(d) {
				continue
			}
		case model.PatternWeekly:
			if int(d.Weekday()) != dayOfWeek {
				continue
			}
		default:
			continue
		}
		dates = append(dates, d)
	}

	return dates
}
