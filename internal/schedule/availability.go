package schedule

import "time"

// Availability вердикт проверки занятости слота. Вердикт консультативный:
// он подсказывает UI, но не резервирует слот — окончательная проверка
// выполняется в транзакции при создании бронирований.
type Availability struct {
	IsBooked     bool `json:"isBooked"`
	BookingCount int  `json:"bookingCount"`
}

// BookedOccurrence одно существующее SCHEDULED бронирование терапевта:
// дата слота и его время начала.
type BookedOccurrence struct {
	Date      time.Time
	StartTime string // "HH:MM"
}

// ResolveAvailability определяет, занято ли время slotTime терапевта для
// диапазона [candidateStart, candidateEnd] (конец включительно).
//
// Сравнивается только компонент часы:минуты, дата игнорируется. Если все
// существующие бронирования этого времени лежат строго раньше candidateStart,
// слот свободен: освободившееся время можно заново использовать в будущем,
// старая история его не блокирует. Иначе бронирования фильтруются по окну
// год/месяц кандидата, и при непустом остатке слот считается занятым.
//
// Некорректные строки времени не ошибка: такие записи пропускаются и
// возвращаются вторым значением, чтобы вызывающий слой их залогировал.
// Повреждённые данные не должны ронять проверку доступности.
func ResolveAvailability(occurrences []BookedOccurrence, slotTime string, candidateStart, candidateEnd time.Time) (Availability, []string) {
	targetHour, targetMinute, err := ParseSlotTime(slotTime)
	if err != nil {
		// Нет информации — считаем слот свободным
		return Availability{}, []string{slotTime}
	}

	var skipped []string
	var matched []BookedOccurrence
	for _, occ := range occurrences {
		h, m, err := ParseSlotTime(occ.StartTime)
		if err != nil {
			skipped = append(skipped, occ.StartTime)
			continue
		}
		if h == targetHour && m == targetMinute {
			matched = append(matched, occ)
		}
	}

	if len(matched) == 0 {
		return Availability{}, skipped
	}

	// Самая поздняя дата среди существующих бронирований этого времени
	latest := DateOnly(matched[0].Date)
	for _, occ := range matched[1:] {
		if d := DateOnly(occ.Date); d.After(latest) {
			latest = d
		}
	}

	start := DateOnly(candidateStart)
	if start.After(latest) {
		return Availability{}, skipped
	}

	// Фильтруем по окну год/месяц кандидата, а не по точным датам
	startYM := yearMonth(candidateStart)
	endYM := yearMonth(candidateEnd)

	count := 0
	for _, occ := range matched {
		ym := yearMonth(occ.Date)
		if ym >= startYM && ym <= endYM {
			count++
		}
	}

	if count == 0 {
		return Availability{}, skipped
	}

	return Availability{IsBooked: true, BookingCount: count}, skipped
}

func yearMonth(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
