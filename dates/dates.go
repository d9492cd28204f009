// Package dates — вспомогательные операции над датами для рендеринга календаря:
// разбор пользовательского ввода, нормализация к началу месяца, названия дней недели.
package dates

import (
	"strings"
	"time"
)

// ISODate — канонический формат даты (YYYY-MM-DD), используется в ключах
// и атрибутах разметки.
const ISODate = "2006-01-02"

// Parse разбирает пользовательский ввод в дату: ISO-8601 (с временем или без),
// а также относительные термины "today", "tomorrow", "yesterday".
// Пустая строка означает "сегодня". Ошибки time.Parse возвращаются как есть.
func Parse(s string) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today", "now":
		return time.Now(), nil
	case "tomorrow":
		return time.Now().AddDate(0, 0, 1), nil
	case "yesterday":
		return time.Now().AddDate(0, 0, -1), nil
	}

	if t, err := time.Parse(ISODate, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Weekday сопоставляет название дня недели (полное или трехбуквенное,
// регистр не важен) с time.Weekday.
func Weekday(name string) (time.Weekday, bool) {
	// @formatter:off
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sun", "sunday":    return time.Sunday,    true
	case "mon", "monday":    return time.Monday,    true
	case "tue", "tuesday":   return time.Tuesday,   true
	case "wed", "wednesday": return time.Wednesday, true
	case "thu", "thursday":  return time.Thursday,  true
	case "fri", "friday":    return time.Friday,    true
	case "sat", "saturday":  return time.Saturday,  true
	default:                 return -1,             false
	}
	// @formatter:on
}

// MonthStart нормализует дату к первому дню ее месяца (00:00 локального времени).
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DayStart отбрасывает время, оставляя полночь того же дня.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func DaysInMonth(y int, m time.Month) int {
	// day=0 нормализуется: будет выбран последний день месяца.
	lastDay := time.Date(y, nextMonth(m), 0, 0, 0, 0, 0, time.UTC)
	return lastDay.Day()
}

func nextMonth(m time.Month) time.Month {
	next := m + 1
	if next > time.December {
		next = time.January
	}
	return next
}

// ISO форматирует дату в канонический вид YYYY-MM-DD.
func ISO(t time.Time) string {
	return t.Format(ISODate)
}

// SameDay сравнивает две даты с точностью до календарного дня.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
