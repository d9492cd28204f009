package calendar

import (
	"time"

	"github.com/nvkalinin/html-calendar/dates"
)

// Ключ индекса событий: один конкретный календарный день.
type dayKey struct {
	y int
	m time.Month
	d int
}

type event struct {
	id   int    // Монотонно растет в пределах жизни Calendar, не переиспользуется.
	html string // Разметка события как есть, без экранирования.
}

// AddEvent добавляет событие на каждый день с start по end включительно.
// Нулевой end означает однодневное событие. Заголовок — доверенная разметка,
// рендер вставляет его без экранирования. Если начало позже конца,
// возвращается ошибка и индекс событий не меняется.
//
// Дни за пределами целевого месяца тоже попадают в индекс: рендер их просто
// не посещает, зато смена месяца через SetMonth не требует перезаполнения.
func (c *Calendar) AddEvent(title string, start, end time.Time) error {
	if end.IsZero() {
		end = start
	}

	from := dates.DayStart(start)
	to := dates.DayStart(end)
	if from.After(to) {
		return errConfig("event '%s': start %s is after end %s", title, dates.ISO(from), dates.ISO(to))
	}

	id := c.nextEventID
	c.nextEventID++

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		k := dayKey{y: d.Year(), m: d.Month(), d: d.Day()}
		c.events[k] = append(c.events[k], event{id: id, html: title})
	}
	return nil
}

// ClearEvents очищает индекс событий. Счетчик идентификаторов не сбрасывается.
func (c *Calendar) ClearEvents() {
	c.events = map[dayKey][]event{}
}

func (c *Calendar) eventsOn(y int, m time.Month, d int) []event {
	return c.events[dayKey{y: y, m: m, d: d}]
}
