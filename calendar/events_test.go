package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendar_AddEvent(t *testing.T) {
	c := New()

	// Трехдневное событие попадает на каждый день диапазона.
	err := c.AddEvent("A", day(2023, 6, 1), day(2023, 6, 3))
	require.NoError(t, err)
	for d := 1; d <= 3; d++ {
		assert.Len(t, c.eventsOn(2023, time.June, d), 1, "day %d", d)
	}
	assert.Empty(t, c.eventsOn(2023, time.June, 4))

	// Нулевой конец — однодневное событие.
	err = c.AddEvent("B", day(2023, 6, 2), time.Time{})
	require.NoError(t, err)
	assert.Len(t, c.eventsOn(2023, time.June, 2), 2)
}

func TestCalendar_AddEvent_Order(t *testing.T) {
	c := New()

	// Позднее добавленное событие с более ранней датой начала не
	// переставляет прежние записи на общих днях.
	require.NoError(t, c.AddEvent("late", day(2023, 6, 5), day(2023, 6, 5)))
	require.NoError(t, c.AddEvent("early", day(2023, 6, 1), day(2023, 6, 5)))

	events := c.eventsOn(2023, time.June, 5)
	require.Len(t, events, 2)
	assert.Equal(t, "late", events[0].html)
	assert.Equal(t, "early", events[1].html)
	assert.Less(t, events[0].id, events[1].id)
}

func TestCalendar_AddEvent_AcrossMonths(t *testing.T) {
	c := New()
	c.SetMonth(day(2023, 6, 1))

	// Диапазон через границу месяца: записи создаются и за его пределами.
	require.NoError(t, c.AddEvent("span", day(2023, 6, 29), day(2023, 7, 2)))
	assert.Len(t, c.eventsOn(2023, time.June, 30), 1)
	assert.Len(t, c.eventsOn(2023, time.July, 1), 1)
}

func TestCalendar_AddEvent_EndBeforeStart(t *testing.T) {
	c := New()

	err := c.AddEvent("bad", day(2023, 6, 3), day(2023, 6, 1))
	var confErr *ConfigError
	require.True(t, errors.As(err, &confErr))

	// Индекс не изменился.
	assert.Empty(t, c.events)
}

func TestCalendar_ClearEvents(t *testing.T) {
	c := New()

	require.NoError(t, c.AddEvent("A", day(2023, 6, 1), time.Time{}))
	require.NoError(t, c.AddEvent("B", day(2023, 6, 1), time.Time{}))
	c.ClearEvents()
	assert.Empty(t, c.events)

	// Счетчик идентификаторов не сбрасывается.
	require.NoError(t, c.AddEvent("C", day(2023, 6, 1), time.Time{}))
	events := c.eventsOn(2023, time.June, 1)
	require.Len(t, events, 1)
	assert.Equal(t, 2, events[0].id)
}
