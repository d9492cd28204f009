package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendar_SetMonth(t *testing.T) {
	c := New()

	c.SetMonth(time.Date(2023, 6, 15, 13, 45, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), c.month)

	// Повторный вызов с тем же аргументом ничего не меняет.
	c.SetMonth(time.Date(2023, 6, 15, 13, 45, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), c.month)

	// Нулевое значение — текущий месяц.
	c.now = func() time.Time { return time.Date(2022, 2, 20, 10, 0, 0, 0, time.UTC) }
	c.SetMonth(time.Time{})
	assert.Equal(t, time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC), c.month)
}

func TestCalendar_SetCSSClasses(t *testing.T) {
	c := New()

	err := c.SetCSSClasses(map[Role]string{
		RoleHighlight: "is-today",
		RoleDisabled:  "is-off",
	})
	require.NoError(t, err)
	assert.Equal(t, "is-today", c.classes[RoleHighlight])
	assert.Equal(t, "is-off", c.classes[RoleDisabled])
	// Остальные роли не тронуты.
	assert.Equal(t, "calendar", c.classes[RoleCalendar])

	// Неизвестная роль: ошибка, состояние не меняется, даже для валидных ключей
	// из того же вызова.
	err = c.SetCSSClasses(map[Role]string{
		Role("bogus"): "x",
	})
	var confErr *ConfigError
	require.True(t, errors.As(err, &confErr))
	assert.Equal(t, "is-today", c.classes[RoleHighlight])
}

func TestCalendar_SetWeekdays(t *testing.T) {
	c := New()

	labels := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	require.NoError(t, c.SetWeekdays(labels))
	assert.Equal(t, "Пн", c.weekdays[1])

	// Неверная длина — ошибка, прежние подписи сохраняются.
	err := c.SetWeekdays([]string{"Пн", "Вт"})
	var confErr *ConfigError
	require.True(t, errors.As(err, &confErr))
	assert.Equal(t, "Пн", c.weekdays[1])

	// Пустой список возвращает подписи по умолчанию.
	require.NoError(t, c.SetWeekdays(nil))
	assert.Equal(t, "Sunday", c.weekdays[0])
}

func TestCalendar_SetWeekOffset(t *testing.T) {
	c := New()

	require.NoError(t, c.SetWeekOffset(WeekdayNum(1)))
	assert.Equal(t, 1, c.weekOffset)

	// Большие значения сводятся по модулю 7.
	require.NoError(t, c.SetWeekOffset(WeekdayNum(8)))
	assert.Equal(t, 1, c.weekOffset)

	require.NoError(t, c.SetWeekOffset(WeekdayName("Monday")))
	assert.Equal(t, 1, c.weekOffset)

	// Отрицательное число — ошибка, состояние не меняется.
	err := c.SetWeekOffset(WeekdayNum(-1))
	var confErr *ConfigError
	require.True(t, errors.As(err, &confErr))
	assert.Equal(t, 1, c.weekOffset)

	// Нераспознанное название — тоже ошибка.
	err = c.SetWeekOffset(WeekdayName("someday"))
	require.True(t, errors.As(err, &confErr))
	assert.Equal(t, 1, c.weekOffset)
}

func TestCalendar_SetExcludedDays(t *testing.T) {
	c := New()

	require.NoError(t, c.SetExcludedDays(WeekdayNum(0), WeekdayName("sat")))
	assert.True(t, c.excluded[time.Sunday])
	assert.True(t, c.excluded[time.Saturday])

	// Дубликаты допустимы.
	require.NoError(t, c.SetExcludedDays(WeekdayNum(0)))
	assert.True(t, c.excluded[time.Sunday])

	// Ошибка в любом аргументе — список не меняется целиком.
	err := c.SetExcludedDays(WeekdayNum(2), WeekdayName("nope"))
	var confErr *ConfigError
	require.True(t, errors.As(err, &confErr))
	assert.False(t, c.excluded[time.Tuesday])
}

func TestCalendar_SetCustomAttributes(t *testing.T) {
	c := New()

	c.SetCustomAttributes(map[string]string{"data-x": "1"}, true)
	c.SetCustomAttributes(map[string]string{"data-y": "2"}, false)

	// Ключи сливаются, флаг берется из последнего вызова.
	assert.Equal(t, map[string]string{"data-x": "1", "data-y": "2"}, c.attrs)
	assert.False(t, c.attrsActiveOnly)
}

func TestCalendar_SetTableID(t *testing.T) {
	c := New()

	c.SetTableID("<b>my calendar</b>")
	assert.Equal(t, "my-calendar", c.tableID)

	c.SetTableID(`cal"x`)
	assert.Equal(t, "cal&#34;x", c.tableID)
}
