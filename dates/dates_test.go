package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestParse_ISO(t *testing.T) {
	d, err := Parse("2023-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = Parse("2023-06-15 10:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC), d)

	_, err = Parse("not-a-date")
	assert.Error(t, err)
}

func TestParse_Relative(t *testing.T) {
	now := time.Now()

	d, err := Parse("today")
	require.NoError(t, err)
	assert.True(t, SameDay(now, d))

	d, err = Parse("Tomorrow")
	require.NoError(t, err)
	assert.True(t, SameDay(now.AddDate(0, 0, 1), d))

	d, err = Parse("")
	require.NoError(t, err)
	assert.True(t, SameDay(now, d))
}

func TestWeekday(t *testing.T) {
	cases := []struct {
		in  string
		exp time.Weekday
		ok  bool
	}{
		{"mon", time.Monday, true},
		{"Monday", time.Monday, true},
		{"SUN", time.Sunday, true},
		{" saturday ", time.Saturday, true},
		{"m", -1, false},
		{"", -1, false},
	}
	for _, c := range cases {
		wd, ok := Weekday(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.exp, wd, c.in)
	}
}

func TestMonthStart(t *testing.T) {
	d := time.Date(2023, 6, 15, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), MonthStart(d))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 30, DaysInMonth(2023, time.June))
	assert.Equal(t, 31, DaysInMonth(2023, time.December))
	assert.Equal(t, 28, DaysInMonth(2023, time.February))
	assert.Equal(t, 29, DaysInMonth(2024, time.February)) // Високосный год.
}

func TestISO(t *testing.T) {
	assert.Equal(t, "2023-06-05", ISO(time.Date(2023, 6, 5, 23, 59, 0, 0, time.UTC)))
}

func TestLabels(t *testing.T) {
	en := Labels(language.English)
	assert.Equal(t, "Sunday", en[0])
	assert.Equal(t, "Saturday", en[6])

	ru := Labels(language.Russian)
	assert.Equal(t, "Воскресенье", ru[0])

	// Неизвестный язык сводится к английскому.
	assert.Equal(t, en, LabelsFor("de"))
	assert.Equal(t, ru, LabelsFor("ru-RU"))
	assert.Equal(t, en, LabelsFor("???"))
}
