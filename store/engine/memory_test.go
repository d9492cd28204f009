package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nvkalinin/html-calendar/store"
)

func testNotes() map[int]store.Months {
	return map[int]store.Months{
		2023: {
			time.June: {
				12: {Off: true, Kind: store.Holiday, Notes: []string{"День России"}},
			},
		},
	}
}

func TestMemory_FindDay(t *testing.T) {
	mem := Memory{notes: testNotes()}

	// Нормальный сценарий.
	day, ok := mem.FindDay(2023, time.June, 12)
	assert.True(t, ok)
	assert.Equal(t, &store.Day{Off: true, Kind: store.Holiday, Notes: []string{"День России"}}, day)

	// Изменение day не должно влиять на mem.notes.
	day.Notes[0] = "x"
	assert.Equal(t, "День России", mem.notes[2023][time.June][12].Notes[0])

	// Когда нет искомой даты.
	day, ok = mem.FindDay(2023, time.June, 13)
	assert.Nil(t, day)
	assert.False(t, ok)

	day, ok = mem.FindDay(2023, time.July, 12)
	assert.Nil(t, day)
	assert.False(t, ok)

	day, ok = mem.FindDay(2024, time.June, 12)
	assert.Nil(t, day)
	assert.False(t, ok)
}

func TestMemory_FindMonth(t *testing.T) {
	mem := Memory{notes: testNotes()}

	mon, ok := mem.FindMonth(2023, time.June)
	assert.True(t, ok)
	expMon := store.Days{
		12: {Off: true, Kind: store.Holiday, Notes: []string{"День России"}},
	}
	assert.Equal(t, expMon, mon)

	// Изменение mon не должно влиять на mem.notes.
	mon[12] = store.Day{Kind: store.Normal}
	assert.Equal(t, store.Holiday, mem.notes[2023][time.June][12].Kind)

	// Когда нет искомого месяца.
	mon, ok = mem.FindMonth(2023, time.July)
	assert.Nil(t, mon)
	assert.False(t, ok)
}

func TestMemory_FindYear(t *testing.T) {
	mem := Memory{notes: testNotes()}

	year, ok := mem.FindYear(2023)
	assert.True(t, ok)
	assert.Equal(t, testNotes()[2023], year)

	year, ok = mem.FindYear(2024)
	assert.Nil(t, year)
	assert.False(t, ok)
}

func TestMemory_PutYear(t *testing.T) {
	mem := NewMemory()

	toSave := store.Months{
		time.June: {
			12: {Off: true, Kind: store.Holiday},
		},
	}
	assert.NoError(t, mem.PutYear(2023, toSave))

	day, ok := mem.FindDay(2023, time.June, 12)
	assert.True(t, ok)
	assert.Equal(t, store.Holiday, day.Kind)

	// Изменение аргумента PutYear не должно влиять на mem.notes.
	toSave[time.June][12] = store.Day{Kind: store.Normal}
	assert.Equal(t, store.Holiday, mem.notes[2023][time.June][12].Kind)
}
