package engine

import (
	"time"

	"github.com/nvkalinin/html-calendar/store"
)

// Memory хранит заметки в map, без персистентности.
// Все методы возвращают копии: мутации результатов не влияют на хранилище.
type Memory struct {
	notes map[int]store.Months
}

func NewMemory() *Memory {
	return &Memory{
		notes: make(map[int]store.Months, 3),
	}
}

func (m *Memory) FindDay(y int, mon time.Month, d int) (*store.Day, bool) {
	month, ok := m.FindMonth(y, mon)
	if !ok {
		return nil, false
	}

	day, ok := month[d]
	if !ok {
		return nil, false
	}

	return &day, true
}

func (m *Memory) FindMonth(y int, mon time.Month) (store.Days, bool) {
	year, ok := m.notes[y]
	if !ok {
		return nil, false
	}

	month, ok := year[mon]
	if !ok {
		return nil, false
	}

	return month.Copy(), true
}

func (m *Memory) FindYear(y int) (store.Months, bool) {
	year, ok := m.notes[y]
	if !ok {
		return nil, false
	}

	return year.Copy(), true
}

func (m *Memory) PutYear(y int, data store.Months) error {
	m.notes[y] = data.Copy()
	return nil
}
