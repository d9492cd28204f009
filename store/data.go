package store

import "time"

// Kind — категория дня в справочнике заметок.
type Kind string

const (
	Normal  Kind = "normal"  // Обычный день.
	Weekend Kind = "weekend" // Выходной по дню недели.
	Holiday Kind = "holiday" // Праздничный день.
)

// Day — заметки одного календарного дня. Notes попадают в ячейку
// рендеримой сетки как события, в порядке добавления.
type Day struct {
	Off   bool     `json:"off,omitempty"` // Нерабочий день.
	Kind  Kind     `json:"kind,omitempty"`
	Notes []string `json:"notes,omitempty"`
}

// Days — заметки месяца, ключ — число месяца.
type Days map[int]Day

// Months — заметки года, ключ — номер месяца.
type Months map[time.Month]Days

func (d Day) Copy() Day {
	dCopy := d
	if d.Notes != nil {
		dCopy.Notes = make([]string, len(d.Notes))
		copy(dCopy.Notes, d.Notes)
	}
	return dCopy
}

func (m Days) Copy() Days {
	mCopy := make(Days, len(m))
	for dayNum, day := range m {
		mCopy[dayNum] = day.Copy()
	}
	return mCopy
}

func (y Months) Copy() Months {
	yCopy := make(Months, len(y))
	for monNum, month := range y {
		yCopy[monNum] = month.Copy()
	}
	return yCopy
}
