// Package source — источники заметок календаря: генератор выходных дней
// и YAML-файл с локальными данными.
package source

import (
	"time"

	"github.com/nvkalinin/html-calendar/store"
)

// Generic помечает заданные дни недели выходными на весь год.
// Остальные дни в результат не попадают: для них нет заметок.
type Generic struct {
	Weekend []time.Weekday
}

func NewGeneric() *Generic {
	return &Generic{
		Weekend: []time.Weekday{time.Saturday, time.Sunday},
	}
}

func (g *Generic) GetYear(targetYear int) (store.Months, error) {
	cal := make(store.Months, 12)

	date := time.Date(targetYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	for date.Year() == targetYear {
		if g.isWeekend(date.Weekday()) {
			mon := date.Month()
			if cal[mon] == nil {
				cal[mon] = make(store.Days, 10)
			}
			cal[mon][date.Day()] = store.Day{
				Off:  true,
				Kind: store.Weekend,
			}
		}

		date = date.AddDate(0, 0, 1)
	}

	return cal, nil
}

func (g *Generic) isWeekend(w time.Weekday) bool {
	for _, weekday := range g.Weekend {
		if w == weekday {
			return true
		}
	}
	return false
}
