// Package updater периодически собирает заметки календаря из источников
// и складывает их в хранилище.
package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/nvkalinin/html-calendar/log"
	"github.com/nvkalinin/html-calendar/store"
)

type Source interface {
	// GetYear может вернуть не все месяцы года.
	GetYear(y int) (store.Months, error)
}

type Store interface {
	PutYear(y int, data store.Months) error
}

type ProcOpts struct {
	Src      []Source  // Упорядоченный список источников заметок.
	Store    Store     // Куда сохранять итог (необязательно, если нужен только MakeYear).
	UpdateAt time.Time // Используется только время, остальное игнорируется.
}

type Processor struct {
	ProcOpts
	stopCh  chan struct{}
	stopped bool
}

func NewProcessor(opts ProcOpts) *Processor {
	return &Processor{
		ProcOpts: opts,
		stopCh:   make(chan struct{}),
	}
}

// RunUpdates раз в сутки (UpdateAt) обновляет заметки за текущий и следующий год.
func (p *Processor) RunUpdates() {
	t := time.NewTimer(p.untilNextRun())
	for {
		select {
		case <-t.C:
			p.UpdateCurrentYears()
			t.Reset(p.untilNextRun())

		case <-p.stopCh:
			p.stopped = true
			return
		}
	}
}

func (p *Processor) Shutdown(ctx context.Context) error {
	close(p.stopCh)

	for {
		select {
		case <-time.After(10 * time.Millisecond):
			if p.stopped {
				return nil
			}
		case <-ctx.Done():
			log.Printf("[WARN] updater shutdown timeout")
			return ctx.Err()
		}
	}
}

func (p *Processor) untilNextRun() time.Duration {
	now := time.Now()

	nextRun := time.Date(
		now.Year(), now.Month(), now.Day(),
		p.UpdateAt.Hour(), p.UpdateAt.Minute(), p.UpdateAt.Second(), p.UpdateAt.Nanosecond(),
		time.Local,
	)

	d := time.Until(nextRun)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}

func (p *Processor) UpdateCurrentYears() {
	y := time.Now().Year()

	if err := p.UpdateYear(y); err != nil {
		log.Printf("[WARN] updater cannot update %d: %+v", y, err)
	}

	if err := p.UpdateYear(y + 1); err != nil {
		log.Printf("[WARN] updater cannot update %d: %+v", y+1, err)
	}
}

func (p *Processor) UpdateYear(y int) error {
	notes := p.MakeYear(y)
	if len(notes) > 0 {
		if err := p.Store.PutYear(y, notes); err != nil {
			return fmt.Errorf("updater cannot store year %d: %w", y, err)
		}
	}
	return nil
}

// MakeYear собирает заметки на один год из источников Src.
// Данные последующих источников дополняют предыдущие: флаги и категория
// заменяются, заметки дописываются в конец. Источник, вернувший ошибку,
// пропускается. Если данных нет ниоткуда, возвращается пустой store.Months.
func (p *Processor) MakeYear(y int) store.Months {
	notes := make(store.Months, 12)

	for i, src := range p.Src {
		months, err := src.GetYear(y)
		if err != nil {
			log.Printf("[WARN] updater skipping source %d (%T), error: %+v", i, src, err)
			continue
		}

		notes = merge(notes, months)
	}

	return notes
}

func merge(m1 store.Months, m2 store.Months) store.Months {
	res := m1.Copy()
	for mon, days := range m2 {
		if _, monExists := res[mon]; !monExists {
			res[mon] = make(store.Days, len(days))
		}

		for dayNum, day := range days {
			merged := res[mon][dayNum]
			merged.Off = day.Off

			if day.Kind != "" {
				merged.Kind = day.Kind
			}
			merged.Notes = append(merged.Notes, day.Notes...)

			res[mon][dayNum] = merged
		}
	}
	return res
}
