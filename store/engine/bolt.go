package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nvkalinin/html-calendar/log"
	"github.com/nvkalinin/html-calendar/store"
	"go.etcd.io/bbolt"
)

const notesBucket = "notes"

// Bolt хранит все заметки в одном бакете (const notesBucket).
// По ключу /<y>/<m> лежит JSON со всеми днями месяца, оба числа десятичные.
//
// Месяц — основная единица чтения: HTML-сетка рендерится помесячно, и запрос
// месяца одним ключом обходится без курсора. Хранение по дню на ключ
// замедлило бы именно этот путь, хранение года целиком — неудобно при отладке.
type Bolt struct {
	db *bbolt.DB
}

func NewBolt(file string) (*Bolt, error) {
	b, err := bbolt.Open(file, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot open bolt store: %w", err)
	}
	log.Debugf("store/bolt opened %s successfully", file)

	return &Bolt{
		db: b,
	}, nil
}

func (b *Bolt) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("cannot close bolt store: %w", err)
	}
	log.Debugf("store/bolt closed successfully")
	return nil
}

func (b *Bolt) FindDay(y int, mon time.Month, d int) (*store.Day, bool) {
	days, ok := b.FindMonth(y, mon)
	if !ok {
		return nil, false
	}

	day, ok := days[d]
	if !ok {
		return nil, false
	}

	return &day, true
}

func (b *Bolt) FindMonth(y int, mon time.Month) (d store.Days, ok bool) {
	_ = b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(notesBucket))
		if bucket == nil {
			return nil
		}

		key := fmt.Sprintf("/%d/%d", y, mon)
		daysJson := bucket.Get([]byte(key))
		log.Debugf("store/bolt get key=%s len=%d", key, len(daysJson))
		if daysJson == nil {
			return nil
		}

		if err := json.Unmarshal(daysJson, &d); err != nil {
			d = nil
			log.Printf("[WARN] bolt: invalid month notes at %s: %v", key, err)
			return nil
		}

		ok = true
		return nil
	})
	return
}

func (b *Bolt) FindYear(y int) (m store.Months, ok bool) {
	_ = b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(notesBucket))
		if bucket == nil {
			return nil
		}

		m = make(store.Months, 12)

		prefix := []byte(fmt.Sprintf("/%d/", y))
		c := bucket.Cursor()

		// Ключи в bolt отсортированы, поэтому достаточно перейти к первому
		// ключу с нужным префиксом и перебирать, пока префикс не сменится.
		k, v := c.Seek(prefix)
		for k != nil && bytes.HasPrefix(k, prefix) {
			log.Debugf("store/bolt cursor is at key=%s len=%d", k, len(v))

			monNum, err := strconv.Atoi(string(bytes.TrimPrefix(k, prefix)))
			if err != nil {
				log.Printf("[WARN] bolt: invalid month key: %s", k)
				k, v = c.Next()
				continue
			}

			var d store.Days
			if err := json.Unmarshal(v, &d); err != nil {
				log.Printf("[WARN] bolt: invalid month notes at %s: %v", k, err)
				k, v = c.Next()
				continue
			}

			m[time.Month(monNum)] = d
			k, v = c.Next()
		}

		ok = len(m) > 0
		return nil
	})
	return
}

func (b *Bolt) PutYear(y int, data store.Months) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(notesBucket))
		if err != nil {
			return fmt.Errorf("bolt cannot create bucket '%s': %v", notesBucket, err)
		}

		for m, days := range data {
			key := []byte(fmt.Sprintf("/%d/%d", y, m))

			val, err := json.Marshal(days)
			if err != nil {
				return fmt.Errorf("bolt cannot marshal %s: %v", key, err)
			}

			log.Debugf("store/bolt put key=%s len=%d", key, len(val))
			if err := bucket.Put(key, val); err != nil {
				return fmt.Errorf("bolt cannot put %s: %v", key, err)
			}
		}
		return nil
	})
}

// Backup пишет консистентный снимок БД в w.
func (b *Bolt) Backup(w io.Writer) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		log.Debugf("store/bolt writing backup len=%d", tx.Size())
		_, err := tx.WriteTo(w)
		return err
	})
}
