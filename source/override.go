package source

import (
	"fmt"
	"os"

	"github.com/nvkalinin/html-calendar/store"
	"gopkg.in/yaml.v3"
)

// Override — источник, который берет заметки из YAML-файла.
// Формат: год -> номер месяца -> число -> store.Day.
type Override struct {
	Path string
}

type overrides map[int]store.Months // Ключ - год.

func (o *Override) GetYear(y int) (store.Months, error) {
	// Админ может менять файл, поэтому читаем его при каждом вызове.
	f, err := os.ReadFile(o.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot read overrides yaml: %w", err)
	}

	ov := overrides{}
	if err := yaml.Unmarshal(f, &ov); err != nil {
		return nil, fmt.Errorf("cannot parse overrides yaml: %w", err)
	}

	return ov[y], nil
}
