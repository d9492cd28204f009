package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nvkalinin/html-calendar/store"
)

func TestOverride_GetYear(t *testing.T) {
	ov := &Override{
		Path: "testdata/override.yml",
	}

	months, err := ov.GetYear(2023)
	assert.NoError(t, err)
	expMonths := store.Months{
		time.June: store.Days{
			12: {Off: true, Kind: store.Holiday, Notes: []string{"День России"}},
		},
		time.November: store.Days{
			4: {Off: true, Kind: store.Holiday, Notes: []string{"День народного единства"}},
			6: {Kind: store.Normal},
		},
	}
	assert.Equal(t, expMonths, months)

	// Года нет в файле.
	months, err = ov.GetYear(2024)
	assert.NoError(t, err)
	assert.Len(t, months, 0)
}

func TestOverride_Errors(t *testing.T) {
	ov := &Override{Path: "testdata/no-such-file.yml"}
	_, err := ov.GetYear(2023)
	assert.Error(t, err)
}
