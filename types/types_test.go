package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want float64
	}{
		{"epoch", time.Unix(0, 0), 0},
		{"sub-second", time.Unix(1700000000, 500000000), 1700000000.5},
		{"zero time", time.Time{}, -62135596800},
		{"after 2262", time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC), 10413792000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Timestamp(tt.in), 1e-3)
		})
	}
}
