package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		months int
		want   string
	}{
		{"simple", "2025-01-15", 3, "2025-04-15"},
		{"year rollover", "2025-11-10", 3, "2026-02-10"},
		{"clamps to month end", "2025-01-31", 1, "2025-02-28"},
		{"leap february", "2024-01-31", 1, "2024-02-29"},
		{"march from leap february", "2024-02-29", 1, "2024-03-29"},
		{"twelve months", "2025-06-30", 12, "2026-06-30"},
		{"zero months", "2025-06-30", 0, "2025-06-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := time.Parse("2006-01-02", tt.start)
			assert.NoError(t, err)

			got := AddMonths(start, tt.months)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestRoundMoney(t *testing.T) {
	assert.True(t, MoneyEqual(MustMoney("10.46"), RoundMoney(MustMoney("10.455"))))
	assert.True(t, MoneyEqual(MustMoney("10.45"), RoundMoney(MustMoney("10.454"))))
	assert.True(t, MoneyEqual(Zero(), RoundMoney(Zero())))
}
