package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRiskLevel(t *testing.T) {
	tests := []struct {
		input string
		want  RiskLevel
	}{
		{"LOW", RiskLow},
		{"medium", RiskMedium},
		{"High", RiskHigh},
		{"very_high", RiskVeryHigh},
		{" EXTREME ", RiskExtreme},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRiskLevel(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseRiskLevel("x")
	assert.Error(t, err)
	_, err = ParseRiskLevel("")
	assert.Error(t, err)
}

func TestRiskLevelsAreOrderedAndDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i, level := range RiskLevels() {
		assert.Equal(t, RiskLevel(i), level)
		assert.False(t, seen[level.String()])
		seen[level.String()] = true

		parsed, ok := LookupRiskLevel(level.String())
		assert.True(t, ok)
		assert.Equal(t, level, parsed)
	}
	assert.Len(t, seen, 5)
}

func TestLookupRiskLevelIsExact(t *testing.T) {
	_, ok := LookupRiskLevel("high")
	assert.False(t, ok)
	_, ok = LookupRiskLevel("CRITICAL")
	assert.False(t, ok)
	assert.Equal(t, "RiskLevel(9)", RiskLevel(9).String())
}
