package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloatFR(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"24,01", 24.01, true},
		{"1 234,5", 1234.5, true},
		{"1\u00a0234,5", 1234.5, true},
		{"12.5", 12.5, true},
		{"-3,2", -3.2, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseFloatFR(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseFloatFR(%q)", tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "ParseFloatFR(%q)", tt.in)
	}
}

func TestParseIntFR(t *testing.T) {
	n, ok := ParseIntFR("12 345")
	assert.True(t, ok)
	assert.Equal(t, 12345, n)

	n, ok = ParseIntFR("")
	assert.True(t, ok)
	assert.Equal(t, 0, n)

	_, ok = ParseIntFR("12,5")
	assert.False(t, ok)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "24.01", FormatFloat(24.01))
	assert.Equal(t, "3", FormatFloat(3))
}
