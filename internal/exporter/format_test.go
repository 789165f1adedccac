package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCAR(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"positive value", 0.019494, "0.019494"},
		{"negative value", -0.0102, "-0.010200"},
		{"zero", 0, "0.000000"},
		{"rounds past six places", 0.1234567, "0.123457"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatCAR(tt.input))
		})
	}
}

func TestFormatStat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"coefficient", 0.4201, "0.4201"},
		{"negative coefficient", -0.3112, "-0.3112"},
		{"tiny p-value keeps magnitude", 1e-8, "1e-08"},
		{"exact", 0.5, "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatStat(tt.input))
		})
	}
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "34", formatInt(34))
	assert.Equal(t, "0", formatInt(0))
}
