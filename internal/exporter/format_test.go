package exporter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "whole", input: 123, expected: "123.00"},
		{name: "rounded", input: 141066.666666, expected: "141066.67"},
		{name: "missing", input: math.NaN(), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatPrice(tt.input))
		})
	}
}

func TestFormatRatio(t *testing.T) {
	assert.Equal(t, "1.0526315789473684", formatRatio(1.0/0.95))
	assert.Equal(t, "1.1", formatRatio(1.1))
}
