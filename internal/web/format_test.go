package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"Zero", 0, "0.00"},
		{"Cents only", 0.5, "0.50"},
		{"Hundreds", 982.5, "982.50"},
		{"Thousands", 4982.5, "4,982.50"},
		{"Millions", 1234567.891, "1,234,567.89"},
		{"Negative thousands", -2508.75, "-2,508.75"},
		{"Exact thousand", 1000, "1,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.in))
		})
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "0.414", FormatQuantity(0.414))
	assert.Equal(t, "12.500", FormatQuantity(12.5))
	assert.Equal(t, "0.010", FormatQuantity(0.01), "threshold itself stays fixed-point")
	assert.Equal(t, "5.00e-03", FormatQuantity(0.005))
	assert.Equal(t, "0.000", FormatQuantity(0))
	assert.Equal(t, "-0.020", FormatQuantity(-0.02), "negatives never use scientific notation")
}

func TestFormatPreciseQuantity(t *testing.T) {
	assert.Equal(t, "0.414000", FormatPreciseQuantity(0.414))
	assert.Equal(t, "0.001000", FormatPreciseQuantity(0.001), "threshold itself stays fixed-point")
	assert.Equal(t, "5.00e-04", FormatPreciseQuantity(0.0005))
	assert.Equal(t, "0.000000", FormatPreciseQuantity(0))
}
