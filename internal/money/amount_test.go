package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDecimalString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "plain", input: "10.00", want: "10", ok: true},
		{name: "empty_is_zero", input: "", want: "0", ok: true},
		{name: "whitespace_only", input: "   ", want: "0", ok: true},
		{name: "comma_decimal", input: "19,5", want: "19.5", ok: true},
		{name: "dot_thousands_comma_decimal", input: "1.234,56", want: "1234.56", ok: true},
		{name: "comma_thousands_dot_decimal", input: "1,234.56", want: "1234.56", ok: true},
		{name: "double_grouping", input: "1.234.567,89", want: "1234567.89", ok: true},
		{name: "negative", input: "-42,10", want: "-42.1", ok: true},
		{name: "integer", input: "1426", want: "1426", ok: true},
		{name: "garbage", input: "12abc", want: "0", ok: false},
		{name: "separator_only", input: ",", want: "0", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromDecimalString(tt.input)
			assert.Equal(t, tt.ok, ok)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "want %s got %s", want, got)
		})
	}
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		precision int32
		want      int64
	}{
		{name: "two_digits", input: "10.00", precision: 2, want: 1000},
		{name: "round_half_up", input: "10.275", precision: 2, want: 1028},
		{name: "round_down", input: "10.271", precision: 2, want: 1027},
		{name: "negative_half", input: "-10.275", precision: 2, want: -1028},
		{name: "internal_precision", input: "8.403361344538", precision: 12, want: 8403361344538},
		{name: "zero_digits", input: "1023.5", precision: 0, want: 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ToMinorUnits(d, tt.precision))
		})
	}
}

func TestRescaleMinorUnits(t *testing.T) {
	// 8.403361344538 at 12 digits becomes 8.40 at 2 digits.
	assert.Equal(t, int64(840), RescaleMinorUnits(8403361344538, InternalPrecision, OutputPrecision))
	// Half-way values round up.
	assert.Equal(t, int64(126), RescaleMinorUnits(1255000000000, InternalPrecision, OutputPrecision))
	assert.Equal(t, int64(0), RescaleMinorUnits(0, InternalPrecision, OutputPrecision))
}

func TestFormatDecimal(t *testing.T) {
	d := decimal.RequireFromString("8.403361344538")
	assert.Equal(t, "8.40", FormatDecimal(d, OutputPrecision))
	assert.Equal(t, "8.403361344538", FormatDecimal(d, InternalPrecision))
}

func TestMinorUnitsRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("140.00")
	units := ToMinorUnits(d, OutputPrecision)
	assert.True(t, d.Equal(FromMinorUnits(units, OutputPrecision)))
}
