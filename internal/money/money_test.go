package money

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		cents   int64
		wantErr bool
	}{
		{"1", 100, false},
		{"1.0", 100, false},
		{"12.34", 1234, false},
		{"0.01", 1, false},
		{"-5.50", -550, false},
		{"100.00", 10000, false},
		{"1.005", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"99999999999999999999", 0, true},
		{"1000000000000.00", MaxCents, false},
		{"-1000000000000.00", -MaxCents, false},
		{"1000000000000.01", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidAmount))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cents, got.Cents())
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "0.00", Zero.String())
	assert.Equal(t, "33.34", FromCents(3334).String())
	assert.Equal(t, "-0.05", FromCents(-5).String())
	assert.Equal(t, "1200.00", FromCents(120000).String())
}

func TestArithmetic(t *testing.T) {
	a := MustParse("10.25")
	b := MustParse("0.75")

	assert.Equal(t, "11.00", a.Add(b).String())
	assert.Equal(t, "9.50", a.Sub(b).String())
	assert.Equal(t, "-10.25", a.Neg().String())
	assert.Equal(t, "10.25", a.Neg().Abs().String())
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(FromCents(1025)))
	assert.Equal(t, b, Min(a, b))
	assert.Equal(t, "11.00", Sum(a, b).String())
	assert.True(t, Sum().IsZero())
}

func TestDivRound(t *testing.T) {
	tests := []struct {
		amount string
		n      int
		want   string
	}{
		{"100.00", 3, "33.33"},
		{"200.00", 3, "66.67"},
		{"0.05", 2, "0.03"}, // 2.5 cents rounds half up
		{"10.00", 4, "2.50"},
		{"0.01", 3, "0.00"},
	}
	for _, tt := range tests {
		got := MustParse(tt.amount).DivRound(tt.n)
		assert.Equal(t, tt.want, got.String(), "%s / %d", tt.amount, tt.n)
	}

	assert.Panics(t, func() { MustParse("1.00").DivRound(0) })
}

func TestPercent(t *testing.T) {
	tests := []struct {
		amount string
		pct    string
		want   string
	}{
		{"50.00", "33.33", "16.67"}, // 16.665 rounds half up
		{"50.00", "33.34", "16.67"},
		{"100.00", "12.5", "12.50"},
		{"0.10", "5", "0.01"}, // 0.005 rounds half up
		{"80.00", "0", "0.00"},
		{"80.00", "100", "80.00"},
		// Just below and at the half cent, past 16 fractional digits.
		{"0.01", "49.999999999999999999", "0.00"},
		{"0.01", "50.000000000000000000", "0.01"},
		{"1.00", "0.499999999999999999999", "0.00"},
		{"1000000000000.00", "33.333333333333333333", "333333333333.33"},
	}
	for _, tt := range tests {
		got := MustParse(tt.amount).Percent(decimal.RequireFromString(tt.pct))
		assert.Equal(t, tt.want, got.String(), "%s%% of %s", tt.pct, tt.amount)
	}
}

func TestJSON(t *testing.T) {
	type payload struct {
		Amount Money `json:"amount"`
	}

	out, err := json.Marshal(payload{Amount: MustParse("16.67")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"16.67"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"99.99"}`), &in))
	assert.Equal(t, int64(9999), in.Amount.Cents())

	require.NoError(t, json.Unmarshal([]byte(`{"amount":12.5}`), &in))
	assert.Equal(t, int64(1250), in.Amount.Cents())

	err = json.Unmarshal([]byte(`{"amount":"1.001"}`), &in)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
