package calculator

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/money"
)

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func amounts(r SplitResult) []string {
	out := make([]string, len(r))
	for i, s := range r {
		out[i] = s.Amount.String()
	}
	return out
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		policy  SplitPolicy
		input   SplitInput
		want    []string
		wantErr bool
	}{
		{
			name:   "equal three ways, last absorbs remainder",
			total:  "100.00",
			policy: Equal,
			input:  SplitInput{Member("alice"), Member("bob"), Member("charlie")},
			want:   []string{"33.33", "33.33", "33.34"},
		},
		{
			name:   "equal rounds share half up",
			total:  "200.00",
			policy: Equal,
			input:  SplitInput{Member("alice"), Member("bob"), Member("charlie")},
			want:   []string{"66.67", "66.67", "66.66"},
		},
		{
			name:   "equal single participant",
			total:  "12.34",
			policy: Equal,
			input:  SplitInput{Member("alice")},
			want:   []string{"12.34"},
		},
		{
			name:   "equal ignores values",
			total:  "10.00",
			policy: Equal,
			input:  SplitInput{WithValue("alice", pct("99")), Member("bob")},
			want:   []string{"5.00", "5.00"},
		},
		{
			name:   "percentage last absorbs remainder",
			total:  "50.00",
			policy: Percentage,
			input: SplitInput{
				WithValue("a", pct("33.33")),
				WithValue("b", pct("33.33")),
				WithValue("c", pct("33.34")),
			},
			want: []string{"16.67", "16.67", "16.66"},
		},
		{
			name:   "percentage uneven",
			total:  "80.00",
			policy: Percentage,
			input:  SplitInput{WithValue("a", pct("25")), WithValue("b", pct("75"))},
			want:   []string{"20.00", "60.00"},
		},
		{
			name:    "percentage must sum to 100",
			total:   "80.00",
			policy:  Percentage,
			input:   SplitInput{WithValue("a", pct("25")), WithValue("b", pct("74.99"))},
			wantErr: true,
		},
		{
			name:    "percentage value required",
			total:   "80.00",
			policy:  Percentage,
			input:   SplitInput{WithValue("a", pct("100")), Member("b")},
			wantErr: true,
		},
		{
			name:    "percentage out of range",
			total:   "80.00",
			policy:  Percentage,
			input:   SplitInput{WithValue("a", pct("120")), WithValue("b", pct("-20"))},
			wantErr: true,
		},
		{
			name:   "exact copied verbatim",
			total:  "100.00",
			policy: Exact,
			input:  SplitInput{WithValue("a", pct("70.50")), WithValue("b", pct("29.49"))},
			want:   []string{"70.50", "29.49"},
		},
		{
			name:    "exact rejects sub-cent amounts",
			total:   "100.00",
			policy:  Exact,
			input:   SplitInput{WithValue("a", pct("70.505")), WithValue("b", pct("29.495"))},
			wantErr: true,
		},
		{
			name:    "exact rejects negative amounts",
			total:   "100.00",
			policy:  Exact,
			input:   SplitInput{WithValue("a", pct("110")), WithValue("b", pct("-10"))},
			wantErr: true,
		},
		{
			name:    "exact value required",
			total:   "100.00",
			policy:  Exact,
			input:   SplitInput{Member("a")},
			wantErr: true,
		},
		{
			name:    "zero total",
			total:   "0.00",
			policy:  Equal,
			input:   SplitInput{Member("a")},
			wantErr: true,
		},
		{
			name:    "negative total",
			total:   "-5.00",
			policy:  Equal,
			input:   SplitInput{Member("a")},
			wantErr: true,
		},
		{
			name:    "no participants",
			total:   "5.00",
			policy:  Equal,
			wantErr: true,
		},
		{
			name:    "duplicate participant",
			total:   "5.00",
			policy:  Equal,
			input:   SplitInput{Member("a"), Member("a")},
			wantErr: true,
		},
		{
			name:    "empty participant id",
			total:   "5.00",
			policy:  Equal,
			input:   SplitInput{Member("")},
			wantErr: true,
		},
		{
			name:    "unknown policy",
			total:   "5.00",
			policy:  SplitPolicy(42),
			input:   SplitInput{Member("a")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Allocate(money.MustParse(tt.total), tt.policy, tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSplit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, amounts(got))
			for i, s := range got {
				assert.Equal(t, tt.input[i].ParticipantID, s.ParticipantID, "order must follow input")
			}
		})
	}
}

func TestAllocate_PercentageCarriedThrough(t *testing.T) {
	got, err := Allocate(money.MustParse("50.00"), Percentage, SplitInput{
		WithValue("a", pct("33.33")),
		WithValue("b", pct("33.33")),
		WithValue("c", pct("33.34")),
	})
	require.NoError(t, err)

	for i, want := range []string{"33.33", "33.33", "33.34"} {
		require.True(t, got[i].Percentage.Valid)
		assert.True(t, got[i].Percentage.Decimal.Equal(pct(want)))
	}
	assert.True(t, got.PercentageTotal().Equal(pct("100")))
}

func TestAllocate_OrderDecidesRemainder(t *testing.T) {
	total := money.MustParse("100.00")

	first, err := Allocate(total, Equal, SplitInput{Member("a"), Member("b"), Member("c")})
	require.NoError(t, err)
	second, err := Allocate(total, Equal, SplitInput{Member("c"), Member("b"), Member("a")})
	require.NoError(t, err)

	assert.Equal(t, "33.34", first[2].Amount.String())
	assert.Equal(t, "c", first[2].ParticipantID)
	assert.Equal(t, "33.34", second[2].Amount.String())
	assert.Equal(t, "a", second[2].ParticipantID)
}

func TestAllocate_SumsExactly(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for iter := 0; iter < 500; iter++ {
		total := money.FromCents(1 + rng.Int64N(1_000_000))
		n := 1 + rng.IntN(12)

		equalInput := make(SplitInput, n)
		for i := range equalInput {
			equalInput[i] = Member(string(rune('a' + i)))
		}
		got, err := Allocate(total, Equal, equalInput)
		require.NoError(t, err)
		require.Equal(t, total, got.Total(), "equal split of %s over %d", total, n)

		// Random basis-point percentages that add up to exactly 100.
		remaining := int64(10_000)
		pctInput := make(SplitInput, n)
		for i := range pctInput {
			bp := remaining
			if i < n-1 {
				bp = rng.Int64N(remaining + 1)
			}
			remaining -= bp
			pctInput[i] = WithValue(string(rune('a'+i)), decimal.New(bp, -2))
		}
		got, err = Allocate(total, Percentage, pctInput)
		require.NoError(t, err)
		require.Equal(t, total, got.Total(), "percentage split of %s", total)
		require.NoError(t, ValidateSplit(total, Percentage, got))
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	input := SplitInput{WithValue("x", pct("12.5")), WithValue("y", pct("37.5")), WithValue("z", pct("50"))}
	first, err := Allocate(money.MustParse("99.99"), Percentage, input)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Allocate(money.MustParse("99.99"), Percentage, input)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestValidateSplit(t *testing.T) {
	total := money.MustParse("100.00")

	tests := []struct {
		name    string
		policy  SplitPolicy
		input   SplitInput
		wantErr bool
	}{
		{
			name:   "exact within one cent",
			policy: Exact,
			input:  SplitInput{WithValue("a", pct("50.00")), WithValue("b", pct("49.99"))},
		},
		{
			name:   "exact one cent over",
			policy: Exact,
			input:  SplitInput{WithValue("a", pct("50.00")), WithValue("b", pct("50.01"))},
		},
		{
			name:    "exact ten cents short",
			policy:  Exact,
			input:   SplitInput{WithValue("a", pct("50.00")), WithValue("b", pct("49.90"))},
			wantErr: true,
		},
		{
			name:    "exact far over",
			policy:  Exact,
			input:   SplitInput{WithValue("a", pct("80.00")), WithValue("b", pct("80.00"))},
			wantErr: true,
		},
		{
			name:   "equal always reconciles",
			policy: Equal,
			input:  SplitInput{Member("a"), Member("b"), Member("c")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Allocate(total, tt.policy, tt.input)
			require.NoError(t, err)
			err = ValidateSplit(total, tt.policy, result)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSplit)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSplit_PercentageTotal(t *testing.T) {
	total := money.MustParse("10.00")
	result := SplitResult{
		{ParticipantID: "a", Amount: money.MustParse("5.00"), Percentage: decimal.NewNullDecimal(pct("50"))},
		{ParticipantID: "b", Amount: money.MustParse("5.00"), Percentage: decimal.NewNullDecimal(pct("49.99"))},
	}
	assert.ErrorIs(t, ValidateSplit(total, Percentage, result), ErrInvalidSplit)
	assert.NoError(t, ValidateSplit(total, Exact, result))
}

func TestAbsorbResidual(t *testing.T) {
	total := money.MustParse("100.00")

	tests := []struct {
		name  string
		input SplitResult
		want  []string
	}{
		{
			name:  "exact sum unchanged",
			input: SplitResult{{ParticipantID: "a", Amount: money.MustParse("60.00")}, {ParticipantID: "b", Amount: money.MustParse("40.00")}},
			want:  []string{"60.00", "40.00"},
		},
		{
			name:  "one cent short goes to last",
			input: SplitResult{{ParticipantID: "a", Amount: money.MustParse("50.00")}, {ParticipantID: "b", Amount: money.MustParse("49.99")}},
			want:  []string{"50.00", "50.00"},
		},
		{
			name:  "one cent over taken from last",
			input: SplitResult{{ParticipantID: "a", Amount: money.MustParse("50.00")}, {ParticipantID: "b", Amount: money.MustParse("50.01")}},
			want:  []string{"50.00", "50.00"},
		},
		{
			name:  "zero last share skipped when over",
			input: SplitResult{{ParticipantID: "a", Amount: money.MustParse("100.01")}, {ParticipantID: "b", Amount: money.Zero}},
			want:  []string{"100.00", "0.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AbsorbResidual(total, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, amounts(got))
			assert.Equal(t, total, got.Total())
		})
	}

	t.Run("residual larger than every share", func(t *testing.T) {
		input := SplitResult{{ParticipantID: "a", Amount: money.MustParse("0.50")}, {ParticipantID: "b", Amount: money.MustParse("0.50")}}
		_, err := AbsorbResidual(money.Zero, input)
		assert.ErrorIs(t, err, ErrInvalidSplit)
	})
}

func TestParseSplitPolicy(t *testing.T) {
	for _, p := range []SplitPolicy{Equal, Exact, Percentage} {
		got, err := ParseSplitPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParseSplitPolicy(" percentage ")
	require.NoError(t, err)
	assert.Equal(t, Percentage, got)

	_, err = ParseSplitPolicy("SHARES")
	assert.ErrorIs(t, err, ErrInvalidSplit)
}
