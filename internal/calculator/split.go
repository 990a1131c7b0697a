package calculator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/money"
)

// SplitPolicy selects how an expense amount is divided among participants.
type SplitPolicy int

const (
	// Equal divides the amount evenly; only membership of the input matters.
	Equal SplitPolicy = iota + 1
	// Exact takes each participant's amount verbatim from the input.
	Exact
	// Percentage derives each amount from a percentage of the total.
	Percentage
)

func (p SplitPolicy) String() string {
	switch p {
	case Equal:
		return "EQUAL"
	case Exact:
		return "EXACT"
	case Percentage:
		return "PERCENTAGE"
	default:
		return fmt.Sprintf("SplitPolicy(%d)", int(p))
	}
}

// ParseSplitPolicy maps a wire name (EQUAL, EXACT, PERCENTAGE) to a policy.
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EQUAL":
		return Equal, nil
	case "EXACT":
		return Exact, nil
	case "PERCENTAGE":
		return Percentage, nil
	}
	return 0, fmt.Errorf("%w: unknown split type %q", ErrInvalidSplit, s)
}

// ShareInput is one participant's entry in a split request. Value is an exact
// amount for Exact, a percentage (0-100) for Percentage, and ignored for Equal.
type ShareInput struct {
	ParticipantID string
	Value         decimal.NullDecimal
}

// Member is a ShareInput without a value, as used by Equal splits.
func Member(participantID string) ShareInput {
	return ShareInput{ParticipantID: participantID}
}

// WithValue is a ShareInput carrying an amount or percentage.
func WithValue(participantID string, v decimal.Decimal) ShareInput {
	return ShareInput{ParticipantID: participantID, Value: decimal.NewNullDecimal(v)}
}

// SplitInput is the ordered participant list of a split. Order matters: the
// last participant absorbs any rounding remainder, so the same set in a
// different order may move that remainder to someone else.
type SplitInput []ShareInput

// Share is one participant's allocated portion of an expense.
type Share struct {
	ParticipantID string
	Amount        money.Money
	// Percentage is set for Percentage splits only and is carried for display.
	Percentage decimal.NullDecimal
}

// SplitResult holds one Share per input participant, in input order.
type SplitResult []Share

// Total sums the allocated amounts.
func (r SplitResult) Total() money.Money {
	var total money.Money
	for _, s := range r {
		total = total.Add(s.Amount)
	}
	return total
}

// PercentageTotal sums the percentages that are present.
func (r SplitResult) PercentageTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r {
		if s.Percentage.Valid {
			total = total.Add(s.Percentage.Decimal)
		}
	}
	return total
}

var (
	hundred = decimal.NewFromInt(100)
	oneCent = money.FromCents(1)
)

// Allocate divides total among the participants of input according to policy.
//
// Equal and Percentage shares are rounded half-up to the cent; the last
// participant in input order receives total minus everything already assigned,
// so the result always sums to total exactly. Exact amounts are copied as
// given and are not reconciled here; callers run ValidateSplit before
// committing.
func Allocate(total money.Money, policy SplitPolicy, input SplitInput) (SplitResult, error) {
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero, got %s", ErrInvalidSplit, total)
	}
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: at least one participant is required", ErrInvalidSplit)
	}
	if err := checkParticipants(input); err != nil {
		return nil, err
	}

	switch policy {
	case Equal:
		return allocateEqual(total, input), nil
	case Exact:
		return allocateExact(input)
	case Percentage:
		return allocatePercentage(total, input)
	default:
		return nil, fmt.Errorf("%w: unknown split policy %s", ErrInvalidSplit, policy)
	}
}

func checkParticipants(input SplitInput) error {
	seen := make(map[string]bool, len(input))
	for _, in := range input {
		if in.ParticipantID == "" {
			return fmt.Errorf("%w: participant id is required", ErrInvalidSplit)
		}
		if seen[in.ParticipantID] {
			return fmt.Errorf("%w: participant %s listed more than once", ErrInvalidSplit, in.ParticipantID)
		}
		seen[in.ParticipantID] = true
	}
	return nil
}

func allocateEqual(total money.Money, input SplitInput) SplitResult {
	share := total.DivRound(len(input))
	result := make(SplitResult, len(input))
	assigned := money.Zero
	last := len(input) - 1
	for i, in := range input {
		amount := share
		if i == last {
			amount = total.Sub(assigned)
		}
		assigned = assigned.Add(amount)
		result[i] = Share{ParticipantID: in.ParticipantID, Amount: amount}
	}
	return result
}

func allocateExact(input SplitInput) (SplitResult, error) {
	result := make(SplitResult, len(input))
	for i, in := range input {
		if !in.Value.Valid {
			return nil, fmt.Errorf("%w: amount missing for participant %s", ErrInvalidSplit, in.ParticipantID)
		}
		amount, err := money.FromDecimal(in.Value.Decimal)
		if err != nil {
			return nil, fmt.Errorf("%w: participant %s: %v", ErrInvalidSplit, in.ParticipantID, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: negative amount %s for participant %s", ErrInvalidSplit, amount, in.ParticipantID)
		}
		result[i] = Share{ParticipantID: in.ParticipantID, Amount: amount}
	}
	return result, nil
}

func allocatePercentage(total money.Money, input SplitInput) (SplitResult, error) {
	sum := decimal.Zero
	for _, in := range input {
		if !in.Value.Valid {
			return nil, fmt.Errorf("%w: percentage missing for participant %s", ErrInvalidSplit, in.ParticipantID)
		}
		p := in.Value.Decimal
		if p.IsNegative() || p.GreaterThan(hundred) {
			return nil, fmt.Errorf("%w: percentage %s for participant %s is outside 0-100", ErrInvalidSplit, p, in.ParticipantID)
		}
		sum = sum.Add(p)
	}
	if !sum.Equal(hundred) {
		return nil, fmt.Errorf("%w: percentages must sum to 100, got %s", ErrInvalidSplit, sum)
	}

	result := make(SplitResult, len(input))
	assigned := money.Zero
	last := len(input) - 1
	for i, in := range input {
		amount := total.Sub(assigned)
		if i != last {
			amount = total.Percent(in.Value.Decimal)
		}
		assigned = assigned.Add(amount)
		result[i] = Share{
			ParticipantID: in.ParticipantID,
			Amount:        amount,
			Percentage:    in.Value,
		}
	}
	return result, nil
}

// ValidateSplit reconciles an assembled split with its expense total before
// it is committed. The amounts may differ from total by at most one cent; for
// Percentage splits the percentages must add up to exactly 100.
func ValidateSplit(total money.Money, policy SplitPolicy, result SplitResult) error {
	sum := result.Total()
	if total.Sub(sum).Abs().Cmp(oneCent) > 0 {
		return fmt.Errorf("%w: split amounts (%s) do not match expense amount (%s)", ErrInvalidSplit, sum, total)
	}
	if policy == Percentage {
		if pct := result.PercentageTotal(); !pct.Equal(hundred) {
			return fmt.Errorf("%w: percentages must sum to 100, got %s", ErrInvalidSplit, pct)
		}
	}
	return nil
}

// AbsorbResidual moves any difference between total and the split amounts
// onto the last share that can take it without going negative, so the stored
// split sums to total exactly. It is applied after ValidateSplit has accepted
// an Exact split within the one-cent tolerance; Equal and Percentage results
// are already exact and come back unchanged. If no share can take the
// residual, it returns ErrInvalidSplit.
func AbsorbResidual(total money.Money, result SplitResult) (SplitResult, error) {
	diff := total.Sub(result.Total())
	if diff.IsZero() {
		return result, nil
	}
	out := slices.Clone(result)
	for i := len(out) - 1; i >= 0; i-- {
		if adjusted := out[i].Amount.Add(diff); !adjusted.IsNegative() {
			out[i].Amount = adjusted
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: no share can absorb %s to reach %s", ErrInvalidSplit, diff, total)
}
