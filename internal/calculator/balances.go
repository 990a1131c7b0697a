package calculator

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mmynk/splitledger/internal/money"
)

// LedgerEntry is the minimal view of a stored expense needed for balances.
type LedgerEntry struct {
	PayerID string
	Total   money.Money
	Shares  []Share
}

// Balances maps a participant id to its net position.
// Positive = is owed money, negative = owes money.
type Balances map[string]money.Money

// Sum adds every balance. A well-formed vector sums to zero.
func (b Balances) Sum() money.Money {
	var total money.Money
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// Settlement is a suggested payment that reduces outstanding balances.
type Settlement struct {
	From   string // debtor
	To     string // creditor
	Amount money.Money
}

// ParticipantSummary aggregates one participant's activity across entries.
type ParticipantSummary struct {
	ParticipantID string
	TotalPaid     money.Money
	TotalOwed     money.Money
	NetBalance    money.Money
}

// NetBalances credits each payer with the full total and debits each share
// holder with their amount. A payer who also holds a share nets to
// total minus own share. Participants that appear in no entry are absent.
func NetBalances(entries []LedgerEntry) Balances {
	balances := make(Balances)
	for _, e := range entries {
		balances[e.PayerID] = balances[e.PayerID].Add(e.Total)
		for _, s := range e.Shares {
			balances[s.ParticipantID] = balances[s.ParticipantID].Sub(s.Amount)
		}
	}
	return balances
}

// CheckConservation reports ErrMalformedBalance when b does not sum to zero.
func CheckConservation(b Balances) error {
	if residual := b.Sum(); !residual.IsZero() {
		return fmt.Errorf("%w: balances sum to %s, want 0.00", ErrMalformedBalance, residual)
	}
	return nil
}

type position struct {
	id     string
	amount money.Money
}

// byAmountDesc orders positions by amount, largest first; equal amounts are
// ordered by participant id so the output does not depend on map iteration.
func byAmountDesc(a, b position) int {
	if c := b.amount.Cmp(a.amount); c != 0 {
		return c
	}
	return cmp.Compare(a.id, b.id)
}

// Simplify reduces b to a short list of settlements using a greedy match of
// the largest debtor against the largest creditor. Every step settles at least
// one side, so k non-zero participants need at most k-1 settlements.
//
// Simplify does not verify that b sums to zero; run CheckConservation first.
// On a malformed vector it still terminates and leaves the residual unsettled.
func Simplify(b Balances) []Settlement {
	var debtors, creditors []position
	for id, amount := range b {
		switch {
		case amount.IsNegative():
			debtors = append(debtors, position{id: id, amount: amount.Neg()})
		case amount.IsPositive():
			creditors = append(creditors, position{id: id, amount: amount})
		}
	}
	slices.SortFunc(debtors, byAmountDesc)
	slices.SortFunc(creditors, byAmountDesc)

	var settlements []Settlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]
		amount := money.Min(d.amount, c.amount)
		settlements = append(settlements, Settlement{From: d.id, To: c.id, Amount: amount})

		d.amount = d.amount.Sub(amount)
		c.amount = c.amount.Sub(amount)
		if d.amount.IsZero() {
			i++
		}
		if c.amount.IsZero() {
			j++
		}
	}
	return settlements
}

// Settle runs the full balance pipeline over a ledger snapshot.
func Settle(entries []LedgerEntry) (Balances, []Settlement, error) {
	balances := NetBalances(entries)
	if err := CheckConservation(balances); err != nil {
		return nil, nil, err
	}
	return balances, Simplify(balances), nil
}

// Involving returns the settlements in which id pays or receives.
func Involving(settlements []Settlement, id string) []Settlement {
	var out []Settlement
	for _, s := range settlements {
		if s.From == id || s.To == id {
			out = append(out, s)
		}
	}
	return out
}

// Summarize reports total paid, total owed and net balance per participant,
// ordered by participant id.
func Summarize(entries []LedgerEntry) []ParticipantSummary {
	byID := make(map[string]*ParticipantSummary)
	get := func(id string) *ParticipantSummary {
		s, ok := byID[id]
		if !ok {
			s = &ParticipantSummary{ParticipantID: id}
			byID[id] = s
		}
		return s
	}

	for _, e := range entries {
		payer := get(e.PayerID)
		payer.TotalPaid = payer.TotalPaid.Add(e.Total)
		for _, share := range e.Shares {
			p := get(share.ParticipantID)
			p.TotalOwed = p.TotalOwed.Add(share.Amount)
		}
	}

	out := make([]ParticipantSummary, 0, len(byID))
	for _, s := range byID {
		s.NetBalance = s.TotalPaid.Sub(s.TotalOwed)
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b ParticipantSummary) int {
		return cmp.Compare(a.ParticipantID, b.ParticipantID)
	})
	return out
}
