package service

import (
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// names maps user IDs to display names for labelling responses.
type names map[string]string

func namesOf(users map[string]*models.User) names {
	n := make(names, len(users))
	for id, u := range users {
		n[id] = u.Name
	}
	return n
}

func userToAPI(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

func groupToAPI(g *models.Group) *api.Group {
	return &api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		MemberIDs:   g.MemberIDs,
		CreatedAt:   g.CreatedAt,
	}
}

func expenseToAPI(e *models.Expense, n names) *api.Expense {
	splits := make([]*api.Split, len(e.Splits))
	for i, s := range e.Splits {
		split := &api.Split{
			UserID:   s.UserID,
			UserName: n[s.UserID],
			Amount:   s.Amount.String(),
		}
		if s.Percentage.Valid {
			split.Percentage = s.Percentage.Decimal.String()
		}
		splits[i] = split
	}
	return &api.Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount.String(),
		PaidBy:      e.PaidBy,
		GroupID:     e.GroupID,
		SplitType:   e.SplitType,
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
	}
}

func settlementsToAPI(settlements []calculator.Settlement, n names) []*api.Settlement {
	out := make([]*api.Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = &api.Settlement{
			FromUserID:   s.From,
			FromUserName: n[s.From],
			ToUserID:     s.To,
			ToUserName:   n[s.To],
			Amount:       s.Amount.String(),
		}
	}
	return out
}

func summaryToAPI(s calculator.ParticipantSummary, n names) *api.Balance {
	return &api.Balance{
		UserID:     s.ParticipantID,
		UserName:   n[s.ParticipantID],
		TotalPaid:  s.TotalPaid.String(),
		TotalOwed:  s.TotalOwed.String(),
		NetBalance: s.NetBalance.String(),
	}
}

// ledgerEntries reduces stored expenses to the inputs of the balance reducer.
func ledgerEntries(expenses []*models.Expense) []calculator.LedgerEntry {
	entries := make([]calculator.LedgerEntry, len(expenses))
	for i, e := range expenses {
		shares := make([]calculator.Share, len(e.Splits))
		for j, s := range e.Splits {
			shares[j] = calculator.Share{ParticipantID: s.UserID, Amount: s.Amount, Percentage: s.Percentage}
		}
		entries[i] = calculator.LedgerEntry{PayerID: e.PaidBy, Total: e.Amount, Shares: shares}
	}
	return entries
}

// participantIDs lists every payer and split holder across expenses, once each.
func participantIDs(expenses []*models.Expense) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, e := range expenses {
		add(e.PaidBy)
		for _, s := range e.Splits {
			add(s.UserID)
		}
	}
	return ids
}

