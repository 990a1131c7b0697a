package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.BalanceServiceHandler = (*BalanceService)(nil)

// BalanceService implements the Connect BalanceService. Balances are
// recomputed from the stored expenses on every call.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a new BalanceService with the given storage backend.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// ledgerView is the reduced form of one ledger snapshot.
type ledgerView struct {
	entries     []calculator.LedgerEntry
	settlements []calculator.Settlement
	names       names
}

// settle reduces expenses to balances and settlements and resolves the
// names of everyone involved. A snapshot whose balances do not sum to zero
// is reported as an internal error rather than settled.
func (s *BalanceService) settle(ctx context.Context, view string, expenses []*models.Expense) (*ledgerView, error) {
	entries := ledgerEntries(expenses)
	_, settlements, err := calculator.Settle(entries)
	if err != nil {
		if errors.Is(err, calculator.ErrMalformedBalance) {
			metrics.MalformedBalances.WithLabelValues(view).Inc()
		}
		slog.Error("Balance computation failed", "view", view, "expenses", len(expenses), "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	metrics.SettlementsPerView.WithLabelValues(view).Observe(float64(len(settlements)))

	users, err := s.store.GetUsersByIDs(ctx, participantIDs(expenses))
	if err != nil {
		slog.Error("Balance name lookup failed", "view", view, "error", err)
		return nil, toConnectError(err)
	}

	return &ledgerView{
		entries:     entries,
		settlements: settlements,
		names:       namesOf(users),
	}, nil
}

// GetUserBalance returns a user's net balance over the expenses they paid for
// or share in, with the settlements that involve them.
func (s *BalanceService) GetUserBalance(ctx context.Context, req *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error) {
	slog.Info("GetUserBalance request received", "user_id", req.Msg.UserID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	user, err := s.store.GetUser(ctx, req.Msg.UserID)
	if err != nil {
		slog.Warn("GetUserBalance failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpensesByUser(ctx, user.ID)
	if err != nil {
		slog.Error("GetUserBalance failed to list expenses", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	v, err := s.settle(ctx, metrics.ViewUser, expenses)
	if err != nil {
		return nil, err
	}

	summary := calculator.ParticipantSummary{ParticipantID: user.ID}
	for _, sum := range calculator.Summarize(v.entries) {
		if sum.ParticipantID == user.ID {
			summary = sum
			break
		}
	}
	v.names[user.ID] = user.Name
	balance := summaryToAPI(summary, v.names)

	involved := calculator.Involving(v.settlements, user.ID)
	slog.Info("GetUserBalance successful",
		"user_id", user.ID,
		"net_balance", balance.NetBalance,
		"settlements", len(involved),
	)
	return connect.NewResponse(&api.GetUserBalanceResponse{
		Balance:     balance,
		Settlements: settlementsToAPI(involved, v.names),
	}), nil
}

// GetAllBalances returns every participant's balance and the settlements
// that clear the whole ledger.
func (s *BalanceService) GetAllBalances(ctx context.Context, req *connect.Request[api.GetAllBalancesRequest]) (*connect.Response[api.GetAllBalancesResponse], error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		slog.Error("GetAllBalances failed to list expenses", "error", err)
		return nil, toConnectError(err)
	}

	v, err := s.settle(ctx, metrics.ViewAll, expenses)
	if err != nil {
		return nil, err
	}

	summaries := calculator.Summarize(v.entries)
	balances := make([]*api.Balance, len(summaries))
	for i, summary := range summaries {
		balances[i] = summaryToAPI(summary, v.names)
	}

	slog.Info("GetAllBalances successful", "participants", len(balances), "settlements", len(v.settlements))
	return connect.NewResponse(&api.GetAllBalancesResponse{
		Balances:    balances,
		Settlements: settlementsToAPI(v.settlements, v.names),
	}), nil
}

// GetGroupBalances returns the balances of a group's members over the
// group's expenses and the settlements that clear them.
func (s *BalanceService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	slog.Info("GetGroupBalances request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Warn("GetGroupBalances failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("GetGroupBalances failed to list expenses", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	v, err := s.settle(ctx, metrics.ViewGroup, expenses)
	if err != nil {
		return nil, err
	}

	// Members without any expense yet are listed with zero balances.
	summaries := calculator.Summarize(v.entries)
	byID := make(map[string]calculator.ParticipantSummary, len(summaries))
	for _, summary := range summaries {
		byID[summary.ParticipantID] = summary
	}
	members, err := s.store.GetUsersByIDs(ctx, group.MemberIDs)
	if err != nil {
		return nil, toConnectError(err)
	}
	for id, u := range members {
		v.names[id] = u.Name
	}

	balances := make([]*api.Balance, 0, len(group.MemberIDs))
	for _, id := range group.MemberIDs {
		summary, ok := byID[id]
		if !ok {
			summary = calculator.ParticipantSummary{ParticipantID: id}
		}
		balances = append(balances, summaryToAPI(summary, v.names))
	}

	slog.Info("GetGroupBalances successful",
		"group_id", group.ID,
		"expenses", len(expenses),
		"settlements", len(v.settlements),
	)
	return connect.NewResponse(&api.GetGroupBalancesResponse{
		GroupID:     group.ID,
		Balances:    balances,
		Settlements: settlementsToAPI(v.settlements, v.names),
	}), nil
}
