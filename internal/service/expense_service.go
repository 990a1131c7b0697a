package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store     storage.Store
	publisher events.Publisher
}

// NewExpenseService creates a new ExpenseService. Committed expenses are
// announced on publisher; a nil publisher only logs them.
func NewExpenseService(store storage.Store, publisher events.Publisher) *ExpenseService {
	if publisher == nil {
		publisher = events.LogPublisher{}
	}
	return &ExpenseService{store: store, publisher: publisher}
}

// CreateExpense allocates the expense amount among the listed participants
// and commits the expense with its splits.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	msg := req.Msg
	slog.Info("CreateExpense request received",
		"amount", msg.Amount,
		"paid_by", msg.PaidBy,
		"group_id", msg.GroupID,
		"split_type", msg.SplitType,
		"participants", len(msg.Splits),
	)

	if err := validateRequest(msg); err != nil {
		return nil, s.reject(metrics.ReasonValidation, err)
	}

	policy, err := calculator.ParseSplitPolicy(msg.SplitType)
	if err != nil {
		return nil, s.reject(metrics.ReasonInvalidSplit, err)
	}
	total, err := money.Parse(msg.Amount)
	if err != nil {
		return nil, s.reject(metrics.ReasonInvalidSplit, fmt.Errorf("%w: amount: %w", calculator.ErrInvalidSplit, err))
	}
	input, err := splitInput(policy, msg.Splits)
	if err != nil {
		return nil, s.reject(metrics.ReasonInvalidSplit, err)
	}

	users, err := s.checkParticipants(ctx, msg.PaidBy, msg.GroupID, input)
	if err != nil {
		if errors.Is(err, calculator.ErrInvalidParticipant) {
			return nil, s.reject(metrics.ReasonInvalidParticipant, err)
		}
		slog.Error("CreateExpense participant lookup failed", "error", err)
		return nil, toConnectError(err)
	}

	result, err := calculator.Allocate(total, policy, input)
	if err != nil {
		return nil, s.reject(metrics.ReasonInvalidSplit, err)
	}
	if err := calculator.ValidateSplit(total, policy, result); err != nil {
		return nil, s.reject(metrics.ReasonInvalidSplit, err)
	}
	result, err = calculator.AbsorbResidual(total, result)
	if err != nil {
		return nil, s.reject(metrics.ReasonInvalidSplit, err)
	}

	expense := &models.Expense{
		Description: strings.TrimSpace(msg.Description),
		Amount:      total,
		PaidBy:      msg.PaidBy,
		GroupID:     msg.GroupID,
		SplitType:   policy.String(),
		Splits:      make([]models.Split, len(result)),
	}
	for i, share := range result {
		expense.Splits[i] = models.Split{
			UserID:     share.ParticipantID,
			Amount:     share.Amount,
			Percentage: share.Percentage,
		}
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, toConnectError(err)
	}
	metrics.ExpensesCreated.WithLabelValues(expense.SplitType).Inc()
	slog.Info("Expense created",
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"split_type", expense.SplitType,
	)

	s.publish(ctx, expense)

	return connect.NewResponse(&api.CreateExpenseResponse{
		Expense: expenseToAPI(expense, namesOf(users)),
	}), nil
}

// ListExpenses returns the expenses of a group, of a user, or all of them.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	var (
		expenses []*models.Expense
		err      error
	)
	switch {
	case req.Msg.GroupID != "":
		if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
			return nil, toConnectError(err)
		}
		expenses, err = s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	case req.Msg.UserID != "":
		if _, err := s.store.GetUser(ctx, req.Msg.UserID); err != nil {
			return nil, toConnectError(err)
		}
		expenses, err = s.store.ListExpensesByUser(ctx, req.Msg.UserID)
	default:
		expenses, err = s.store.ListExpenses(ctx)
	}
	if err != nil {
		slog.Error("ListExpenses failed", "error", err)
		return nil, toConnectError(err)
	}

	users, err := s.store.GetUsersByIDs(ctx, participantIDs(expenses))
	if err != nil {
		slog.Error("ListExpenses name lookup failed", "error", err)
		return nil, toConnectError(err)
	}
	n := namesOf(users)

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e, n)
	}

	slog.Info("ListExpenses successful", "count", len(expenses))
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// splitInput converts request entries into allocator input, keeping their
// order. Values are ignored for Equal splits.
func splitInput(policy calculator.SplitPolicy, entries []*api.SplitEntry) (calculator.SplitInput, error) {
	input := make(calculator.SplitInput, len(entries))
	for i, e := range entries {
		if policy == calculator.Equal || e.Value == "" {
			input[i] = calculator.Member(e.UserID)
			continue
		}
		v, err := decimal.NewFromString(e.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid value %q for user %s", calculator.ErrInvalidSplit, e.Value, e.UserID)
		}
		input[i] = calculator.WithValue(e.UserID, v)
	}
	return input, nil
}

// checkParticipants resolves the payer and every split participant to
// registered users. For group expenses each of them must also be a member.
func (s *ExpenseService) checkParticipants(ctx context.Context, payerID, groupID string, input calculator.SplitInput) (map[string]*models.User, error) {
	ids := make([]string, 0, len(input)+1)
	ids = append(ids, payerID)
	for _, in := range input {
		ids = append(ids, in.ParticipantID)
	}

	users, err := resolveUsers(ctx, s.store, ids)
	if err != nil {
		return nil, err
	}
	if groupID == "" {
		return users, nil
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: group %s does not exist", calculator.ErrInvalidParticipant, groupID)
	}
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if !group.HasMember(id) {
			return nil, fmt.Errorf("%w: user %s is not a member of group %s", calculator.ErrInvalidParticipant, id, groupID)
		}
	}
	return users, nil
}

// reject counts a refused CreateExpense and maps err to its Connect code.
func (s *ExpenseService) reject(reason string, err error) error {
	metrics.SplitRejections.WithLabelValues(reason).Inc()
	slog.Warn("CreateExpense rejected", "reason", reason, "error", err)
	return toConnectError(err)
}

// publish announces a committed expense. Delivery is best effort: the
// expense is already stored, so failures are only logged.
func (s *ExpenseService) publish(ctx context.Context, expense *models.Expense) {
	event := &events.ExpenseCreated{
		ExpenseID:      expense.ID,
		GroupID:        expense.GroupID,
		PaidBy:         expense.PaidBy,
		Amount:         expense.Amount.String(),
		SplitType:      expense.SplitType,
		ParticipantIDs: expense.ParticipantIDs(),
		Timestamp:      time.Unix(expense.CreatedAt, 0).UTC(),
	}
	if err := s.publisher.PublishExpenseCreated(ctx, event); err != nil {
		slog.Error("Failed to publish expense created event", "expense_id", expense.ID, "error", err)
	}
}
