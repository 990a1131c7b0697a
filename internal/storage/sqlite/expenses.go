package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

const expenseColumns = "e.id, e.description, e.amount_cents, e.paid_by, e.group_id, e.split_type, e.created_at"

// CreateExpense persists an expense and its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount_cents, paid_by, group_id, split_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount.Cents(), expense.PaidBy,
		nullString(expense.GroupID), expense.SplitType, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO expense_splits (expense_id, position, user_id, amount_cents, percentage)
			 VALUES (?, ?, ?, ?, ?)`,
			expense.ID, i, split.UserID, split.Amount.Cents(), split.Percentage,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expenses, err := s.queryExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses e WHERE e.id = ?", expenseID,
	)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return expenses[0], nil
}

// ListExpenses retrieves every expense, oldest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	return s.queryExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses e ORDER BY e.created_at, e.rowid",
	)
}

// ListExpensesByGroup retrieves the expenses of one group, oldest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.queryExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses e WHERE e.group_id = ? ORDER BY e.created_at, e.rowid",
		groupID,
	)
}

// ListExpensesByUser retrieves the expenses a user paid for or shares in.
func (s *SQLiteStore) ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses e
		 WHERE e.paid_by = ?
		    OR EXISTS (SELECT 1 FROM expense_splits s WHERE s.expense_id = e.id AND s.user_id = ?)
		 ORDER BY e.created_at, e.rowid`,
		userID, userID,
	)
}

// queryExpenses runs an expense query and attaches the splits of every row.
func (s *SQLiteStore) queryExpenses(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var amount int64
		var groupID sql.NullString
		if err := rows.Scan(&expense.ID, &expense.Description, &amount, &expense.PaidBy,
			&groupID, &expense.SplitType, &expense.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Amount = money.FromCents(amount)
		expense.GroupID = groupID.String
		expenses = append(expenses, expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := s.attachSplits(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// attachSplits loads the splits of all expenses, a batch of expenses per query.
func (s *SQLiteStore) attachSplits(ctx context.Context, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[string]*models.Expense, len(expenses))
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		ids[i] = e.ID
	}

	for _, batch := range chunked(ids, maxInParams) {
		if err := s.loadSplits(ctx, batch, byID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) loadSplits(ctx context.Context, ids []string, byID map[string]*models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT expense_id, user_id, amount_cents, percentage FROM expense_splits
		 WHERE expense_id IN (`+placeholders(len(ids))+`)
		 ORDER BY expense_id, position`,
		idArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		var amount int64
		var split models.Split
		if err := rows.Scan(&expenseID, &split.UserID, &amount, &split.Percentage); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		split.Amount = money.FromCents(amount)

		expense, ok := byID[expenseID]
		if !ok {
			return errors.New("split references an expense outside the result set")
		}
		expense.Splits = append(expense.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}
