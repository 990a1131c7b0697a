// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a unique field is already taken.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the interface for ledger storage operations.
// This abstraction keeps the service layer independent of the database.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore resolves and persists users.
type UserStore interface {
	// CreateUser persists a new user. The user.ID and CreatedAt fields are
	// populated by the store. Returns ErrAlreadyExists if the email or phone
	// is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID. Returns ErrNotFound if missing.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// GetUsersByIDs returns the users that exist among ids, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// ListUsers returns all users ordered by creation time.
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// GroupStore persists groups and their member lists.
type GroupStore interface {
	// CreateGroup persists a new group with its members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID. Returns ErrNotFound if missing.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns all groups ordered by creation time.
	ListGroups(ctx context.Context) ([]*models.Group, error)
}

// ExpenseStore persists expenses and supplies ledger snapshots.
// Every returned expense carries its splits in allocation order.
type ExpenseStore interface {
	// CreateExpense persists an expense and its splits atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID. Returns ErrNotFound if missing.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns every expense.
	ListExpenses(ctx context.Context) ([]*models.Expense, error)

	// ListExpensesByGroup returns the expenses recorded against a group.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListExpensesByUser returns the expenses a user paid for or holds a split in.
	ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error)
}
