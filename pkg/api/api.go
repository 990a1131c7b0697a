// Package api defines the request and response messages of the splitledger.v1
// services. Messages travel as JSON; amounts are decimal strings with two
// fractional digits (e.g. "33.34").
package api

// User is a person who can pay for or share expenses.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

type CreateUserResponse struct {
	User *User `json:"user"`
}

type GetUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type GetUserResponse struct {
	User *User `json:"user"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

// Group is a named set of users that share expenses.
type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"member_ids"`
	CreatedAt   int64    `json:"created_at"`
}

type CreateGroupRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description,omitempty" validate:"max=500"`
	MemberIDs   []string `json:"member_ids" validate:"required,min=1,unique,dive,required"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

// SplitEntry is one participant of a new expense. Value is an amount for
// EXACT splits, a percentage for PERCENTAGE splits and ignored for EQUAL.
// Entries are allocated in the order given; the last one absorbs rounding.
type SplitEntry struct {
	UserID string `json:"user_id" validate:"required"`
	Value  string `json:"value,omitempty" validate:"omitempty,nonnegative_amount"`
}

// Split is one participant's allocated share of an expense.
type Split struct {
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name,omitempty"`
	Amount     string `json:"amount"`
	Percentage string `json:"percentage,omitempty"`
}

// Expense is a recorded payment with its computed splits.
type Expense struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	PaidBy      string   `json:"paid_by"`
	GroupID     string   `json:"group_id,omitempty"`
	SplitType   string   `json:"split_type"`
	Splits      []*Split `json:"splits"`
	CreatedAt   int64    `json:"created_at"`
}

type CreateExpenseRequest struct {
	Description string        `json:"description" validate:"required,max=200"`
	Amount      string        `json:"amount" validate:"required,positive_amount"`
	PaidBy      string        `json:"paid_by" validate:"required"`
	GroupID     string        `json:"group_id,omitempty"`
	SplitType   string        `json:"split_type" validate:"required"`
	Splits      []*SplitEntry `json:"splits" validate:"required,min=1,dive,required"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// ListExpensesRequest filters by group or by user; with neither set every
// expense is returned.
type ListExpensesRequest struct {
	GroupID string `json:"group_id,omitempty" validate:"excluded_with=UserID"`
	UserID  string `json:"user_id,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// Settlement is a suggested payment from a debtor to a creditor.
type Settlement struct {
	FromUserID   string `json:"from_user_id"`
	FromUserName string `json:"from_user_name,omitempty"`
	ToUserID     string `json:"to_user_id"`
	ToUserName   string `json:"to_user_name,omitempty"`
	Amount       string `json:"amount"`
}

// Balance is one user's net position. Positive means the user is owed money.
type Balance struct {
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name,omitempty"`
	TotalPaid  string `json:"total_paid,omitempty"`
	TotalOwed  string `json:"total_owed,omitempty"`
	NetBalance string `json:"net_balance"`
}

type GetUserBalanceRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type GetUserBalanceResponse struct {
	Balance     *Balance      `json:"balance"`
	Settlements []*Settlement `json:"settlements"`
}

type GetAllBalancesRequest struct{}

type GetAllBalancesResponse struct {
	Balances    []*Balance    `json:"balances"`
	Settlements []*Settlement `json:"settlements"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type GetGroupBalancesResponse struct {
	GroupID     string        `json:"group_id"`
	Balances    []*Balance    `json:"balances"`
	Settlements []*Settlement `json:"settlements"`
}
