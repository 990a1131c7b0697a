package models

// User represents a participant in shared expenses.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name shown next to balances and settlements.
	Name string

	// Email is the user's email address (unique).
	Email string

	// Phone is the user's phone number (unique).
	Phone string

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}
