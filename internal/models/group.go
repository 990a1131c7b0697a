package models

import "slices"

// Group is a set of users who share expenses.
// Group expenses may only involve members of the group.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Trip to Rome").
	Name string

	// Description is optional free text.
	Description string

	// MemberIDs are the user IDs of the group's members.
	MemberIDs []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	return slices.Contains(g.MemberIDs, userID)
}
