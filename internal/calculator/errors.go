package calculator

import "errors"

var (
	// ErrInvalidSplit means the split amounts or percentages do not reconcile
	// with the expense total, or the split input itself is malformed.
	ErrInvalidSplit = errors.New("invalid split")

	// ErrInvalidParticipant means a referenced participant does not exist or is
	// not a member of the expense's group. Raised by callers that can resolve
	// identities; the calculator itself never returns it.
	ErrInvalidParticipant = errors.New("invalid participant")

	// ErrMalformedBalance means a balance vector does not sum to zero. It points
	// at an upstream data-integrity defect.
	ErrMalformedBalance = errors.New("malformed balance")
)
