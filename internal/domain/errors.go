package domain

import "errors"

var (
	ErrAuthorNotFound            = errors.New("author not found")
	ErrContainerNotFound         = errors.New("container not found")
	ErrRatingNotFound            = errors.New("rating not found")
	ErrClassificationUnavailable = errors.New("classification unavailable")
	ErrInvalidSubmission         = errors.New("invalid submission")
)

// RejectionError is returned by Submit when the abuse guard rejects a
// submission. It carries enough information for the route layer to render
// a human-readable wait time.
type RejectionError struct {
	Decision Decision
}

func (e *RejectionError) Error() string {
	if e.Decision.Kind == CooldownAndReject {
		return "submission rejected: cooldown active"
	}
	return "submission rejected: posting too quickly"
}
