package matching

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidWeights   = errors.New("invalid weights")
	ErrGraphUnavailable = errors.New("skill graph unavailable")
)

// NotFoundError names the entity or skill that could not be resolved.
type NotFoundError struct {
	Kind string
	ID   string
}

func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	if e.Kind == "" {
		return fmt.Sprintf("%q not found", e.ID)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type InvalidWeightsError struct {
	Reason string
}

func (e *InvalidWeightsError) Error() string {
	if e == nil {
		return ""
	}
	return "invalid weights: " + e.Reason
}

func (e *InvalidWeightsError) Is(target error) bool {
	return target == ErrInvalidWeights
}

// Unavailable wraps a store-level failure so callers can match ErrGraphUnavailable
// while keeping the driver error in the chain.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrGraphUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrGraphUnavailable, op, err)
}
