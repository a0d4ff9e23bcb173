// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
//
// Services depend on small interfaces declared next to their consumers; the
// repository types satisfy them and tests substitute in-memory fakes.
package service

import (
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/Shivanand-hulikatti/eventflow/internal/repository"
)

var (
	// ErrNotFound is returned for missing events and for drafts requested
	// through attendee operations.
	ErrNotFound = repository.ErrNotFound
	// ErrInvalidInput matches every *InputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficient matches every *InsufficientError.
	ErrInsufficient = errors.New("insufficient tickets")
)

// Rejection reasons carried by InputError.
const (
	ReasonNameRequired        = "name required"
	ReasonNoTickets           = "no tickets selected"
	ReasonNegativeQuantity    = "negative quantity"
	ReasonTitleRequired       = "title required"
	ReasonDescriptionRequired = "description required"
	ReasonCategoryRequired    = "at least one category in addition to General required"
	ReasonInvalidDate         = "invalid event date"
)

// InputError rejects a request whose fields fail validation.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return e.Reason }

// Is reports a match against ErrInvalidInput.
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// InsufficientError rejects a booking that exceeds the remaining tickets of
// one tier.
type InsufficientError struct {
	Tier      model.TicketTier
	Requested int
	Remaining int
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("only %d %s tickets available", e.Remaining, e.Tier)
}

// Is reports a match against ErrInsufficient.
func (e *InsufficientError) Is(target error) bool { return target == ErrInsufficient }

func invalid(reason string) error { return &InputError{Reason: reason} }

// passthrough reports whether err is a domain error that callers map to a
// response status and so must not be wrapped.
func passthrough(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInsufficient)
}
