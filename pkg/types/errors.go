package types

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can map it to behavior (and the
// server can map it to a status code) without parsing message text.
type Kind string

const (
	KindInvalid     Kind = "invalid"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindUnavailable Kind = "unavailable"
	KindPartial     Kind = "partial_failure"
	KindInternal    Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf walks the error chain for a *Error and returns its kind,
// defaulting to internal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrDonationNotFound = NewError(KindNotFound, "donation not found")
	ErrCampaignNotFound = NewError(KindNotFound, "campaign not found")
	ErrImpactNotFound   = NewError(KindNotFound, "impact not found")
	ErrMessageNotFound  = NewError(KindNotFound, "message not found")
	ErrResearchNotFound = NewError(KindNotFound, "research submission not found")
)
