package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrAlreadyJournaledToday = errors.New("already journaled today")
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInsufficientCoins     = errors.New("insufficient coins")
	ErrItemOwned             = errors.New("item already owned")
	ErrUnknownItem           = errors.New("unknown item")
	ErrPremiumRequired       = errors.New("premium required")
	ErrTopicNotFound         = errors.New("topic not found")
	ErrEntryNotFound         = errors.New("journal entry not found")
	ErrQuestNotFound         = errors.New("quest not found")
	ErrQuestNotClaimable     = errors.New("quest reward cannot be claimed")
)

// ValidationError describes a rejected input field. It unwraps to ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
