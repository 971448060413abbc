package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors, all detected before any simulation work begins
	ErrInvalidMethod        = errors.New("unrecognized pooling method")
	ErrInvalidPoolSize      = errors.New("pool size must be positive")
	ErrDimensionMismatch    = errors.New("values and scores differ in length")
	ErrInvalidConfiguration = errors.New("invalid simulation configuration")

	// Invariant violations - these indicate a coordination bug, not bad input
	ErrEmptyPool = errors.New("empty pool passed to resolver")

	// Determinism errors
	ErrNonDeterministic = errors.New("non-deterministic result")
	ErrSeedMismatch     = errors.New("seed mismatch")

	// Ingestion errors
	ErrCohortUnreadable = errors.New("cohort file unreadable")
	ErrColumnMissing    = errors.New("required column missing")
)

// Error constructors with context
func NewConfigurationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, reason)
}

func NewMethodError(tag string) error {
	return fmt.Errorf("%w: %q", ErrInvalidMethod, tag)
}

func NewColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnMissing, column)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidMethod) ||
		errors.Is(err, ErrInvalidPoolSize) ||
		errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrInvalidConfiguration)
}

func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrEmptyPool)
}

func IsIngestionError(err error) bool {
	return errors.Is(err, ErrCohortUnreadable) ||
		errors.Is(err, ErrColumnMissing)
}
