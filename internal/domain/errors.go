package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidData marks rows or requests rejected by validation.
	ErrInvalidData = errors.New("invalid data")

	// ErrInvalidOperation marks operations rejected by business rules
	// (for example rolling over a cancelled subscription).
	ErrInvalidOperation = errors.New("invalid operation")
)

var validate = validator.New()

// invalidData wraps a validator error so callers can test for ErrInvalidData
// while still seeing which field failed.
func invalidData(err error) error {
	return fmt.Errorf("%w: %s", ErrInvalidData, err)
}
