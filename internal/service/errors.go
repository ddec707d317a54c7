package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation            = errors.New("validation error")
	ErrNotFound              = errors.New("not found")
	ErrPersistence           = errors.New("persistence failure")
	ErrCapabilityUnavailable = errors.New("capability unavailable")
)

var (
	ErrMissingCustomer     = fmt.Errorf("%w: customerId is required", ErrValidation)
	ErrEmptyOrder          = fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	ErrMalformedItem       = fmt.Errorf("%w: every item needs productId, quantity and price", ErrValidation)
	ErrInvalidQuantity     = fmt.Errorf("%w: item quantity must be greater than zero", ErrValidation)
	ErrInvalidPrice        = fmt.Errorf("%w: item price must not be negative", ErrValidation)
	ErrInvalidDeliveryType = fmt.Errorf("%w: deliveryType must be delivery or pickup", ErrValidation)
	ErrInvalidDeliveryArea = fmt.Errorf("%w: unknown deliveryArea", ErrValidation)
	ErrInvalidTotal        = fmt.Errorf("%w: total must not be negative", ErrValidation)
)

// PersistenceError reports a backing store fault. It matches ErrPersistence
// and unwraps to the store's error.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// storeErr maps a repository error: record-not-found becomes ErrNotFound,
// anything else a PersistenceError.
func storeErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return persistence(op, err)
}

func validation(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
