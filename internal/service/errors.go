package service

import (
	"errors"
	"fmt"

	"go-inventory-ledger/pkg/validator"

	"gorm.io/gorm"
)

// Error definitions
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")

	ErrLocationNotFound      = fmt.Errorf("location %w", ErrNotFound)
	ErrItemNotFound          = fmt.Errorf("item %w", ErrNotFound)
	ErrTransferNotFound      = fmt.Errorf("transfer order %w", ErrNotFound)
	ErrPurchaseOrderNotFound = fmt.Errorf("purchase order %w", ErrNotFound)
	ErrOrderLineNotFound     = fmt.Errorf("purchase order line %w", ErrNotFound)

	ErrSKUExists            = errors.New("SKU already exists")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrTransferNotEditable  = errors.New("items can only be added while the transfer is Created")
)

// Actor is whoever asked for the mutation; it lands in the audit columns.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// SystemActor is used by operator tools that run without a token.
var SystemActor = Actor{ID: "system", Name: "System"}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// validateRequest runs struct tag validation and reports the first failure.
func validateRequest(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, errs[0].String())
	}
	return nil
}

// notFound maps gorm's missing-row error onto the given sentinel.
func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
