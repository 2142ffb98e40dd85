// Package storeerror defines the typed errors shared by the stores and the
// transaction manager. Callers classify failures with the Is* helpers instead
// of matching on error strings.
package storeerror

import (
	"errors"
	"fmt"
)

// InvalidInputError reports a numeric input a calculation cannot accept,
// such as a non-positive dealer price.
type InvalidInputError struct {
	Field string
	Value string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s='%s'", e.Field, e.Value)
}

// DuplicateKeyError reports a write that collides with an existing record.
type DuplicateKeyError struct {
	Kind string
	Key  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s '%s' already exists", e.Kind, e.Key)
}

// NotFoundError reports a lookup, update or delete against a missing record.
// Kind is "customer" or "part".
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.Key)
}

// InvalidAmountError reports a transaction amount that is missing or not
// positive where one is required.
type InvalidAmountError struct {
	Reason string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount: %s", e.Reason)
}

// IOError wraps a persistence failure. The operation aborts and the
// previously persisted state is left untouched.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewNotFound builds a NotFoundError for the given record kind and key.
func NewNotFound(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

// NewDuplicateKey builds a DuplicateKeyError for the given record kind and key.
func NewDuplicateKey(kind, key string) error {
	return &DuplicateKeyError{Kind: kind, Key: key}
}

// NewIO wraps err as an IOError for the given operation and file path.
func NewIO(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsNotFoundKind reports whether err is a NotFoundError for the given kind.
func IsNotFoundKind(err error, kind string) bool {
	var target *NotFoundError
	return errors.As(err, &target) && target.Kind == kind
}

// IsDuplicateKey reports whether err is a DuplicateKeyError.
func IsDuplicateKey(err error) bool {
	var target *DuplicateKeyError
	return errors.As(err, &target)
}

// IsInvalidInput reports whether err is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsInvalidAmount reports whether err is an InvalidAmountError.
func IsInvalidAmount(err error) bool {
	var target *InvalidAmountError
	return errors.As(err, &target)
}

// IsIO reports whether err is an IOError.
func IsIO(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}
