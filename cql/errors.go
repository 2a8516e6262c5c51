package cql

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the root of every error this package returns.
// Use errors.Is to test for it.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	// ErrEmptyValue is returned when a required value is empty or zero.
	ErrEmptyValue = fmt.Errorf("%w: value must not be empty", ErrInvalidArgument)

	// ErrEmptyList is returned when an "in" comparison receives no values.
	ErrEmptyList = fmt.Errorf("%w: value list must not be empty", ErrInvalidArgument)

	// ErrTooFewOperands is returned when And or Or receive fewer than two clauses.
	ErrTooFewOperands = fmt.Errorf("%w: at least two clauses are required", ErrInvalidArgument)

	// ErrClauseFinished is returned when a terminal operation is invoked on a
	// builder that already produced a clause.
	ErrClauseFinished = fmt.Errorf("%w: clause already finished", ErrInvalidArgument)

	// ErrOrderedClause is returned when a query carrying an order by suffix is
	// used as an operand.
	ErrOrderedClause = fmt.Errorf("%w: ordered query cannot be combined", ErrInvalidArgument)

	// ErrUnknownField is returned by ParseField for tokens outside the registry.
	ErrUnknownField = fmt.Errorf("%w: unknown field", ErrInvalidArgument)

	// ErrInvalidOffset is returned for malformed relative date offsets.
	ErrInvalidOffset = fmt.Errorf("%w: invalid relative offset", ErrInvalidArgument)

	// ErrControlCharacter is returned by Quote for values containing control
	// characters such as newlines.
	ErrControlCharacter = fmt.Errorf("%w: control character in value", ErrInvalidArgument)

	// ErrUnknownFunction is returned for a DateFunc outside the declared set.
	ErrUnknownFunction = fmt.Errorf("%w: unknown date function", ErrInvalidArgument)

	// ErrUnknownType is returned for a ContentType outside the declared set.
	ErrUnknownType = fmt.Errorf("%w: unknown content type", ErrInvalidArgument)

	// ErrMalformedLiteral is returned by Unquote for text that is not a
	// quoted CQL string.
	ErrMalformedLiteral = fmt.Errorf("%w: malformed string literal", ErrInvalidArgument)
)

// FieldError reports a rejected terminal operation on a field.
//
// Example:
//
//	var fieldErr *cql.FieldError
//	if errors.As(err, &fieldErr) {
//	    log.Printf("%s %s rejected: %v", fieldErr.Field, fieldErr.Op, fieldErr.Err)
//	}
type FieldError struct {
	// Field is the field the builder was created for
	Field Field
	// Op is the operator that was requested
	Op string
	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return fmt.Sprintf("cql: %s %s: %v", e.Field, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *FieldError) Unwrap() error {
	return e.Err
}
