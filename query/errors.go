package query

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedQuery is wrapped by every MalformedQueryError.
	ErrMalformedQuery = errors.New("malformed query")

	// ErrInvalidQuery is wrapped by every ValidationError.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUnknownDataset is wrapped by every UnknownDatasetError.
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrResultTooLarge is wrapped by every ResultTooLargeError.
	ErrResultTooLarge = errors.New("result too large")

	// ErrInternal is wrapped by every InternalError.
	ErrInternal = errors.New("internal error")
)

// MalformedQueryError reports a query whose shape cannot be parsed.
type MalformedQueryError struct {
	Path string // Location in the query, e.g. WHERE.AND[1]
	Msg  string
}

func (e *MalformedQueryError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrMalformedQuery, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMalformedQuery, e.Path, e.Msg)
}

func (e *MalformedQueryError) Unwrap() error { return ErrMalformedQuery }

func malformed(path, format string, args ...interface{}) error {
	return &MalformedQueryError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// Reason classifies a ValidationError.
type Reason string

const (
	ReasonInvalidKey          Reason = "invalid-key"
	ReasonFieldNotFound       Reason = "field-not-found"
	ReasonTypeMismatch        Reason = "type-mismatch"
	ReasonEmptyFilterBranch   Reason = "empty-filter-branch"
	ReasonNotArity            Reason = "not-arity"
	ReasonWildcard            Reason = "wildcard-violation"
	ReasonCrossDataset        Reason = "cross-dataset-reference"
	ReasonEmptyColumns        Reason = "empty-columns"
	ReasonDuplicateColumn     Reason = "duplicate-column"
	ReasonColumnsNotGrouped   Reason = "columns-not-in-group-or-apply"
	ReasonOrderNotInColumns   Reason = "order-not-in-columns"
	ReasonEmptyOrder          Reason = "empty-order"
	ReasonInvalidDirection    Reason = "invalid-direction"
	ReasonEmptyGroup          Reason = "empty-group"
	ReasonInvalidApplyKey     Reason = "invalid-apply-key"
	ReasonDuplicateApplyKey   Reason = "duplicate-apply-key"
	ReasonInvalidApplyToken   Reason = "invalid-apply-token"
	ReasonNoDatasetReferenced Reason = "no-dataset"
)

// ValidationError reports a query that parses but cannot be evaluated.
type ValidationError struct {
	Reason Reason
	Msg    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%s): %s", ErrInvalidQuery, e.Reason, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidQuery }

func invalid(reason Reason, format string, args ...interface{}) error {
	return &ValidationError{Reason: reason, Msg: fmt.Sprintf(format, args...)}
}

// UnknownDatasetError reports a query on a dataset that is not loaded.
type UnknownDatasetError struct {
	ID string
}

func (e *UnknownDatasetError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownDataset, e.ID)
}

func (e *UnknownDatasetError) Unwrap() error { return ErrUnknownDataset }

// ResultTooLargeError reports a result with more rows than the limit.
type ResultTooLargeError struct {
	Rows  int
	Limit int
}

func (e *ResultTooLargeError) Error() string {
	return fmt.Sprintf("%s: %d rows, limit is %d", ErrResultTooLarge, e.Rows, e.Limit)
}

func (e *ResultTooLargeError) Unwrap() error { return ErrResultTooLarge }

// InternalError reports a state validation should have ruled out. It is
// always a bug, never caused by the query.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInternal, e.Msg)
}

func (e *InternalError) Unwrap() error { return ErrInternal }
