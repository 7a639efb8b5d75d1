// Package form implements the schema and response consistency rules of
// a published form: submission validation, edit reconciliation and
// per-field aggregation. Everything here is pure computation over
// model.Form; persistence and transport live elsewhere.
package form

import (
	"fmt"
	"strings"
)

// NotFoundError reports an unresolvable form id.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("form %s not found", e.ID)
}

// UnauthorizedError reports an edit or delete attempted by someone who
// is not the form's creator.
type UnauthorizedError struct {
	FormID string
	User   string
}

func (e UnauthorizedError) Error() string {
	return fmt.Sprintf("user %s is not the creator of form %s", e.User, e.FormID)
}

// ValidationError collects every reason a payload was rejected.
// Submissions and edits are applied all-or-nothing: one reason is
// enough to discard the whole payload.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Reasons, "; ")
}

func (e *ValidationError) reject(format string, args ...any) {
	e.Reasons = append(e.Reasons, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Reasons) == 0 {
		return nil
	}
	return e
}

// ConflictError reports an update that lost a concurrent-edit race:
// the form changed between the editor's read and write.
type ConflictError struct {
	FormID string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("form %s was modified concurrently", e.FormID)
}

// StoreError wraps a persistence failure without interpreting it.
type StoreError struct {
	Op  string
	Err error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e StoreError) Unwrap() error {
	return e.Err
}
