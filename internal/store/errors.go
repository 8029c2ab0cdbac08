package store

import (
	"errors"
	"fmt"
	"strings"
)

// IntegrityError reports a foreign-key violation. It means a write referenced
// a parent row that does not exist, which indicates a bug in the caller (for
// example merging children before their parents), not a transient condition.
// The enclosing transaction has been rolled back wholesale.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation in %s: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// IsIntegrityError reports whether err (or any error in its chain) is an
// IntegrityError.
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// ConstraintError reports a uniqueness violation, in practice a duplicate
// image URL arriving under a different identity. It is a logic error in the
// incoming data and is surfaced for logging rather than retried.
type ConstraintError struct {
	Op  string
	Err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation in %s: %v", e.Op, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// IsConstraintError reports whether err (or any error in its chain) is a
// ConstraintError.
func IsConstraintError(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}

// classifyWriteError wraps SQLite constraint failures into the store's error
// taxonomy. Anything else passes through unchanged.
func classifyWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &IntegrityError{Op: op, Err: err}
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return &ConstraintError{Op: op, Err: err}
	}
	return err
}
