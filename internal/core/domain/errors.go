package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBatch        = errors.New("empty batch")
	ErrInvalidDepartment = errors.New("invalid department")
	ErrEmbeddingProvider = errors.New("embedding provider failure")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimited       = errors.New("rate limited")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
