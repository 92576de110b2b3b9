package domain

import (
	"errors"
	"fmt"
)

// Domain-level errors
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidPageRequest = errors.New("invalid page request")
	ErrInvalidSortField   = errors.New("invalid sort field")
)

// NotFoundError reports a product id that does not exist.
// It matches ErrProductNotFound with errors.Is.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Product not found with id: %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}
