package domain

import (
	"fmt"
	"math"
	"strings"
)

// Direction is the order of a sort
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// ParseDirection returns Ascending for "asc" in any case and Descending for anything else
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, "asc") {
		return Ascending
	}
	return Descending
}

// Sortable product fields, keyed by the name callers use in sortBy
var ProductSortFields = map[string]struct{}{
	"id":          {},
	"name":        {},
	"description": {},
	"price":       {},
	"quantity":    {},
}

// Sort is a single field ordering
type Sort struct {
	Field     string
	Direction Direction
}

// PageRequest describes one slice of an ordered result set
type PageRequest struct {
	Page int
	Size int
	Sort Sort
}

// NewPageRequest builds a validated page request for products
func NewPageRequest(page, size int, sort Sort) (PageRequest, error) {
	if page < 0 {
		return PageRequest{}, fmt.Errorf("%w: page index must not be less than zero", ErrInvalidPageRequest)
	}
	if size < 1 {
		return PageRequest{}, fmt.Errorf("%w: page size must not be less than one", ErrInvalidPageRequest)
	}
	if page > math.MaxInt32 || size > math.MaxInt32 {
		return PageRequest{}, fmt.Errorf("%w: page index and size must not exceed %d", ErrInvalidPageRequest, math.MaxInt32)
	}
	if _, ok := ProductSortFields[sort.Field]; !ok {
		return PageRequest{}, fmt.Errorf("%w: %q", ErrInvalidSortField, sort.Field)
	}
	return PageRequest{Page: page, Size: size, Sort: sort}, nil
}

// Offset is the number of rows skipped before this page
func (r PageRequest) Offset() int64 {
	return int64(r.Page) * int64(r.Size)
}

// Page is one slice of products as returned by a repository
type Page struct {
	Content       []*Product
	Number        int
	Size          int
	TotalElements int64
}

// NewPage wraps content fetched for req
func NewPage(content []*Product, req PageRequest, total int64) *Page {
	return &Page{
		Content:       content,
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: total,
	}
}

// TotalPages is the number of pages needed to hold every element
func (p *Page) TotalPages() int {
	if p.Size <= 0 {
		return 1
	}
	size := int64(p.Size)
	pages := p.TotalElements / size
	if p.TotalElements%size != 0 {
		pages++
	}
	return int(pages)
}

// IsLast reports whether no page follows this one
func (p *Page) IsLast() bool {
	return int64(p.Number)+1 >= int64(p.TotalPages())
}

// PagedResponse is the paginated payload returned to callers
//
// swagger:model
type PagedResponse[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}
