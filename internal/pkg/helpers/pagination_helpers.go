package helpers

import (
	"strconv"
	"strings"
)

const (
	// StudentPageSize is the fixed page size of the student listing.
	StudentPageSize = 10
	DefaultPage     = 1
)

// Page describes one clamped page of a listing.
type Page struct {
	Number     int
	Size       int
	TotalItems int64
	TotalPages int
}

// Offset is the number of rows to skip for this page.
func (p Page) Offset() uint64 {
	return uint64((p.Number - 1) * p.Size)
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrevious reports whether an earlier page exists.
func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// ParsePageNumber parses a raw page query value. Anything that is not an integer means the first page.
func ParsePageNumber(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultPage
	}
	return page
}

// ClampPage resolves a requested page number against totalItems. Out-of-range numbers snap to
// the first or last page; an empty result set still has one (empty) page.
func ClampPage(requested int, size int, totalItems int64) Page {
	if size <= 0 {
		size = StudentPageSize
	}

	totalPages := int((totalItems + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}
