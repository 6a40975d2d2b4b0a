package models

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page selects a window of a listing. Number is zero-based.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page to sane bounds
func (p Page) Normalize() Page {
	if p.Number < 0 {
		p.Number = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows to skip. It saturates at math.MaxInt.
func (p Page) Offset() int {
	p = p.Normalize()
	if p.Number > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Number * p.Size
}

// Bounds returns the slice window [start, end) of this page over n items
func (p Page) Bounds(n int) (int, int) {
	p = p.Normalize()
	start := p.Offset()
	if start > n {
		start = n
	}
	end := start + p.Size
	if end > n || end < start {
		end = n
	}
	return start, end
}
