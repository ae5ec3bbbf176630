package pagination

import (
	"strconv"
	"strings"
)

const (
	// DefaultPerPage is the catalogue page size when none is configured.
	DefaultPerPage = 5
	// rangeBefore and rangeAfter bound the page links around the current page.
	rangeBefore = 4
	rangeAfter  = 5
)

// Page describes one slice of a numbered listing.
type Page struct {
	Number     int   `json:"number"`
	PerPage    int   `json:"per_page"`
	NumPages   int   `json:"num_pages"`
	TotalCount int64 `json:"total_count"`
}

// Paginate resolves the raw page query value against total rows. A value that
// is not an integer selects the first page. A value outside the valid range
// selects the last page.
func Paginate(raw string, perPage int, total int64) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}

	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}

	number, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil:
		number = 1
	case number < 1 || number > numPages:
		number = numPages
	}

	return Page{Number: number, PerPage: perPage, NumPages: numPages, TotalCount: total}
}

// Offset is the row offset of the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p Page) HasPrevious() bool { return p.Number > 1 }

func (p Page) HasNext() bool { return p.Number < p.NumPages }

func (p Page) PreviousNumber() int { return p.Number - 1 }

func (p Page) NextNumber() int { return p.Number + 1 }

// CustomRange lists the page links shown around the current page.
func (p Page) CustomRange() []int {
	start := p.Number - rangeBefore
	if start < 1 {
		start = 1
	}
	end := p.Number + rangeAfter
	if end > p.NumPages+1 {
		end = p.NumPages + 1
	}
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}
