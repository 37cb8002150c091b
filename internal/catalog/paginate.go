package catalog

import "github.com/selim/opphub/internal/models"

// DefaultPageSize matches the six-card grid every catalog page renders.
const DefaultPageSize = 6

// Page is one visible slice of a refined result set.
type Page struct {
	Items      []models.Opportunity `json:"items"`
	Number     int                  `json:"page"`
	Size       int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
	TotalItems int                  `json:"total_items"`
}

// Paginate slices items into fixed-size pages and returns the requested one.
// It is a pure function: totalPages = ceil(n/size), and a requested page
// outside [1, totalPages] clamps to 1 (an empty set is a single empty page).
func Paginate(items []models.Opportunity, size, page int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	totalPages := (len(items) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 || page > totalPages {
		page = 1
	}

	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page{
		Items:      items[start:end],
		Number:     page,
		Size:       size,
		TotalPages: totalPages,
		TotalItems: len(items),
	}
}

// Paginator keeps current-page state consistent while the underlying
// filtered set changes size. It has no hidden state beyond the current page:
// every view is re-derived from the full input.
type Paginator struct {
	size    int
	current int
	items   []models.Opportunity
}

func NewPaginator(size int) *Paginator {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Paginator{size: size, current: 1}
}

// SetInput replaces the filtered set. If the current page no longer exists
// in the new set, it resets to page 1.
func (p *Paginator) SetInput(items []models.Opportunity) {
	p.items = items
	if p.current > p.TotalPages() {
		p.current = 1
	}
}

// GoTo moves to the requested page. Out-of-range requests are rejected and
// leave the current page unchanged.
func (p *Paginator) GoTo(page int) bool {
	if page < 1 || page > p.TotalPages() {
		return false
	}
	p.current = page
	return true
}

func (p *Paginator) CurrentPage() int { return p.current }

// TotalPages is never below 1: an empty set still has one empty page.
func (p *Paginator) TotalPages() int {
	n := (len(p.items) + p.size - 1) / p.size
	if n == 0 {
		return 1
	}
	return n
}

// Page returns the visible slice for the current page.
func (p *Paginator) Page() Page {
	return Paginate(p.items, p.size, p.current)
}
