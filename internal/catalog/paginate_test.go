package catalog

import (
	"fmt"
	"testing"

	"github.com/selim/opphub/internal/models"
)

func makeItems(n int) []models.Opportunity {
	items := make([]models.Opportunity, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, models.Opportunity{ID: fmt.Sprintf("%02d", i)})
	}
	return items
}

func TestPaginateBounds(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		size       int
		page       int
		wantPage   int
		wantTotal  int
		wantOnPage int
	}{
		{"exact fit", 12, 6, 2, 2, 2, 6},
		{"remainder page", 7, 6, 2, 2, 2, 1},
		{"page past end clamps to 1", 7, 6, 5, 1, 2, 6},
		{"zero page clamps to 1", 7, 6, 0, 1, 2, 6},
		{"empty set is one empty page", 0, 6, 3, 1, 1, 0},
		{"single item", 1, 6, 1, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(makeItems(tt.n), tt.size, tt.page)
			if got.Number != tt.wantPage {
				t.Errorf("page: expected %d, got %d", tt.wantPage, got.Number)
			}
			if got.TotalPages != tt.wantTotal {
				t.Errorf("totalPages: expected %d, got %d", tt.wantTotal, got.TotalPages)
			}
			if len(got.Items) != tt.wantOnPage {
				t.Errorf("items: expected %d, got %d", tt.wantOnPage, len(got.Items))
			}
			if got.TotalItems != tt.n {
				t.Errorf("totalItems: expected %d, got %d", tt.n, got.TotalItems)
			}
		})
	}
}

// Seven records with page size six: page 1 shows six, page 2 shows the
// seventh alone, page 3 is rejected outright.
func TestPaginatorSevenRecords(t *testing.T) {
	p := NewPaginator(6)
	p.SetInput(makeItems(7))

	if p.TotalPages() != 2 {
		t.Fatalf("expected 2 pages, got %d", p.TotalPages())
	}

	page := p.Page()
	if len(page.Items) != 6 || page.Items[0].ID != "01" || page.Items[5].ID != "06" {
		t.Errorf("page 1: expected records 1-6, got %v", idsOf(page.Items))
	}

	if !p.GoTo(2) {
		t.Fatal("expected GoTo(2) to succeed")
	}
	page = p.Page()
	if len(page.Items) != 1 || page.Items[0].ID != "07" {
		t.Errorf("page 2: expected record 7 alone, got %v", idsOf(page.Items))
	}

	if p.GoTo(3) {
		t.Error("expected GoTo(3) to be rejected")
	}
	if p.CurrentPage() != 2 {
		t.Errorf("rejected GoTo must leave state unchanged, current page %d", p.CurrentPage())
	}
}

func TestPaginatorShrinkingInputResets(t *testing.T) {
	p := NewPaginator(6)
	p.SetInput(makeItems(20))
	if !p.GoTo(4) {
		t.Fatal("expected page 4 to exist")
	}

	// The filtered set shrinks under the paginator; the vanished page
	// resets to 1 rather than pointing past the end.
	p.SetInput(makeItems(8))
	if p.CurrentPage() != 1 {
		t.Errorf("expected reset to page 1, got %d", p.CurrentPage())
	}

	p.SetInput(nil)
	if p.CurrentPage() != 1 || p.TotalPages() != 1 {
		t.Errorf("empty input: expected page 1 of 1, got %d of %d", p.CurrentPage(), p.TotalPages())
	}
	if got := p.Page(); len(got.Items) != 0 || got.Number != 1 {
		t.Errorf("expected a single empty page, got %+v", got)
	}
}
