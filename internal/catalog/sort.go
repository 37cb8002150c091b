package catalog

import (
	"sort"

	"github.com/selim/opphub/internal/models"
)

// SortKey selects the ordering of a refined result set.
type SortKey string

const (
	SortNewest   SortKey = "newest"
	SortOldest   SortKey = "oldest"
	SortPriceAsc SortKey = "priceAsc"
)

// ParseSortKey maps a request parameter to a SortKey, defaulting to newest.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortOldest:
		return SortOldest
	case SortPriceAsc:
		return SortPriceAsc
	default:
		return SortNewest
	}
}

// Sort orders items in place by the selected key.
//
// Newest and oldest compare ids lexicographically as strings: server ids are
// not guaranteed numeric, and mixing numeric comparison on one page with
// string comparison on another is exactly the drift this package exists to
// remove. Price ascending is a stable free-first partition; relative order
// within each partition is preserved.
func Sort(items []models.Opportunity, key SortKey) {
	switch key {
	case SortNewest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ID > items[j].ID
		})
	case SortOldest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ID < items[j].ID
		})
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Free && !items[j].Free
		})
	}
}
