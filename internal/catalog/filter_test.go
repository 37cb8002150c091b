package catalog

import (
	"reflect"
	"testing"
	"time"

	"github.com/selim/opphub/internal/models"
)

func tagged(id string, tags ...models.Tag) models.Opportunity {
	return models.Opportunity{ID: id, Tags: tags}
}

func TestApplyCategoryOrSemantics(t *testing.T) {
	items := []models.Opportunity{
		tagged("01", models.TagEngineering),
		tagged("02", models.TagMedical),
		tagged("03", models.TagEngineering, models.TagCS),
		tagged("04"),
		tagged("05", models.TagBusiness),
		tagged("06", models.TagEngineering),
		tagged("07", models.TagArts),
		tagged("08"),
		tagged("09", models.TagCS),
		tagged("10"),
	}
	now := time.Now()

	t.Run("no active categories passes everything through", func(t *testing.T) {
		got := Filters{}.Apply(items, now)
		if len(got) != len(items) {
			t.Fatalf("expected %d items, got %d", len(items), len(got))
		}
	})

	t.Run("single category keeps matching records in input order", func(t *testing.T) {
		f := Filters{Categories: []models.Tag{models.TagEngineering}}
		got := f.Apply(items, now)
		wantIDs := []string{"01", "03", "06"}
		if ids := idsOf(got); !reflect.DeepEqual(ids, wantIDs) {
			t.Errorf("expected %v, got %v", wantIDs, ids)
		}
	})

	t.Run("multiple categories OR together", func(t *testing.T) {
		f := Filters{Categories: []models.Tag{models.TagMedical, models.TagCS}}
		got := f.Apply(items, now)
		wantIDs := []string{"02", "03", "09"}
		if ids := idsOf(got); !reflect.DeepEqual(ids, wantIDs) {
			t.Errorf("expected %v, got %v", wantIDs, ids)
		}
	})
}

func TestApplyDateWindow(t *testing.T) {
	now := time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)

	early := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	inWeek := time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC)
	inNextMonth := time.Date(2024, time.February, 14, 10, 0, 0, 0, time.UTC)

	items := []models.Opportunity{
		{ID: "a", StartAt: &early},
		{ID: "b", StartAt: &inWeek},
		{ID: "c", StartAt: &inNextMonth},
		{ID: "d"}, // no dates at all: maximally old
	}

	t.Run("thisWeek", func(t *testing.T) {
		got := Filters{DateWindow: WindowThisWeek}.Apply(items, now)
		if ids := idsOf(got); !reflect.DeepEqual(ids, []string{"b"}) {
			t.Errorf("expected only the in-week event, got %v", ids)
		}
	})

	t.Run("nextMonth", func(t *testing.T) {
		got := Filters{DateWindow: WindowNextMonth}.Apply(items, now)
		if ids := idsOf(got); !reflect.DeepEqual(ids, []string{"c"}) {
			t.Errorf("expected only the next-month event, got %v", ids)
		}
	})

	t.Run("deadline is the fallback instant", func(t *testing.T) {
		deadline := time.Date(2024, time.January, 8, 23, 59, 59, 0, time.UTC)
		withDeadline := []models.Opportunity{{ID: "x", DeadlineAt: &deadline}}
		got := Filters{DateWindow: WindowThisWeek}.Apply(withDeadline, now)
		if len(got) != 1 {
			t.Errorf("expected deadline fallback to place record in window")
		}
	})
}

func TestApplyIdempotent(t *testing.T) {
	items := []models.Opportunity{
		tagged("01", models.TagEngineering),
		tagged("02"),
		tagged("03", models.TagEngineering),
	}
	f := Filters{Categories: []models.Tag{models.TagEngineering}}
	now := time.Now()

	first := f.Apply(items, now)
	second := f.Apply(items, now)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical output on repeat application: %v vs %v", idsOf(first), idsOf(second))
	}
	if len(items) != 3 {
		t.Errorf("input set mutated: %d items", len(items))
	}
}

func TestClosingSoon(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	in10 := now.AddDate(0, 0, 10)
	in45 := now.AddDate(0, 0, 45)
	past := now.AddDate(0, 0, -1)

	tests := []struct {
		name     string
		deadline *time.Time
		expected bool
	}{
		{"within window", &in10, true},
		{"beyond window", &in45, false},
		{"already past", &past, false},
		{"no parsed deadline", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.Opportunity{ID: "x", DeadlineAt: tt.deadline}
			if got := ClosingSoon(item, now); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFiltersQueryDelegation(t *testing.T) {
	f := Filters{
		Search:      "robotics",
		Location:    "Canada",
		Level:       "Master",
		Categories:  []models.Tag{models.TagEngineering},
		Price:       "free",
		Format:      "online",
		DateWindow:  WindowThisWeek,
		ClosingSoon: true,
	}
	q := f.Query()

	if q.Search != "robotics" || q.Country != "Canada" || q.Level != "Master" {
		t.Errorf("expected server-side filters forwarded, got %+v", q)
	}
	if q.Price != "free" || q.Format != "online" || !q.ClosingSoon {
		t.Errorf("expected price/format/closingSoon forwarded, got %+v", q)
	}

	values := q.Values()
	if values.Get("pays") != "Canada" || values.Get("niveau") != "Master" || values.Get("closingSoon") != "true" {
		t.Errorf("expected backend parameter names, got %v", values)
	}
	// Date windows and categories are refined locally after normalization
	// and must never reach the wire.
	if values.Has("date") || values.Has("categories") {
		t.Errorf("locally-refined filters leaked into the query: %v", values)
	}
}

func TestEmptyFiltersChips(t *testing.T) {
	if chips := EmptyFilters.Chips(); len(chips) != 0 {
		t.Errorf("expected no chips for the all-clear state, got %v", chips)
	}

	f := Filters{
		Categories:  []models.Tag{models.TagCS},
		Price:       "free",
		ClosingSoon: true,
		Location:    "London",
	}
	chips := f.Chips()
	wantLabels := []string{"CS/Technology", "Free Only", "Closing Soon", "London"}
	if len(chips) != len(wantLabels) {
		t.Fatalf("expected %d chips, got %v", len(wantLabels), chips)
	}
	for i, want := range wantLabels {
		if chips[i].Label != want {
			t.Errorf("chip %d: expected %q, got %q", i, want, chips[i].Label)
		}
	}
}

func idsOf(items []models.Opportunity) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
