package catalog

import (
	"testing"
	"time"

	"github.com/selim/opphub/internal/models"
	"github.com/selim/opphub/internal/upstream"
)

func TestNormalizeAliasResolution(t *testing.T) {
	raw := upstream.Record{
		MongoID:          "6598a3f2c1",
		Titre:            "Bourse d'excellence",
		OpportuniteType:  "bourse",
		Organisme:        "Université de Tunis",
		Pays:             "Tunisie",
		NiveauAcademique: "Master",
		Montant:          "5000",
		Devise:           "USD",
		DateLimite:       "2026-10-15",
		Duree:            "2 ans",
	}

	opp := Normalize(raw, "")

	if opp.ID != "6598a3f2c1" {
		t.Errorf("expected id from _id alias, got %q", opp.ID)
	}
	if opp.Kind != models.KindScholarship {
		t.Errorf("expected french type vocab to resolve to Scholarship, got %q", opp.Kind)
	}
	if opp.Title != "Bourse d'excellence" {
		t.Errorf("expected title from titre alias, got %q", opp.Title)
	}
	if opp.Organization != "Université de Tunis" {
		t.Errorf("expected organization from organisme, got %q", opp.Organization)
	}
	if opp.Location != "Tunisie" {
		t.Errorf("expected location from pays, got %q", opp.Location)
	}
	if opp.Level != "Master's" {
		t.Errorf("expected level Master's, got %q", opp.Level)
	}
	if opp.Value != "5000 USD" {
		t.Errorf("expected montant+devise, got %q", opp.Value)
	}
	if opp.Deadline != "Oct 15, 2026" {
		t.Errorf("expected formatted deadline, got %q", opp.Deadline)
	}
	if opp.DeadlineAt == nil {
		t.Fatal("expected parsed deadline")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	opp := Normalize(upstream.Record{Title: "Mystery Listing"}, models.KindEvent)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"organization", opp.Organization, "Unknown"},
		{"location", opp.Location, "Online"},
		{"deadline", opp.Deadline, "Open"},
		{"image placeholder", opp.ImageURL, PlaceholderImage},
		{"value", opp.Value, "Open"},
		{"level", opp.Level, "Any Level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, tt.got)
			}
		})
	}

	if opp.Kind != models.KindEvent {
		t.Errorf("expected endpoint hint to supply kind, got %q", opp.Kind)
	}
}

func TestNormalizeImageFallback(t *testing.T) {
	tests := []struct {
		name  string
		image string
		want  string
	}{
		{"absolute https kept", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"site-relative kept", "/img/banner.png", "/img/banner.png"},
		{"missing", "", PlaceholderImage},
		{"garbage scheme", "javascript:alert(1)", PlaceholderImage},
		{"bare word", "photo.png", PlaceholderImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opp := Normalize(upstream.Record{Title: "X", Image: tt.image}, models.KindTraining)
			if opp.ImageURL != tt.want {
				t.Errorf("expected %q, got %q", tt.want, opp.ImageURL)
			}
		})
	}
}

func TestNormalizeSubjectHint(t *testing.T) {
	raw := upstream.Record{
		Title:       "Summer School",
		Description: "[Engineering] Robotics intensive for undergraduates",
	}
	opp := Normalize(raw, models.KindScholarship)

	if opp.Subject != "Engineering" {
		t.Errorf("expected bracketed hint split into subject, got %q", opp.Subject)
	}
	if opp.Description != "Robotics intensive for undergraduates" {
		t.Errorf("expected hint stripped from description, got %q", opp.Description)
	}
	if !opp.HasTag(models.TagEngineering) {
		t.Errorf("expected subject hint to drive tag derivation, tags: %v", opp.Tags)
	}
}

func TestNormalizeHTMLDescription(t *testing.T) {
	raw := upstream.Record{
		Title:       "Design Workshop",
		Description: "<p>Hands-on <b>UX</b> training.</p><script>alert(1)</script>",
	}
	opp := Normalize(raw, models.KindTraining)

	if opp.Description != "Hands-on UX training." {
		t.Errorf("expected markup stripped, got %q", opp.Description)
	}
}

func TestNormalizeValueBadges(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		free        bool
		fullyFunded bool
	}{
		{"free entry", "Free Entry", true, false},
		{"gratuit", "Gratuit", true, false},
		{"fully funded", "Full Tuition", false, true},
		{"plain amount", "$35,000 / year", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opp := Normalize(upstream.Record{Title: "X", Value: tt.value}, models.KindScholarship)
			if opp.Free != tt.free {
				t.Errorf("Free: expected %v, got %v", tt.free, opp.Free)
			}
			if opp.FullyFunded != tt.fullyFunded {
				t.Errorf("FullyFunded: expected %v, got %v", tt.fullyFunded, opp.FullyFunded)
			}
		})
	}
}

func TestNormalizeFrenchDeadline(t *testing.T) {
	opp := Normalize(upstream.Record{Title: "X", DateLimite: "15 octobre 2026"}, models.KindScholarship)
	if opp.DeadlineAt == nil {
		t.Fatal("expected french prose date to parse")
	}
	want := time.Date(2026, time.October, 15, 23, 59, 59, 0, time.UTC)
	if !opp.DeadlineAt.Equal(want) {
		t.Errorf("expected %v, got %v", want, *opp.DeadlineAt)
	}
}

func TestNormalizeUnparseableDeadlineKept(t *testing.T) {
	opp := Normalize(upstream.Record{Title: "X", Deadline: "Annual"}, models.KindScholarship)
	if opp.Deadline != "Annual" {
		t.Errorf("expected prose deadline kept, got %q", opp.Deadline)
	}
	if opp.DeadlineAt != nil {
		t.Errorf("expected no parsed deadline, got %v", *opp.DeadlineAt)
	}
}

func TestNormalizeTrainingCategoryAndDuration(t *testing.T) {
	opp := Normalize(upstream.Record{Title: "Full Stack Web Bootcamp"}, models.KindTraining)
	if opp.Category != "Development" {
		t.Errorf("expected Development, got %q", opp.Category)
	}
	if opp.Duration != "Self-paced" {
		t.Errorf("expected Self-paced default, got %q", opp.Duration)
	}
}
