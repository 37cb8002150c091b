package models

import "time"

// Kind discriminates the three catalog families.
type Kind string

const (
	KindScholarship Kind = "Scholarship"
	KindTraining    Kind = "Training"
	KindEvent       Kind = "Event"
)

// Tag is a derived subject-area label attached to an opportunity and used
// for client-side category filtering.
type Tag string

const (
	TagEngineering Tag = "Engineering"
	TagMedical     Tag = "Medical"
	TagBusiness    Tag = "Business"
	TagArts        Tag = "Arts"
	TagCS          Tag = "CS/Technology"
)

// AllTags returns the fixed tag vocabulary in canonical order.
func AllTags() []Tag {
	return []Tag{TagEngineering, TagMedical, TagBusiness, TagArts, TagCS}
}

// Opportunity is the unified display record every list and detail view
// consumes, regardless of which upstream endpoint produced it.
type Opportunity struct {
	ID           string `json:"id"`
	Kind         Kind   `json:"type"`
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Location     string `json:"location"`
	Venue        string `json:"venue,omitempty"`
	Level        string `json:"level,omitempty"`

	// Subject holds the bracketed subject-area hint split off the
	// description, when the backend sent one.
	Subject     string   `json:"subject,omitempty"`
	Description string   `json:"description"`
	Benefits    string   `json:"benefits,omitempty"`
	Eligibility []string `json:"eligibility,omitempty"`

	Deadline   string     `json:"deadline"` // display-formatted, or "Open"
	DeadlineAt *time.Time `json:"deadline_at,omitempty"`
	StartAt    *time.Time `json:"start_at,omitempty"`

	Value       string `json:"value"`
	Free        bool   `json:"free"`
	FullyFunded bool   `json:"fully_funded"`
	Duration    string `json:"duration,omitempty"`
	Language    string `json:"language,omitempty"`

	ImageURL         string `json:"image_url"`
	LogoURL          string `json:"logo_url,omitempty"`
	RegistrationLink string `json:"registration_link,omitempty"`

	Tags []Tag `json:"tags"`

	// Category is the training catalog label (Development, Design,
	// Business, Data Science, General). Empty for other kinds.
	Category string `json:"category,omitempty"`

	UpdatedAt string `json:"updated_at,omitempty"`
}

// HasTag reports whether the opportunity carries the given derived tag.
func (o Opportunity) HasTag(t Tag) bool {
	for _, have := range o.Tags {
		if have == t {
			return true
		}
	}
	return false
}

// User mirrors the account record the upstream auth backend returns.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name,omitempty"`
	Country   string     `json:"country,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
