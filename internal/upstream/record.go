package upstream

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/selim/opphub/internal/models"
)

// FlexID accepts the backend's id field whether it arrives as a JSON string
// (Mongo-style hex ids) or a number (legacy numeric ids). Either way it is
// held as its string form so ids compare consistently downstream.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// StringList accepts either a JSON array of strings or a single string the
// backend never bothered splitting (newline- or semicolon-separated).
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = cleanList(items)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	sep := "\n"
	if !strings.Contains(s, "\n") && strings.Contains(s, ";") {
		sep = ";"
	}
	*l = cleanList(strings.Split(s, sep))
	return nil
}

func cleanList(items []string) []string {
	var out []string
	for _, it := range items {
		it = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(it), "-*•"))
		if it != "" {
			out = append(out, it)
		}
	}
	return out
}

// Record is one raw backend row. Field names and presence vary by category
// endpoint (the backend mixes English and French keys); the normalizer
// resolves each display field from the first present alias.
type Record struct {
	ID      FlexID `json:"id"`
	MongoID FlexID `json:"_id"`

	Title string `json:"title"`
	Titre string `json:"titre"`

	Type            string `json:"type"`
	OpportuniteType string `json:"opportuniteType"`

	Organization   string `json:"organization"`
	Organisme      string `json:"organisme"`
	OrgDescription string `json:"orgDescription"`

	Location string `json:"location"`
	Pays     string `json:"pays"`
	Lieu     string `json:"lieu"`

	NiveauAcademique string `json:"niveau_academique"`
	Level            string `json:"level"`

	Description string     `json:"description"`
	Benefits    string     `json:"benefits"`
	Avantages   string     `json:"avantages"`
	Eligibility StringList `json:"eligibility"`

	Deadline   string `json:"deadline"`
	DateLimite string `json:"dateLimite"`
	DateDebut  string `json:"dateDebut"`

	Value   string `json:"value"`
	Montant string `json:"montant"`
	Devise  string `json:"devise"`

	Duration string `json:"duration"`
	Duree    string `json:"duree"`

	Image    string `json:"image"`
	ImageURL string `json:"imageUrl"`
	Logo     string `json:"logo"`

	LienSource       string `json:"lienSource"`
	RegistrationLink string `json:"registrationLink"`

	Language  string `json:"language"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Query is the subset of filter state the backend endpoints understand,
// expressed with the backend's own parameter names. Date windows are not
// here: they are refined locally after normalization.
type Query struct {
	Search      string
	Country     string // pays
	Level       string // niveau: Licence, Master, Doctorat
	Format      string // online, inPerson
	Price       string // free, paid
	ClosingSoon bool
}

// endpointPath maps a catalog family to its upstream collection path.
func endpointPath(kind models.Kind) string {
	switch kind {
	case models.KindTraining:
		return "/api/trainings"
	case models.KindEvent:
		return "/api/events"
	default:
		return "/api/scholarships"
	}
}
