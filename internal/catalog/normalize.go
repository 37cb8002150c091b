package catalog

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/selim/opphub/internal/models"
	"github.com/selim/opphub/internal/upstream"
)

// PlaceholderImage is served whenever a record's image is absent or not a
// usable URL.
const PlaceholderImage = "/assets/placeholder.png"

var stripTags = bluemonday.StrictPolicy()

// Normalize converts one raw backend record into the unified display record.
// It never fails: every missing or malformed field degrades to a documented
// default instead of propagating absence. The hint names the endpoint the
// record came from and is used when the record's own type field resolves to
// nothing.
func Normalize(raw upstream.Record, hint models.Kind) models.Opportunity {
	kind := normalizeKind(firstNonEmpty(raw.Type, raw.OpportuniteType))
	if kind == "" {
		kind = hint
	}
	if kind == "" {
		kind = models.KindScholarship
	}

	title := cleanText(firstNonEmpty(raw.Title, raw.Titre))
	if title == "" {
		title = "Untitled Opportunity"
	}

	subject, description := splitSubjectHint(htmlToText(raw.Description))
	value := normalizeValue(raw.Value, raw.Montant, raw.Devise)

	opp := models.Opportunity{
		ID:           firstNonEmpty(string(raw.ID), string(raw.MongoID)),
		Kind:         kind,
		Title:        title,
		Organization: cleanText(firstNonEmpty(raw.Organization, raw.Organisme, "Unknown")),
		Location:     cleanText(firstNonEmpty(raw.Location, raw.Pays, "Online")),
		Venue:        cleanText(raw.Lieu),
		Level:        normalizeLevel(firstNonEmpty(raw.NiveauAcademique, raw.Level)),
		Subject:      subject,
		Description:  description,
		Benefits:     htmlToText(firstNonEmpty(raw.Benefits, raw.Avantages)),
		Eligibility:  raw.Eligibility,
		Value:        value,
		Free:         isFreeValue(value),
		FullyFunded:  strings.Contains(strings.ToLower(value), "full"),
		Duration:     cleanText(firstNonEmpty(raw.Duration, raw.Duree)),
		Language:     cleanText(raw.Language),
		ImageURL:     usableImageURL(firstNonEmpty(raw.Image, raw.ImageURL)),
		LogoURL:      cleanText(raw.Logo),
		UpdatedAt:    firstNonEmpty(raw.UpdatedAt, raw.CreatedAt),
	}

	opp.RegistrationLink = firstNonEmpty(raw.LienSource, raw.RegistrationLink)
	opp.Tags = DeriveTags(subject, title, description)
	if kind == models.KindTraining {
		opp.Category = TrainingCategory(title, description)
		if opp.Duration == "" {
			opp.Duration = "Self-paced"
		}
	}

	rawDeadline := firstNonEmpty(raw.Deadline, raw.DateLimite)
	if dt, ok := parseDate(rawDeadline); ok {
		opp.DeadlineAt = &dt
		opp.Deadline = dt.Format("Jan 2, 2006")
	} else if cleaned := cleanText(rawDeadline); cleaned != "" {
		// Keep unparseable prose like "Annual" as-is rather than losing it.
		opp.Deadline = cleaned
	} else {
		opp.Deadline = "Open"
	}

	if dt, ok := parseDate(raw.DateDebut); ok {
		opp.StartAt = &dt
	}

	return opp
}

func normalizeKind(s string) models.Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scholarship", "bourse":
		return models.KindScholarship
	case "training", "formation":
		return models.KindTraining
	case "event", "evenement", "événement":
		return models.KindEvent
	}
	return ""
}

func normalizeLevel(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "Any Level"
	case "licence", "undergraduate", "bachelor":
		return "Undergraduate"
	case "master", "masters", "graduate":
		return "Master's"
	case "doctorat", "phd", "doctorate":
		return "PhD"
	}
	return cleanText(s)
}

// normalizeValue resolves the display amount, appending the currency to bare
// backend amounts ("5000" + "USD" -> "5000 USD").
func normalizeValue(value, montant, devise string) string {
	if v := cleanText(value); v != "" {
		return v
	}
	m := cleanText(montant)
	if m == "" {
		return "Open"
	}
	if devise != "" && !strings.Contains(m, devise) {
		return m + " " + devise
	}
	return m
}

func isFreeValue(value string) bool {
	v := strings.ToLower(value)
	return strings.Contains(v, "free") || strings.Contains(v, "gratuit") || strings.TrimSpace(v) == "0"
}

// splitSubjectHint peels a leading bracketed subject-area hint off a
// description: "[Engineering] Robotics summer school" -> ("Engineering", ...).
func splitSubjectHint(description string) (subject, rest string) {
	description = strings.TrimSpace(description)
	if !strings.HasPrefix(description, "[") {
		return "", description
	}
	end := strings.Index(description, "]")
	if end <= 1 {
		return "", description
	}
	return strings.TrimSpace(description[1:end]), strings.TrimSpace(description[end+1:])
}

// htmlToText strips markup from backend rich-text fields and collapses
// whitespace. Sanitization runs first so stray script/style content never
// leaks into display text. Falls back to the input if parsing fails.
func htmlToText(html string) string {
	if !strings.Contains(html, "<") {
		return cleanText(html)
	}
	sanitized := stripTags.Sanitize(html)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sanitized))
	if err != nil {
		return cleanText(html)
	}
	return cleanText(doc.Text())
}

// usableImageURL keeps absolute http(s) URLs and site-relative paths; any
// other shape degrades to the placeholder.
func usableImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PlaceholderImage
	}
	if strings.HasPrefix(raw, "/") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return PlaceholderImage
	}
	return raw
}

// cleanText collapses runs of whitespace and trims the result.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
