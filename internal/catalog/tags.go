package catalog

import (
	"strings"
	"unicode"

	"github.com/selim/opphub/internal/models"
)

// tagKeywords is the single maintained keyword table behind tag derivation.
// Matching is substring containment over lowered text, except that very short
// keywords ("ai", "ux") must land on word boundaries so "painting" never
// reads as AI. Intentionally a heuristic, not a classifier; overlapping
// keywords add all matching tags.
var tagKeywords = map[models.Tag][]string{
	models.TagEngineering: {
		"engineering", "engineer", "ingénieur", "ingenieur", "génie",
		"mechanical", "electrical", "civil", "robotics",
	},
	models.TagMedical: {
		"medical", "medicine", "médecine", "medecine", "health", "santé",
		"nursing", "pharma", "clinical",
	},
	models.TagBusiness: {
		"business", "mba", "management", "marketing", "finance",
		"entrepreneur", "commerce",
	},
	models.TagArts: {
		"arts", "humanit", "design", "music", "culture", "littérature",
		"literature",
	},
	models.TagCS: {
		"informatique", "computer", "software", "web", "data", "ai",
		"tech", "programming", "coding", "numérique",
	},
}

// DeriveTags classifies an opportunity from its subject hint, title, and
// description. It is a pure function of its inputs: the same text always
// yields the same tag set, in canonical vocabulary order.
func DeriveTags(subject, title, description string) []models.Tag {
	text := matchText(subject, title, description)

	var tags []models.Tag
	for _, tag := range models.AllTags() {
		for _, kw := range tagKeywords[tag] {
			if hasKeyword(text, kw) {
				tags = append(tags, tag)
				break
			}
		}
	}
	return tags
}

// matchText lowers the inputs and collapses punctuation to spaces so
// boundary-sensitive keywords can anchor on " kw ".
func matchText(parts ...string) string {
	joined := strings.ToLower(strings.Join(parts, " "))
	joined = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return ' '
	}, joined)
	return " " + strings.Join(strings.Fields(joined), " ") + " "
}

func hasKeyword(text, kw string) bool {
	if len(kw) <= 3 {
		return strings.Contains(text, " "+kw+" ")
	}
	return strings.Contains(text, kw)
}

// Training category labels, in match priority order. First match wins;
// records matching nothing fall through to General.
var trainingCategories = []struct {
	label    string
	keywords []string
}{
	{"Development", []string{"code", "coding", "stack", "web", "software", "développement", "programming"}},
	{"Design", []string{"design", "ux", "ui", "graphic", "graphisme"}},
	{"Business", []string{"business", "marketing", "management", "entrepreneur"}},
	{"Data Science", []string{"data", "machine learning", "analytics", "statisti"}},
}

// TrainingCategory assigns the training catalog label for a record.
func TrainingCategory(title, description string) string {
	text := matchText(title, description)
	for _, cat := range trainingCategories {
		for _, kw := range cat.keywords {
			if hasKeyword(text, kw) {
				return cat.label
			}
		}
	}
	return "General"
}
