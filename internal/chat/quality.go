// Package chat implements the hybrid retrieval and conversational
// disambiguation engine: candidate retrieval, merge/dedup ranking,
// follow-up classification, history answer extraction and the
// conversation orchestrator.
package chat

import (
	"regexp"

	"github.com/avramelo/eventscout-go/internal/models"
)

// Completeness points per detail field.
const (
	pointsName      = 30
	pointsDate      = 25
	pointsLocation  = 20
	pointsTime      = 10
	pointsOrganizer = 10
	pointsWebsite   = 5

	shortNamePenalty = 20
)

// acronymName matches 2-4 letter all-caps names ("TED", "NASA") which count
// as real names despite their length.
var acronymName = regexp.MustCompile(`^[A-Z]{2,4}$`)

// cleanShortAcronym matches 2-3 letter all-caps names exempt from the
// short-name penalty.
var cleanShortAcronym = regexp.MustCompile(`^[A-Z]{2,3}$`)

// QualityScore computes a field-completeness score for an event record.
// Placeholder ("N/A") and whitespace-only values count as absent. The score
// never goes below zero.
func QualityScore(e models.Event) int {
	score := 0

	if name := e.Name(); name != "" {
		if len(name) > 3 || acronymName.MatchString(name) {
			score += pointsName
		} else if !cleanShortAcronym.MatchString(name) {
			// Fragments like "the" or "at" are OCR noise, not names.
			score -= shortNamePenalty
		}
	}

	if models.HasField(e.Details.Date) {
		score += pointsDate
	}
	if models.HasField(e.Details.Location) {
		score += pointsLocation
	}
	if models.HasField(e.Details.Time) {
		score += pointsTime
	}
	if models.HasField(e.Details.Organizer) {
		score += pointsOrganizer
	}
	if models.HasField(e.Details.Website) {
		score += pointsWebsite
	}

	if score < 0 {
		score = 0
	}
	return score
}
