// Package models defines data structures for the eventscout event store.
package models

import (
	"strings"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Placeholder is the marker ingestion writes for fields it could not extract.
// A placeholder field is treated the same as an absent one.
const Placeholder = "N/A"

// EventDetails holds the descriptive fields extracted for an event.
// Any field may be empty or the Placeholder marker, meaning "unknown".
type EventDetails struct {
	Name      string `json:"name,omitempty"`
	Organizer string `json:"organizer,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Location  string `json:"location,omitempty"`
	EntryType string `json:"entry_type,omitempty"`
	Website   string `json:"website,omitempty"`
}

// Event represents one event record as stored in SurrealDB.
// Records are created and embedded by external ingestion; this codebase
// only reads them.
type Event struct {
	ID        surrealmodels.RecordID `json:"id"`
	Details   EventDetails           `json:"details"`
	FullText  string                 `json:"full_text,omitempty"`
	RawOCR    []string               `json:"raw_ocr,omitempty"`
	Embedding []float32              `json:"embedding,omitempty"`
	Created   time.Time              `json:"created,omitempty"`

	// Similarity is populated by vector search queries, zero otherwise.
	Similarity float64 `json:"similarity,omitempty"`
}

// HasField reports whether a detail value carries information,
// i.e. it is non-empty after trimming and not the placeholder marker.
func HasField(v string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed != "" && trimmed != Placeholder
}

// Name returns the event name trimmed, or "" when unknown.
func (e Event) Name() string {
	if HasField(e.Details.Name) {
		return strings.TrimSpace(e.Details.Name)
	}
	return ""
}
