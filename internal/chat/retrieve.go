package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/avramelo/eventscout-go/internal/models"
)

// Store abstracts the event document store. *db.Client satisfies it.
type Store interface {
	// VectorSearch returns up to k nearest neighbors of the query vector,
	// each with a similarity score. Only records with an embedding are
	// eligible.
	VectorSearch(ctx context.Context, embedding []float32, k int) ([]models.Event, error)

	// KeywordSearch matches any token case-insensitively against name,
	// location, date, full text and OCR fragments.
	KeywordSearch(ctx context.Context, tokens []string, limit int) ([]models.Event, error)

	// PhraseSearch matches the whole phrase against name, location, date
	// and full text.
	PhraseSearch(ctx context.Context, phrase string, limit int) ([]models.Event, error)

	// StandardSearch is the keyword-only last-resort phrase match.
	StandardSearch(ctx context.Context, phrase string, limit int) ([]models.Event, error)

	// ListEvents returns stored events, most recent first when latest is set.
	ListEvents(ctx context.Context, limit int, latest bool) ([]models.Event, error)
}

// Retriever runs the two retrieval strategies against the store. Strategy
// failures degrade to empty candidate sets; they never propagate.
type Retriever struct {
	store  Store
	logger *slog.Logger
}

// NewRetriever creates a retriever over the given store.
func NewRetriever(store Store, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{store: store, logger: logger}
}

// Retrieve returns the raw vector and keyword candidate sets for a query.
// Each strategy runs only when its precondition holds (a query vector for
// the vector strategy, non-empty text for the keyword strategy) and asks the
// store for 2x limit candidates to give the merge step room to filter.
func (r *Retriever) Retrieve(ctx context.Context, query string, embedding []float32, limit int) (vector, keyword []models.Event) {
	return r.RetrieveVector(ctx, embedding, limit), r.RetrieveKeyword(ctx, query, limit)
}

// RetrieveVector runs the nearest-neighbor strategy. With no query vector it
// returns nothing.
func (r *Retriever) RetrieveVector(ctx context.Context, embedding []float32, limit int) []models.Event {
	if len(embedding) == 0 {
		return nil
	}
	results, err := r.store.VectorSearch(ctx, embedding, limit*2)
	if err != nil {
		// Missing index or store hiccup: this strategy yields nothing,
		// the keyword strategy is unaffected.
		r.logger.Warn("vector search failed, continuing without it", "error", err)
		return nil
	}
	return results
}

// RetrieveKeyword runs the token-match strategy, falling back to a phrase
// match when the query is all stop words.
func (r *Retriever) RetrieveKeyword(ctx context.Context, query string, limit int) []models.Event {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	var (
		results []models.Event
		err     error
	)
	if tokens := ExtractKeywords(query); len(tokens) > 0 {
		results, err = r.store.KeywordSearch(ctx, tokens, limit*2)
	} else {
		results, err = r.store.PhraseSearch(ctx, query, limit*2)
	}
	if err != nil {
		r.logger.Warn("keyword search failed, continuing without it", "error", err)
		return nil
	}
	return results
}
