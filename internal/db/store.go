package db

import (
	"context"

	"github.com/avramelo/eventscout-go/internal/models"
)

// Thin retrieval facade over the raw queries. These are the methods the
// chat engine consumes; keeping them separate from the Query* functions
// leaves room for per-call policy (caching, tracing) without touching SQL.

// VectorSearch returns up to k nearest neighbors of the query vector.
func (c *Client) VectorSearch(ctx context.Context, embedding []float32, k int) ([]models.Event, error) {
	return c.QueryVectorSearch(ctx, embedding, k)
}

// KeywordSearch matches any token case-insensitively across the search
// surfaces.
func (c *Client) KeywordSearch(ctx context.Context, tokens []string, limit int) ([]models.Event, error) {
	return c.QueryKeywordSearch(ctx, tokens, limit)
}

// PhraseSearch matches the whole phrase across name, location, date and
// full text.
func (c *Client) PhraseSearch(ctx context.Context, phrase string, limit int) ([]models.Event, error) {
	return c.QueryPhraseSearch(ctx, phrase, limit)
}

// StandardSearch is the keyword-only last-resort phrase match.
func (c *Client) StandardSearch(ctx context.Context, phrase string, limit int) ([]models.Event, error) {
	return c.QueryStandardSearch(ctx, phrase, limit)
}

// ListEvents returns stored events, most recent first when latest is set.
func (c *Client) ListEvents(ctx context.Context, limit int, latest bool) ([]models.Event, error) {
	return c.QueryListEvents(ctx, limit, latest)
}
