package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/avramelo/eventscout-go/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// searchFields are the lowercased text surfaces a keyword may match against.
// raw_ocr fragments are flattened into one haystack per record.
var searchFields = []string{
	"string::lowercase(details.name ?? '')",
	"string::lowercase(details.location ?? '')",
	"string::lowercase(details.date ?? '')",
	"string::lowercase(full_text ?? '')",
	"string::lowercase(array::join(raw_ocr ?? [], ' '))",
}

// phraseFields excludes the OCR surface; whole-phrase matching is only
// meaningful against coherent text.
var phraseFields = searchFields[:4]

// standardFields are the surfaces for the keyword-only standard search.
var standardFields = []string{
	"string::lowercase(details.name ?? '')",
	"string::lowercase(details.location ?? '')",
	"string::lowercase(full_text ?? '')",
}

// QueryVectorSearch performs approximate nearest-neighbor search over the
// event embedding index, returning up to k records with cosine similarity.
// Only records carrying an embedding are eligible.
func (c *Client) QueryVectorSearch(ctx context.Context, embedding []float32, k int) ([]models.Event, error) {
	// HNSW KNN with ef=40 for better recall
	sql := fmt.Sprintf(`
		SELECT id, details, full_text, raw_ocr, created,
			vector::similarity::cosine(embedding, $emb) AS similarity
		FROM event
		WHERE embedding <|%d,40|> $emb
	`, k)

	results, err := surrealdb.Query[[]models.Event](ctx, c.db, sql, map[string]any{
		"emb": embedding,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return []models.Event{}, nil
}

// QueryKeywordSearch matches any of the given tokens case-insensitively
// against name, location, date, full text and OCR fragments (broad OR).
func (c *Client) QueryKeywordSearch(ctx context.Context, tokens []string, limit int) ([]models.Event, error) {
	if len(tokens) == 0 {
		return []models.Event{}, nil
	}

	vars := map[string]any{"limit": limit}
	var clauses []string
	for i, tok := range tokens {
		key := fmt.Sprintf("kw%d", i)
		vars[key] = strings.ToLower(tok)
		for _, field := range searchFields {
			clauses = append(clauses, fmt.Sprintf("string::contains(%s, $%s)", field, key))
		}
	}

	sql := fmt.Sprintf(`
		SELECT id, details, full_text, raw_ocr, created FROM event
		WHERE %s
		LIMIT $limit
	`, strings.Join(clauses, " OR "))

	results, err := surrealdb.Query[[]models.Event](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return []models.Event{}, nil
}

// QueryPhraseSearch matches the whole query phrase case-insensitively against
// name, location, date and full text. Used when keyword extraction yields
// no usable tokens.
func (c *Client) QueryPhraseSearch(ctx context.Context, phrase string, limit int) ([]models.Event, error) {
	var clauses []string
	for _, field := range phraseFields {
		clauses = append(clauses, fmt.Sprintf("string::contains(%s, $phrase)", field))
	}

	sql := fmt.Sprintf(`
		SELECT id, details, full_text, raw_ocr, created FROM event
		WHERE %s
		LIMIT $limit
	`, strings.Join(clauses, " OR "))

	results, err := surrealdb.Query[[]models.Event](ctx, c.db, sql, map[string]any{
		"phrase": strings.ToLower(strings.TrimSpace(phrase)),
		"limit":  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("phrase search: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return []models.Event{}, nil
}

// QueryStandardSearch is the keyword-only last-resort search: a phrase match
// on name, location and full text with a fixed cap.
func (c *Client) QueryStandardSearch(ctx context.Context, phrase string, limit int) ([]models.Event, error) {
	var clauses []string
	for _, field := range standardFields {
		clauses = append(clauses, fmt.Sprintf("string::contains(%s, $phrase)", field))
	}

	sql := fmt.Sprintf(`
		SELECT id, details, full_text, raw_ocr, created FROM event
		WHERE %s
		LIMIT $limit
	`, strings.Join(clauses, " OR "))

	results, err := surrealdb.Query[[]models.Event](ctx, c.db, sql, map[string]any{
		"phrase": strings.ToLower(strings.TrimSpace(phrase)),
		"limit":  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("standard search: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return []models.Event{}, nil
}

// QueryListEvents returns events with a limit. When latest is true, results
// are ordered most recent first.
func (c *Client) QueryListEvents(ctx context.Context, limit int, latest bool) ([]models.Event, error) {
	orderClause := ""
	if latest {
		orderClause = "ORDER BY created DESC"
	}

	sql := fmt.Sprintf(`
		SELECT id, details, full_text, raw_ocr, created FROM event %s LIMIT $limit
	`, orderClause)

	results, err := surrealdb.Query[[]models.Event](ctx, c.db, sql, map[string]any{
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return []models.Event{}, nil
}

// QueryUpsertEvent creates or updates an event by ID. Used by the seed
// command; the engine itself never writes.
func (c *Client) QueryUpsertEvent(
	ctx context.Context,
	id string,
	details models.EventDetails,
	fullText string,
	rawOCR []string,
	embedding []float32,
) (*models.Event, error) {
	if rawOCR == nil {
		rawOCR = []string{}
	}

	sql := `
		UPSERT type::record("event", $id) SET
			details = $details,
			full_text = $full_text,
			raw_ocr = $raw_ocr,
			embedding = $embedding,
			created = IF created THEN created ELSE time::now() END
		RETURN AFTER
	`

	vars := map[string]any{
		"id":        id,
		"details":   details,
		"full_text": fullText,
		"raw_ocr":   rawOCR,
		"embedding": embedding,
	}
	if len(embedding) == 0 {
		vars["embedding"] = nil
	}

	results, err := surrealdb.Query[[]models.Event](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("upsert event: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("upsert event: no result returned")
	}
	return &(*results)[0].Result[0], nil
}

// QueryCountEvents returns the number of stored events.
func (c *Client) QueryCountEvents(ctx context.Context) (int, error) {
	results, err := surrealdb.Query[[]struct {
		C int `json:"c"`
	}](ctx, c.db, `SELECT count() AS c FROM event GROUP ALL`, nil)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].C, nil
}
