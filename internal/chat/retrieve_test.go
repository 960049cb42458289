package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/avramelo/eventscout-go/internal/models"
)

func TestRetrieveRunsBothStrategies(t *testing.T) {
	store := &fakeStore{
		vector:  []models.Event{goodEvent("v1", "Jazz Night")},
		keyword: []models.Event{goodEvent("k1", "Night Market")},
	}
	r := NewRetriever(store, nil)

	vector, keyword := r.Retrieve(context.Background(), "jazz market", []float32{0.1}, 5)

	if len(vector) != 1 || len(keyword) != 1 {
		t.Fatalf("got %d vector, %d keyword results", len(vector), len(keyword))
	}
	if store.vectorCalls != 1 || store.keywordCalls != 1 {
		t.Errorf("vector calls = %d, keyword calls = %d", store.vectorCalls, store.keywordCalls)
	}
}

func TestRetrieveSkipsVectorWithoutEmbedding(t *testing.T) {
	store := &fakeStore{keyword: []models.Event{goodEvent("k1", "Night Market")}}
	r := NewRetriever(store, nil)

	vector, keyword := r.Retrieve(context.Background(), "market", nil, 5)

	if store.vectorCalls != 0 {
		t.Errorf("vector search ran without an embedding")
	}
	if len(vector) != 0 || len(keyword) != 1 {
		t.Errorf("got %d vector, %d keyword results", len(vector), len(keyword))
	}
}

func TestRetrievePhraseFallbackForStopWordQuery(t *testing.T) {
	// Every token is a stop-word or too short, so the whole phrase is
	// matched instead.
	store := &fakeStore{keyword: []models.Event{goodEvent("k1", "Something")}}
	r := NewRetriever(store, nil)

	_, keyword := r.Retrieve(context.Background(), "what is on", nil, 5)

	if store.keywordCalls != 0 {
		t.Errorf("token search ran for a stop-word-only query")
	}
	if len(keyword) != 1 {
		t.Errorf("phrase fallback returned %d results", len(keyword))
	}
}

func TestRetrieveStrategyFailureDegradesToEmpty(t *testing.T) {
	store := &fakeStore{
		vectorErr: errors.New("no index"),
		keyword:   []models.Event{goodEvent("k1", "Night Market")},
	}
	r := NewRetriever(store, nil)

	vector, keyword := r.Retrieve(context.Background(), "market", []float32{0.1}, 5)

	if len(vector) != 0 {
		t.Errorf("failing vector strategy should yield no results")
	}
	if len(keyword) != 1 {
		t.Errorf("keyword strategy should be unaffected, got %d", len(keyword))
	}
}

func TestRetrieveEmptyQueryAndEmbedding(t *testing.T) {
	store := &fakeStore{}
	r := NewRetriever(store, nil)

	vector, keyword := r.Retrieve(context.Background(), "   ", nil, 5)

	if len(vector) != 0 || len(keyword) != 0 {
		t.Errorf("expected no results, got %d vector, %d keyword", len(vector), len(keyword))
	}
	if store.vectorCalls != 0 || store.keywordCalls != 0 {
		t.Errorf("no store calls expected")
	}
}
