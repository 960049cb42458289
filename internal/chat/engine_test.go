package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avramelo/eventscout-go/internal/metrics"
	"github.com/avramelo/eventscout-go/internal/models"
)

// fakeStore is a configurable in-memory Store.
type fakeStore struct {
	vector   []models.Event
	keyword  []models.Event
	standard []models.Event
	listed   []models.Event

	vectorErr   error
	keywordErr  error
	standardErr error
	listErr     error

	panicOnVector bool

	vectorCalls   int
	keywordCalls  int
	standardCalls int
	listCalls     int
	lastLatest    bool
}

func (s *fakeStore) VectorSearch(_ context.Context, _ []float32, _ int) ([]models.Event, error) {
	s.vectorCalls++
	if s.panicOnVector {
		panic("store connection lost")
	}
	return s.vector, s.vectorErr
}

func (s *fakeStore) KeywordSearch(_ context.Context, _ []string, _ int) ([]models.Event, error) {
	s.keywordCalls++
	return s.keyword, s.keywordErr
}

func (s *fakeStore) PhraseSearch(_ context.Context, _ string, _ int) ([]models.Event, error) {
	return s.keyword, s.keywordErr
}

func (s *fakeStore) StandardSearch(_ context.Context, _ string, _ int) ([]models.Event, error) {
	s.standardCalls++
	return s.standard, s.standardErr
}

func (s *fakeStore) ListEvents(_ context.Context, _ int, latest bool) ([]models.Event, error) {
	s.listCalls++
	s.lastLatest = latest
	return s.listed, s.listErr
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (e *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return e.vec, e.err
}

type fakeModel struct {
	answer     string
	err        error
	lastSystem string
	lastPrompt string
	calls      int
}

func (m *fakeModel) GenerateWithSystem(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.calls++
	m.lastSystem = systemPrompt
	m.lastPrompt = userPrompt
	return m.answer, m.err
}

func newTestEngine(store *fakeStore, embedder Embedder, model Generator) *Engine {
	opts := Options{Store: store, ResultLimit: 5}
	if embedder != nil {
		opts.Embedder = embedder
	}
	if model != nil {
		opts.Model = model
	}
	return NewEngine(opts)
}

func TestEngineAsksAnonymousCallerForName(t *testing.T) {
	engine := newTestEngine(&fakeStore{}, nil, nil)

	resp := engine.GetChatResponse(context.Background(), "when is the jazz festival?", nil, "")

	assert.Equal(t, NameRequest, resp.Answer)
	assert.Empty(t, resp.Sources)
}

func TestEngineCapturesName(t *testing.T) {
	engine := newTestEngine(&fakeStore{}, nil, nil)
	history := []models.ChatTurn{
		{Role: models.RoleAssistant, Content: NameRequest},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"my name is Dana", "Dana"},
		{"I'm Alex Johnson", "Alex Johnson"},
		{"Sam", "Sam"},
		{"you can call me Maria Del Carmen Lopez", "Maria Del Carmen"},
	}
	for _, tt := range tests {
		resp := engine.GetChatResponse(context.Background(), tt.input, history, "")
		assert.Contains(t, resp.Answer, "Nice to meet you, "+tt.want+"!", "input %q", tt.input)
	}
}

func TestEngineSkipsNameGateWithIdentity(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(store, nil, nil)

	resp := engine.GetChatResponse(context.Background(), "hello", nil, "Dana")

	assert.Contains(t, resp.Answer, "Hello Dana")
}

func TestEngineGreetingAfterHistory(t *testing.T) {
	engine := newTestEngine(&fakeStore{}, nil, nil)
	history := turns("what's on?", "A few things are on this week.")

	resp := engine.GetChatResponse(context.Background(), "hello!", history, "")

	assert.Contains(t, resp.Answer, "Hello")
	assert.Empty(t, resp.Sources)
}

func TestEngineListEventsIntent(t *testing.T) {
	store := &fakeStore{listed: []models.Event{
		goodEvent("e1", "Jazz Night"),
		goodEvent("e2", "Book Fair"),
	}}
	engine := newTestEngine(store, nil, nil)

	resp := engine.GetChatResponse(context.Background(), "show me all events", nil, "Dana")

	assert.Equal(t, 1, store.listCalls)
	assert.False(t, store.lastLatest)
	assert.Zero(t, store.vectorCalls)
	assert.Zero(t, store.keywordCalls)
	assert.Contains(t, resp.Answer, "Jazz Night")
	assert.Contains(t, resp.Answer, "Book Fair")
	assert.Len(t, resp.Sources, 2)
}

func TestEngineLatestEventsIntent(t *testing.T) {
	store := &fakeStore{listed: []models.Event{goodEvent("e1", "New Expo")}}
	engine := newTestEngine(store, nil, nil)

	resp := engine.GetChatResponse(context.Background(), "show latest events", nil, "Dana")

	assert.True(t, store.lastLatest)
	assert.Contains(t, resp.Answer, "New Expo")
}

func TestEngineListEventsEmptyStore(t *testing.T) {
	engine := newTestEngine(&fakeStore{}, nil, nil)

	resp := engine.GetChatResponse(context.Background(), "list events", nil, "Dana")

	assert.Equal(t, msgNoEvents, resp.Answer)
}

func TestEngineFollowUpUsesHistoryNotRetrieval(t *testing.T) {
	store := &fakeStore{}
	model := &fakeModel{answer: "It starts at 7pm."}
	engine := newTestEngine(store, nil, model)
	history := turns(
		"when is the jazz festival?",
		"The Jazz Festival is on June 2nd at Town Hall, starting 7pm.",
	)

	resp := engine.GetChatResponse(context.Background(), "what time?", history, "Dana")

	assert.Equal(t, "It starts at 7pm.", resp.Answer)
	assert.Empty(t, resp.Sources, "follow-ups never attach sources")
	assert.Zero(t, store.vectorCalls)
	assert.Zero(t, store.keywordCalls)
	assert.Contains(t, model.lastSystem, "Recent conversation")
	assert.NotContains(t, model.lastSystem, "Event records")
}

func TestEngineFollowUpFallsBackToExtraction(t *testing.T) {
	model := &fakeModel{err: errors.New("model offline")}
	engine := newTestEngine(&fakeStore{}, nil, model)
	history := turns(
		"when is the jazz festival?",
		"The Jazz Festival is on June 2nd at Town Hall, starting 7pm.",
	)

	resp := engine.GetChatResponse(context.Background(), "what time?", history, "Dana")

	assert.Contains(t, resp.Answer, "7pm")
	assert.Empty(t, resp.Sources)
}

func TestEngineFollowUpGenericFallback(t *testing.T) {
	model := &fakeModel{err: errors.New("model offline")}
	engine := newTestEngine(&fakeStore{}, nil, model)
	history := turns(
		"anything on?",
		"I found a couple of things you might like.",
	)

	resp := engine.GetChatResponse(context.Background(), "what time?", history, "Dana")

	assert.Equal(t, msgFollowUpMiss, resp.Answer)
}

func TestEngineFreshQueryHybridRetrieval(t *testing.T) {
	jazz := goodEvent("e1", "Jazz Night")
	store := &fakeStore{
		vector:  []models.Event{jazz},
		keyword: []models.Event{goodEvent("e2", "Night Market")},
	}
	embedder := &fakeEmbedder{vec: []float32{0.1, 0.2}}
	model := &fakeModel{answer: "Jazz Night is tonight at Town Hall."}
	engine := newTestEngine(store, embedder, model)

	resp := engine.GetChatResponse(context.Background(), "any jazz tonight?", nil, "Dana")

	assert.Equal(t, "Jazz Night is tonight at Town Hall.", resp.Answer)
	assert.Equal(t, 1, store.vectorCalls)
	assert.Equal(t, 1, store.keywordCalls)
	require.Len(t, resp.Sources, 2)
	assert.Equal(t, "Jazz Night", resp.Sources[0].Name())
	assert.Contains(t, model.lastSystem, "Event records")
	assert.Contains(t, model.lastSystem, "Jazz Night")
	assert.Contains(t, model.lastSystem, "Dana")
}

func TestEngineTimesEachStrategySeparately(t *testing.T) {
	store := &fakeStore{
		vector:  []models.Event{goodEvent("e1", "Jazz Night")},
		keyword: []models.Event{goodEvent("e2", "Night Market")},
	}
	embedder := &fakeEmbedder{vec: []float32{0.1, 0.2}}
	model := &fakeModel{answer: "Jazz Night is tonight."}
	collector := metrics.NewCollector()
	engine := NewEngine(Options{
		Store: store, Embedder: embedder, Model: model,
		Metrics: collector, ResultLimit: 5,
	})

	engine.GetChatResponse(context.Background(), "any jazz tonight?", nil, "Dana")

	ops := collector.Snapshot().Operations
	assert.EqualValues(t, 1, ops[metrics.OpEmbedding].Count)
	assert.EqualValues(t, 1, ops[metrics.OpVectorSearch].Count)
	assert.EqualValues(t, 1, ops[metrics.OpKeywordSearch].Count)
}

func TestEngineFreshQueryEmbeddingFailureDegradesToKeyword(t *testing.T) {
	store := &fakeStore{keyword: []models.Event{goodEvent("e1", "Night Market")}}
	embedder := &fakeEmbedder{err: errors.New("embed service down")}
	model := &fakeModel{answer: "The Night Market is on."}
	engine := newTestEngine(store, embedder, model)

	resp := engine.GetChatResponse(context.Background(), "night market?", nil, "Dana")

	assert.Equal(t, "The Night Market is on.", resp.Answer)
	assert.Zero(t, store.vectorCalls, "no vector search without an embedding")
	assert.Equal(t, 1, store.keywordCalls)
}

func TestEngineFreshQueryGenerationFailureListsSources(t *testing.T) {
	store := &fakeStore{keyword: []models.Event{
		goodEvent("e1", "Jazz Night"),
		goodEvent("e2", "Night Market"),
		goodEvent("e3", "Book Fair"),
		goodEvent("e4", "Marathon Expo"),
	}}
	model := &fakeModel{err: errors.New("model offline")}
	engine := newTestEngine(store, nil, model)

	resp := engine.GetChatResponse(context.Background(), "what's on this weekend?", nil, "Dana")

	assert.Contains(t, resp.Answer, "Here's what I found")
	assert.Contains(t, resp.Answer, "Jazz Night")
	// Only the top 3 are itemized even though more sources are attached.
	assert.NotContains(t, resp.Answer, "Marathon Expo")
	assert.Len(t, resp.Sources, 4)
}

func TestEngineFreshQueryNothingFound(t *testing.T) {
	engine := newTestEngine(&fakeStore{}, nil, &fakeModel{err: errors.New("model offline")})

	resp := engine.GetChatResponse(context.Background(), "underwater basket weaving league?", nil, "Dana")

	assert.Equal(t, msgNothingFound, resp.Answer)
	assert.Empty(t, resp.Sources)
}

func TestEngineNoModelConfigured(t *testing.T) {
	store := &fakeStore{keyword: []models.Event{goodEvent("e1", "Jazz Night")}}
	engine := newTestEngine(store, nil, nil)

	resp := engine.GetChatResponse(context.Background(), "any jazz tonight?", nil, "Dana")

	assert.Contains(t, resp.Answer, "Jazz Night")
}

func TestEnginePanicDegradesToStandardSearch(t *testing.T) {
	store := &fakeStore{
		panicOnVector: true,
		standard:      []models.Event{goodEvent("e1", "Jazz Night")},
	}
	embedder := &fakeEmbedder{vec: []float32{0.1}}
	engine := newTestEngine(store, embedder, &fakeModel{answer: "unreachable"})

	resp := engine.GetChatResponse(context.Background(), "any jazz tonight?", nil, "Dana")

	assert.Equal(t, 1, store.standardCalls)
	assert.Contains(t, resp.Answer, "Jazz Night")
}

func TestEngineRemembersCapturedName(t *testing.T) {
	engine := newTestEngine(&fakeStore{}, nil, nil)
	history := []models.ChatTurn{
		{Role: models.RoleAssistant, Content: NameRequest},
		{Role: models.RoleUser, Content: "I'm Dana"},
		{Role: models.RoleAssistant, Content: "Nice to meet you, Dana! Ask me about any event - what's on, when, where, who's organizing."},
	}

	resp := engine.GetChatResponse(context.Background(), "hello", history, "")

	assert.Contains(t, resp.Answer, "Hello Dana")
}

func TestPerformStandardSearch(t *testing.T) {
	store := &fakeStore{standard: []models.Event{goodEvent("e1", "Jazz Night")}}
	engine := newTestEngine(store, nil, nil)

	resp, err := engine.PerformStandardSearch(context.Background(), "jazz")
	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "Jazz Night")
	assert.Len(t, resp.Sources, 1)
}

func TestPerformStandardSearchEmpty(t *testing.T) {
	engine := newTestEngine(&fakeStore{}, nil, nil)

	resp, err := engine.PerformStandardSearch(context.Background(), "nothing here")
	require.NoError(t, err)
	assert.Equal(t, msgNothingFound, resp.Answer)
	assert.NotNil(t, resp.Sources)
}

func TestPerformStandardSearchError(t *testing.T) {
	store := &fakeStore{standardErr: fmt.Errorf("connection refused")}
	engine := newTestEngine(store, nil, nil)

	_, err := engine.PerformStandardSearch(context.Background(), "jazz")
	assert.Error(t, err)
}

func TestItemizeEvents(t *testing.T) {
	events := []models.Event{
		goodEvent("e1", "Jazz Night"),
		testEvent("e2", models.EventDetails{Name: "Book Fair"}),
		testEvent("e3", models.EventDetails{}),
	}

	out := itemizeEvents(events, 5)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1. Jazz Night - June 2 at Town Hall", lines[0])
	assert.Equal(t, "2. Book Fair", lines[1])
	assert.Equal(t, "3. (unnamed event)", lines[2])
}
