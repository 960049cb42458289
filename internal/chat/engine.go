package chat

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/avramelo/eventscout-go/internal/metrics"
	"github.com/avramelo/eventscout-go/internal/models"
)

// Embedder turns text into a query vector. A failure means "no vector";
// the engine degrades to keyword-only retrieval.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces prose from an instruction block and a user turn.
type Generator interface {
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NameRequest is the sentinel the engine sends to anonymous callers on
// their first turn. Name capture detects it positionally: when the
// immediately preceding assistant turn equals this sentinel, the current
// input is read as a name. Fragile to rephrasing; keep it a constant.
const NameRequest = "Hi! Before we get started, what should I call you?"

// Canned responses and fallback messages.
const (
	msgGreeting = "Hello! I'm EventScout. Ask me about upcoming events - dates, venues, organizers, tickets, anything."

	msgHelp = "I can answer questions about events. Try \"show me all events\", ask about a specific one (\"when is the jazz festival?\"), or follow up on something I mentioned (\"what time?\", \"where is it?\")."

	msgNothingFound = "I couldn't find any events matching that. Try different keywords, or ask me to list all events."

	msgFollowUpMiss = "I couldn't find that detail in our conversation. Could you ask about the event again by name?"

	msgDegraded = "I ran into a problem answering that, but here is what I found:"

	msgNoEvents = "There are no events in the collection yet."
)

// standardSearchCap bounds the last-resort keyword search.
const standardSearchCap = 10

// Options configures the engine at construction. Store is required;
// Embedder, Model and Metrics are optional and their absence degrades the
// corresponding step rather than failing it.
type Options struct {
	Store       Store
	Embedder    Embedder
	Model       Generator
	ResultLimit int
	Logger      *slog.Logger
	Metrics     *metrics.Collector
}

// Engine sequences intent detection, follow-up classification, hybrid
// retrieval, context assembly and generation with layered fallbacks.
// Engines are stateless across requests; conversation history is supplied
// by the caller on every call.
type Engine struct {
	store     Store
	embedder  Embedder
	model     Generator
	limit     int
	logger    *slog.Logger
	metrics   *metrics.Collector
	retriever *Retriever
}

// NewEngine creates an engine from options.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.ResultLimit
	if limit <= 0 {
		limit = 5
	}
	return &Engine{
		store:     opts.Store,
		embedder:  opts.Embedder,
		model:     opts.Model,
		limit:     limit,
		logger:    logger,
		metrics:   opts.Metrics,
		retriever: NewRetriever(opts.Store, logger),
	}
}

// GetChatResponse answers a question given caller-supplied conversation
// history and an optional identity. It never fails: every error path
// degrades to a best-effort natural-language answer, ultimately the
// keyword-only standard search.
func (e *Engine) GetChatResponse(ctx context.Context, question string, history []models.ChatTurn, identity string) (resp models.ChatResponse) {
	start := time.Now()
	defer func() {
		e.metrics.RecordTiming(metrics.OpChat, time.Since(start))
	}()

	// Outer failure net: one recovery for anything unexpected, then degrade.
	var sources []models.Event
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("chat pipeline panicked, degrading", "panic", r)
			resp = e.degrade(ctx, question, sources)
		}
	}()

	answer, fetched, err := e.chat(ctx, question, history, identity)
	sources = fetched
	if err != nil {
		e.logger.Error("chat pipeline failed, degrading", "error", err)
		return e.degrade(ctx, question, fetched)
	}
	return models.ChatResponse{Answer: answer, Sources: ensureEvents(fetched)}
}

// PerformStandardSearch is the non-generative search path: a
// case-insensitive phrase match on name, location and full text with a
// fixed result cap.
func (e *Engine) PerformStandardSearch(ctx context.Context, query string) (models.ChatResponse, error) {
	start := time.Now()
	results, err := e.store.StandardSearch(ctx, query, standardSearchCap)
	e.metrics.RecordTiming(metrics.OpStandardSearch, time.Since(start))
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("standard search: %w", err)
	}

	if len(results) == 0 {
		return models.ChatResponse{Answer: msgNothingFound, Sources: []models.Event{}}, nil
	}
	return models.ChatResponse{
		Answer:  "Here's what I found:\n" + itemizeEvents(results, len(results)),
		Sources: results,
	}, nil
}

// chat runs the orchestration states in order. The returned events are
// whatever sources had been fetched when an error occurred, so the outer
// net can salvage them.
func (e *Engine) chat(ctx context.Context, question string, history []models.ChatTurn, identity string) (string, []models.Event, error) {
	userName := callerName(identity, history)

	// Name gate and capture apply to anonymous callers only.
	if identity == "" {
		if awaitingName(history) {
			name := captureName(question)
			answer := fmt.Sprintf("Nice to meet you, %s! Ask me about any event - what's on, when, where, who's organizing.", name)
			return answer, nil, nil
		}
		if len(history) == 0 {
			return NameRequest, nil, nil
		}
	}

	// Fixed intents bypass retrieval and generation entirely.
	switch intent := DetectIntent(question); intent {
	case IntentGreeting:
		return greetingFor(userName), nil, nil
	case IntentHelp:
		return msgHelp, nil, nil
	case IntentListEvents, IntentListLatest:
		events, err := e.store.ListEvents(ctx, e.limit*2, intent == IntentListLatest)
		if err != nil {
			return "", nil, fmt.Errorf("list events: %w", err)
		}
		if len(events) == 0 {
			return msgNoEvents, nil, nil
		}
		answer := "Here are the events I know about:\n" + itemizeEvents(events, len(events))
		return answer, events, nil
	}

	// Follow-up turns skip retrieval and never attach sources.
	if IsFollowUp(question, history) {
		e.logger.Debug("classified as follow-up", "question", question)
		answer, err := e.generate(ctx, BuildHistoryContext(history, userName), question)
		if err == nil {
			return answer, nil, nil
		}
		e.logger.Warn("generation failed on follow-up, extracting from history", "error", err)
		if extracted, ok := ExtractFromHistory(question, history); ok {
			return extracted, nil, nil
		}
		return msgFollowUpMiss, nil, nil
	}

	// Fresh query: embed best-effort, retrieve, merge, rank.
	embedding := e.embedQuery(ctx, question)
	vector, keyword := e.retrieveTimed(ctx, question, embedding)
	sources := MergeCandidates(vector, keyword, e.limit)

	answer, err := e.generate(ctx, BuildGenerationContext(sources, history, userName), question)
	if err == nil {
		return answer, sources, nil
	}
	e.logger.Warn("generation failed on fresh query", "error", err, "sources", len(sources))

	if len(sources) > 0 {
		return "Here's what I found:\n" + itemizeEvents(sources, 3), sources, nil
	}
	return msgNothingFound, nil, nil
}

// degrade is the outer failure net: salvage fetched sources if any,
// otherwise fall back to the standard search.
func (e *Engine) degrade(ctx context.Context, question string, sources []models.Event) models.ChatResponse {
	if len(sources) > 0 {
		return models.ChatResponse{
			Answer:  msgDegraded + "\n" + itemizeEvents(sources, 3),
			Sources: sources,
		}
	}
	resp, err := e.PerformStandardSearch(ctx, question)
	if err != nil {
		e.logger.Error("standard search fallback failed", "error", err)
		return models.ChatResponse{Answer: msgNothingFound, Sources: []models.Event{}}
	}
	return resp
}

// embedQuery produces a query vector best-effort. Any failure, including an
// absent embedder, yields nil and the fresh query continues keyword-only.
func (e *Engine) embedQuery(ctx context.Context, question string) []float32 {
	if e.embedder == nil {
		return nil
	}
	start := time.Now()
	embedding, err := e.embedder.Embed(ctx, question)
	e.metrics.RecordTiming(metrics.OpEmbedding, time.Since(start))
	if err != nil {
		e.logger.Warn("embedding failed, continuing keyword-only", "error", err)
		return nil
	}
	return embedding
}

func (e *Engine) retrieveTimed(ctx context.Context, question string, embedding []float32) (vector, keyword []models.Event) {
	if len(embedding) > 0 {
		start := time.Now()
		vector = e.retriever.RetrieveVector(ctx, embedding, e.limit)
		e.metrics.RecordTiming(metrics.OpVectorSearch, time.Since(start))
	}
	start := time.Now()
	keyword = e.retriever.RetrieveKeyword(ctx, question, e.limit)
	e.metrics.RecordTiming(metrics.OpKeywordSearch, time.Since(start))
	return vector, keyword
}

// generate invokes the completion service. An absent model is a typed
// failure like any other, so the layered fallbacks apply.
func (e *Engine) generate(ctx context.Context, systemPrompt, question string) (string, error) {
	if e.model == nil {
		return "", fmt.Errorf("no generation model configured")
	}
	start := time.Now()
	answer, err := e.model.GenerateWithSystem(ctx, systemPrompt, question)
	e.metrics.RecordTiming(metrics.OpGeneration, time.Since(start))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("empty generation response")
	}
	return answer, nil
}

// itemizeEvents renders up to max records as a terse numbered list.
func itemizeEvents(events []models.Event, max int) string {
	if max > len(events) {
		max = len(events)
	}
	var b strings.Builder
	for i := 0; i < max; i++ {
		ev := events[i]
		name := ev.Name()
		if name == "" {
			name = "(unnamed event)"
		}
		fmt.Fprintf(&b, "%d. %s", i+1, name)
		if models.HasField(ev.Details.Date) {
			fmt.Fprintf(&b, " - %s", strings.TrimSpace(ev.Details.Date))
		}
		if models.HasField(ev.Details.Location) {
			fmt.Fprintf(&b, " at %s", strings.TrimSpace(ev.Details.Location))
		}
		if i < max-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func greetingFor(userName string) string {
	if userName != "" {
		return fmt.Sprintf("Hello %s! Ask me about upcoming events - dates, venues, organizers, tickets, anything.", userName)
	}
	return msgGreeting
}

// awaitingName reports whether the immediately preceding assistant turn was
// the name-request sentinel (positional inference, see NameRequest).
func awaitingName(history []models.ChatTurn) bool {
	if len(history) == 0 {
		return false
	}
	last := history[len(history)-1]
	return last.Role == models.RoleAssistant && strings.TrimSpace(last.Content) == NameRequest
}

// selfIntro strips leading self-introduction phrases from a name response.
var selfIntro = regexp.MustCompile(`(?i)^(my name is|i am|i'm|im|it's|its|this is|call me|you can call me)\s+`)

// captureName extracts a short display name from a name-gate response:
// strip the self-introduction prefix, keep at most 3 words.
func captureName(input string) string {
	name := selfIntro.ReplaceAllString(strings.TrimSpace(input), "")
	name = strings.Trim(name, ".,!?\"' ")
	words := strings.Fields(name)
	if len(words) > 3 {
		words = words[:3]
	}
	if len(words) == 0 {
		return "there"
	}
	return strings.Join(words, " ")
}

// acknowledgment is the shape of the name-capture reply; callerName reads
// the captured name back out of history on later turns.
var acknowledgment = regexp.MustCompile(`^Nice to meet you, (.+?)!`)

// callerName resolves the personalization name: the supplied identity, or
// a name previously captured in this conversation.
func callerName(identity string, history []models.ChatTurn) string {
	if identity != "" {
		return identity
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != models.RoleAssistant {
			continue
		}
		if groups := acknowledgment.FindStringSubmatch(history[i].Content); groups != nil {
			return groups[1]
		}
	}
	return ""
}

func ensureEvents(events []models.Event) []models.Event {
	if events == nil {
		return []models.Event{}
	}
	return events
}
