package chat

import (
	"reflect"
	"testing"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/avramelo/eventscout-go/internal/models"
)

func testEvent(id string, details models.EventDetails) models.Event {
	return models.Event{
		ID:      surrealmodels.RecordID{Table: "event", ID: id},
		Details: details,
	}
}

// score 85: name + date + location + time
func goodEvent(id, name string) models.Event {
	return testEvent(id, models.EventDetails{
		Name: name, Date: "June 2", Location: "Town Hall", Time: "7pm",
	})
}

func names(events []models.Event) []string {
	var out []string
	for _, ev := range events {
		out = append(out, ev.Name())
	}
	return out
}

func TestMergeCandidatesVectorFirstUnion(t *testing.T) {
	vector := []models.Event{goodEvent("v1", "Jazz Night"), goodEvent("v2", "Night Market")}
	keyword := []models.Event{goodEvent("k1", "Book Fair")}

	got := MergeCandidates(vector, keyword, 5)

	// All score equally; stable sort keeps vector results first.
	want := []string{"Jazz Night", "Night Market", "Book Fair"}
	if !reflect.DeepEqual(names(got), want) {
		t.Errorf("merged order = %v, want %v", names(got), want)
	}
}

func TestMergeCandidatesDeduplicatesByID(t *testing.T) {
	ev := goodEvent("e1", "Jazz Night")
	got := MergeCandidates([]models.Event{ev}, []models.Event{ev}, 5)

	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
}

func TestMergeCandidatesDeduplicatesByNormalizedName(t *testing.T) {
	vector := []models.Event{goodEvent("e1", "Jazz Night!")}
	keyword := []models.Event{goodEvent("e2", "jazz night")}

	got := MergeCandidates(vector, keyword, 5)

	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if id := models.EventID(got[0]); id != "e1" {
		t.Errorf("kept id = %q, want first occurrence e1", id)
	}
}

func TestMergeCandidatesLowQualityFirstOccurrenceShadowsDuplicates(t *testing.T) {
	// Same name twice: the first occurrence is too weak to survive the
	// score floor, but it still reserves the name, so the later duplicate
	// must not surface either.
	weak := testEvent("e1", models.EventDetails{Name: "Jazz Night"})
	strong := goodEvent("e2", "Jazz Night")

	got := MergeCandidates([]models.Event{weak}, []models.Event{strong}, 5)

	if len(got) != 0 {
		t.Errorf("got %v, want empty result", names(got))
	}
}

func TestMergeCandidatesRanksByScoreDescending(t *testing.T) {
	partial := testEvent("p1", models.EventDetails{Name: "Night Market", Date: "June 2"}) // 55
	full := eventWith(fullDetails())                                                      // 100
	full.ID = surrealmodels.RecordID{Table: "event", ID: "f1"}

	got := MergeCandidates([]models.Event{partial}, []models.Event{full}, 5)

	want := []string{"Jazz Night", "Night Market"}
	if !reflect.DeepEqual(names(got), want) {
		t.Errorf("ranked order = %v, want %v", names(got), want)
	}
}

func TestMergeCandidatesTruncatesToLimit(t *testing.T) {
	var vector []models.Event
	for _, id := range []string{"a", "b", "c", "d"} {
		vector = append(vector, goodEvent(id, "Event "+id))
	}

	got := MergeCandidates(vector, nil, 2)
	if len(got) != 2 {
		t.Errorf("got %d events, want 2", len(got))
	}
}

func TestMergeCandidatesRelaxedTierOnlyWhenStrictEmpty(t *testing.T) {
	// Score 40: name + time - passes the relaxed floor only.
	medium := testEvent("m1", models.EventDetails{Name: "Book Fair", Time: "9am"})

	got := MergeCandidates([]models.Event{medium}, nil, 5)
	if len(got) != 1 {
		t.Fatalf("relaxed tier should admit the record, got %d", len(got))
	}

	// Once anything passes the strict tier, relaxed-only records are gone.
	strong := goodEvent("s1", "Jazz Night")
	got = MergeCandidates([]models.Event{medium, strong}, nil, 5)

	want := []string{"Jazz Night"}
	if !reflect.DeepEqual(names(got), want) {
		t.Errorf("got %v, want %v", names(got), want)
	}
}

func TestMergeCandidatesNoiseNames(t *testing.T) {
	noise := goodEvent("n1", "the") // high score but fragment name
	acronym := goodEvent("a1", "MIT")

	got := MergeCandidates([]models.Event{noise, acronym}, nil, 5)

	want := []string{"MIT"}
	if !reflect.DeepEqual(names(got), want) {
		t.Errorf("got %v, want %v", names(got), want)
	}
}

func TestMergeCandidatesEmptyInput(t *testing.T) {
	got := MergeCandidates(nil, nil, 5)
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want non-nil empty slice", got)
	}
}

func TestMergeCandidatesIdempotent(t *testing.T) {
	vector := []models.Event{goodEvent("v1", "Jazz Night"), goodEvent("v2", "Night Market")}
	keyword := []models.Event{goodEvent("k1", "Book Fair")}

	first := MergeCandidates(vector, keyword, 5)
	second := MergeCandidates(first, nil, 5)

	if !reflect.DeepEqual(names(first), names(second)) {
		t.Errorf("re-merging changed results: %v vs %v", names(first), names(second))
	}
}
