package chat

import (
	"regexp"
	"sort"
	"strings"

	"github.com/avramelo/eventscout-go/internal/models"
)

// noiseAcronym exempts 3+ letter all-caps names from the strict noise filter.
var noiseAcronym = regexp.MustCompile(`^[A-Z]{3,}$`)

// qualityTier is one (score floor, noise filter) step of the filtering
// policy. Tiers are applied in order until one yields results.
type qualityTier struct {
	minScore int
	isNoise  func(name string) bool
}

// qualityTiers: the strict tier first; the relaxed tier only runs when the
// strict one filters everything out. A single relaxation, not iterative.
var qualityTiers = []qualityTier{
	{minScore: 50, isNoise: strictNoiseName},
	{minScore: 40, isNoise: relaxedNoiseName},
}

// strictNoiseName rejects names of length <= 3 unless they are clean
// uppercase acronyms ("THE" is noise, "MIT" is not).
func strictNoiseName(name string) bool {
	return len(name) <= 3 && !noiseAcronym.MatchString(name)
}

// relaxedNoiseName rejects only names of length <= 2.
func relaxedNoiseName(name string) bool {
	return len(name) <= 2
}

// normalizeName lowers and strips non-alphanumerics so near-identical names
// ("Jazz Night!" / "jazz night") collapse to one key.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MergeCandidates unions the vector and keyword candidate sets (vector
// first), removes duplicate ids and duplicate normalized names, drops noise
// names, applies the quality-tier filter, ranks by quality score descending
// (stable, so input order breaks ties) and truncates to limit.
//
// Returns an empty slice when nothing survives; low-quality records are
// never substituted silently.
func MergeCandidates(vector, keyword []models.Event, limit int) []models.Event {
	union := make([]models.Event, 0, len(vector)+len(keyword))
	union = append(union, vector...)
	union = append(union, keyword...)

	for _, tier := range qualityTiers {
		if survivors := applyTier(union, tier); len(survivors) > 0 {
			if len(survivors) > limit {
				survivors = survivors[:limit]
			}
			return survivors
		}
	}
	return []models.Event{}
}

// applyTier runs dedup, the tier's noise filter and score floor over the
// union, returning survivors ranked by score. Dedup reserves ids and names
// before the score floor runs, so a low-quality first occurrence still
// shadows later duplicates.
func applyTier(union []models.Event, tier qualityTier) []models.Event {
	seenIDs := make(map[string]struct{}, len(union))
	seenNames := make(map[string]struct{}, len(union))

	var deduped []models.Event
	for _, ev := range union {
		id := models.EventID(ev)
		if _, dup := seenIDs[id]; dup {
			continue
		}
		seenIDs[id] = struct{}{}

		name := ev.Name()
		norm := normalizeName(name)
		if norm != "" {
			// Distinct ids sharing a name are duplicates of the same event.
			if _, dup := seenNames[norm]; dup {
				continue
			}
			seenNames[norm] = struct{}{}
		}
		if tier.isNoise(name) {
			continue
		}
		deduped = append(deduped, ev)
	}

	type scored struct {
		event models.Event
		score int
	}
	var kept []scored
	for _, ev := range deduped {
		if score := QualityScore(ev); score >= tier.minScore {
			kept = append(kept, scored{event: ev, score: score})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})

	out := make([]models.Event, len(kept))
	for i, s := range kept {
		out[i] = s.event
	}
	return out
}
