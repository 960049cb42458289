package chat

import (
	"strings"
	"unicode"
)

// stopWords are dropped during keyword extraction: articles, prepositions
// and query words too generic to discriminate between events.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "was": {}, "were": {},
	"with": {}, "from": {}, "into": {}, "onto": {}, "over": {}, "under": {},
	"about": {}, "near": {}, "around": {}, "during": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "how": {},
	"can": {}, "could": {}, "will": {}, "would": {}, "should": {},
	"you": {}, "your": {}, "there": {}, "their": {}, "them": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"any": {}, "all": {}, "some": {}, "have": {}, "has": {},
	"tell": {}, "give": {}, "show": {}, "find": {}, "list": {},
	"event": {}, "events": {}, "happening": {}, "please": {},
}

// ExtractKeywords tokenizes a query into salient search terms: lowercase,
// split on whitespace and punctuation, drop tokens of length <= 2 and
// stop-words. Order follows first occurrence; duplicates are removed.
// An empty result means the caller should fall back to whole-phrase matching.
func ExtractKeywords(query string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	var keywords []string
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}
