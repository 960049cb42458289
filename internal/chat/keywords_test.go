package chat

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "typical question",
			query: "When is the jazz festival happening?",
			want:  []string{"jazz", "festival"},
		},
		{
			name:  "punctuation and case",
			query: "JAZZ, festival! (downtown)",
			want:  []string{"jazz", "festival", "downtown"},
		},
		{
			name:  "short tokens dropped",
			query: "is it at 5k run",
			want:  []string{"run"},
		},
		{
			name:  "duplicates collapse to first occurrence",
			query: "market market night market",
			want:  []string{"market", "night"},
		},
		{
			name:  "stop-words only yields nil",
			query: "what events are happening",
			want:  nil,
		},
		{
			name:  "empty query",
			query: "",
			want:  nil,
		},
		{
			name:  "numbers survive",
			query: "events on june 14th 2026",
			want:  []string{"june", "14th", "2026"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractKeywords(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
