package llm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/taxonomy"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{`{"a":1}`, `{"a":1}`, true},
		{`Sure! {"a":{"b":2}} hope this helps`, `{"a":{"b":2}}`, true},
		{`{"a":1} and {"b":2}`, `{"a":1} and {"b":2}`, true},
		{`no braces`, ``, false},
		{`} backwards {`, ``, false},
	}

	for _, tt := range tests {
		got, ok := ExtractJSON(tt.raw)
		require.Equal(t, tt.ok, ok, tt.raw)
		require.Equal(t, tt.want, got, tt.raw)
	}
}

func TestParseSuggestion_FullObject(t *testing.T) {
	raw := `Here you go:
{
  "category": "20-29 Documents/Reports and Documents",
  "confidence": 0.92,
  "reasoning": "PDF report",
  "alternatives": ["20-29 Documents/Text Documents", 3, null],
  "tags": ["pdf", true, "report"]
}
Let me know if you need anything else.`

	got := ParseSuggestion(raw)

	require.Equal(t, model.ClassificationSuggestion{
		Category:     "20-29 Documents/Reports and Documents",
		Confidence:   0.92,
		Reasoning:    "PDF report",
		Alternatives: []string{"20-29 Documents/Text Documents"},
		Tags:         []string{"pdf", "report"},
		Source:       model.SourceInference,
	}, got)
}

func TestParseSuggestion_Defaults(t *testing.T) {
	got := ParseSuggestion(`{"category": 42, "confidence": "high", "tags": "nope"}`)

	require.Equal(t, taxonomy.MiscellaneousLabel, got.Category)
	require.Equal(t, DefaultConfidence, got.Confidence)
	require.Equal(t, DefaultReasoning, got.Reasoning)
	require.Empty(t, got.Alternatives)
	require.NotNil(t, got.Alternatives)
	require.Empty(t, got.Tags)
	require.Equal(t, model.SourceInference, got.Source)
}

func TestParseSuggestion_ClampsConfidence(t *testing.T) {
	require.Equal(t, 1.0, ParseSuggestion(`{"confidence": 7}`).Confidence)
	require.Equal(t, 0.0, ParseSuggestion(`{"confidence": -0.3}`).Confidence)
}

func TestParseSuggestion_Heuristic(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"documents", "This looks like one of your Documents.", taxonomy.TextDocumentsLabel},
		{"document wins over image", "a document with an image", taxonomy.TextDocumentsLabel},
		{"media", "Probably media content", taxonomy.ImagesLabel},
		{"images", "Images folder", taxonomy.ImagesLabel},
		{"nothing", "I cannot tell", taxonomy.MiscellaneousLabel},
		{"broken json", `{"category": "Documents/x",`, taxonomy.TextDocumentsLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSuggestion(tt.raw)
			require.Equal(t, tt.want, got.Category)
			require.Equal(t, HeuristicConfidence, got.Confidence)
			require.Equal(t, HeuristicReasoning, got.Reasoning)
			require.Equal(t, []string{HeuristicTag}, got.Tags)
			require.Equal(t, model.SourceHeuristic, got.Source)
		})
	}
}
