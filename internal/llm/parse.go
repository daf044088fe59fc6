package llm

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/taxonomy"
)

// Reply parsing defaults
const (
	DefaultConfidence   = 0.5
	DefaultReasoning    = "AI analysis"
	HeuristicConfidence = 0.6
	HeuristicReasoning  = "Parsed from AI text response"
	HeuristicTag        = "ai-parsed"
)

// ExtractJSON returns the substring between the first '{' and the last '}'
func ExtractJSON(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// ParseSuggestion turns a raw model reply into a suggestion. Replies that
// carry a JSON object are read field by field with defaults for missing or
// mistyped fields; anything else goes through a keyword heuristic.
func ParseSuggestion(raw string) model.ClassificationSuggestion {
	if obj, ok := ExtractJSON(raw); ok && gjson.Valid(obj) {
		if parsed := gjson.Parse(obj); parsed.IsObject() {
			return fromJSON(parsed)
		}
	}
	return heuristic(raw)
}

func fromJSON(doc gjson.Result) model.ClassificationSuggestion {
	suggestion := model.ClassificationSuggestion{
		Category:     taxonomy.MiscellaneousLabel,
		Confidence:   DefaultConfidence,
		Reasoning:    DefaultReasoning,
		Alternatives: stringArray(doc.Get("alternatives")),
		Tags:         stringArray(doc.Get("tags")),
		Source:       model.SourceInference,
	}

	if v := doc.Get("category"); v.Type == gjson.String {
		suggestion.Category = v.Str
	}
	if v := doc.Get("confidence"); v.Type == gjson.Number {
		suggestion.Confidence = clamp(v.Float())
	}
	if v := doc.Get("reasoning"); v.Type == gjson.String {
		suggestion.Reasoning = v.Str
	}

	return suggestion
}

// heuristic scans free text for a hint of documents or media
func heuristic(raw string) model.ClassificationSuggestion {
	lower := strings.ToLower(raw)

	category := taxonomy.MiscellaneousLabel
	switch {
	case strings.Contains(lower, "document"):
		category = taxonomy.TextDocumentsLabel
	case strings.Contains(lower, "media"), strings.Contains(lower, "image"):
		category = taxonomy.ImagesLabel
	}

	return model.ClassificationSuggestion{
		Category:     category,
		Confidence:   HeuristicConfidence,
		Reasoning:    HeuristicReasoning,
		Alternatives: []string{},
		Tags:         []string{HeuristicTag},
		Source:       model.SourceHeuristic,
	}
}

// stringArray keeps only the string elements of a JSON array
func stringArray(v gjson.Result) []string {
	out := []string{}
	if !v.IsArray() {
		return out
	}
	for _, elem := range v.Array() {
		if elem.Type == gjson.String {
			out = append(out, elem.Str)
		}
	}
	return out
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
