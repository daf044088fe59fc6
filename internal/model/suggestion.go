package model

// SuggestionSource records which path produced a suggestion
type SuggestionSource string

const (
	SourceInference SuggestionSource = "inference" // Structured reply from the backend
	SourceHeuristic SuggestionSource = "heuristic" // Keyword scan of an unstructured reply
	SourceRules     SuggestionSource = "rules"     // Deterministic extension table
)

// ClassificationSuggestion is a proposed placement independent of any structure
type ClassificationSuggestion struct {
	Category     string           `json:"category" yaml:"category"`     // "area name/category name"
	Confidence   float64          `json:"confidence" yaml:"confidence"` // 0.0 - 1.0
	Reasoning    string           `json:"reasoning" yaml:"reasoning"`
	Alternatives []string         `json:"alternatives" yaml:"alternatives"`
	Tags         []string         `json:"tags" yaml:"tags"`
	Source       SuggestionSource `json:"source,omitempty" yaml:"source,omitempty"`
	Model        string           `json:"model,omitempty" yaml:"model,omitempty"`
}

// Assignment is the resolved placement of one file inside an existing structure
type Assignment struct {
	AreaNumber     int     `json:"area_number" yaml:"area_number"`
	CategoryNumber int     `json:"category_number" yaml:"category_number"`
	ItemNumber     string  `json:"item_number" yaml:"item_number"`
	Confidence     float64 `json:"confidence" yaml:"confidence"`
	Reasoning      string  `json:"reasoning" yaml:"reasoning"`
}
