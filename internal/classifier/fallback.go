package classifier

import (
	"fmt"

	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/taxonomy"
)

// RuleConfidence is reported for every rule-based suggestion
const RuleConfidence = 0.75

// RuleTag marks suggestions that came from the extension table
const RuleTag = "rule-based"

// RuleSuggestion classifies a file from its extension alone. It cannot fail.
func RuleSuggestion(file model.FileDescriptor) model.ClassificationSuggestion {
	ext := taxonomy.NormalizeExtension(file.Extension)
	label := taxonomy.LabelFor(ext)

	alternatives := []string{}
	if label != taxonomy.MiscellaneousLabel {
		alternatives = append(alternatives, taxonomy.MiscellaneousLabel)
	}

	tags := []string{}
	if ext != "" {
		tags = append(tags, ext)
	}
	tags = append(tags, RuleTag)

	return model.ClassificationSuggestion{
		Category:     label,
		Confidence:   RuleConfidence,
		Reasoning:    fmt.Sprintf("File categorized based on extension '%s' using rule-based fallback", ext),
		Alternatives: alternatives,
		Tags:         tags,
		Source:       model.SourceRules,
	}
}
