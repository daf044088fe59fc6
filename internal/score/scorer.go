package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/taxonomy"
)

// Outcome is one file's classification result
type Outcome struct {
	File       model.FileDescriptor
	Suggestion model.ClassificationSuggestion
	Failed     bool
}

// Scorer calculates the batch quality index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate scores a batch of outcomes and generates diagnostic signals
func (s *Scorer) Calculate(outcomes []Outcome) model.BatchScore {
	var (
		signals   []model.Signal
		sources   model.Sources
		succeeded []Outcome
	)

	for _, o := range outcomes {
		if o.Failed {
			sources.Failed++
			continue
		}
		succeeded = append(succeeded, o)
		switch o.Suggestion.Source {
		case model.SourceInference:
			sources.Inference++
		case model.SourceHeuristic:
			sources.Heuristic++
		default:
			sources.Rules++
		}
	}

	// 1. Inference coverage (0-40 points)
	coverageScore, coverageSignal := s.calculateCoverage(sources, len(succeeded))
	signals = append(signals, coverageSignal)

	// 2. Mean confidence (0-30 points)
	confidenceScore, confidenceSignal := s.calculateConfidence(succeeded)
	signals = append(signals, confidenceSignal)

	// 3. Specificity (0-20 points)
	specificityScore, specificitySignal := s.calculateSpecificity(succeeded)
	signals = append(signals, specificitySignal)

	// 4. Rule agreement (0-10 points)
	agreementScore, agreementSignal := s.calculateAgreement(succeeded)
	signals = append(signals, agreementSignal)

	total := coverageScore + confidenceScore + specificityScore + agreementScore

	// 5. Failures (penalty)
	if sources.Failed > 0 {
		total -= 10
		if total < 0 {
			total = 0
		}
		signals = append(signals, model.Signal{
			Type:        model.SignalFailures,
			Severity:    model.SeverityCritical,
			Description: fmt.Sprintf("%d of %d files could not be classified", sources.Failed, len(outcomes)),
			Data: map[string]any{
				"failed":  sources.Failed,
				"files":   len(outcomes),
				"penalty": 10,
			},
		})
	}

	return model.BatchScore{
		Index:      total,
		Confidence: s.determineConfidence(total, len(succeeded), sources.Failed > 0),
		Files:      len(outcomes),
		Sources:    sources,
		Signals:    signals,
	}
}

// calculateCoverage scores the share of suggestions the backend produced (0-40 points)
func (s *Scorer) calculateCoverage(sources model.Sources, count int) (int, model.Signal) {
	if count == 0 {
		return 0, model.Signal{
			Type:        model.SignalInferenceCoverage,
			Severity:    model.SeverityCritical,
			Description: "No files classified",
			Data:        map[string]any{"classified": 0},
		}
	}

	answered := sources.Inference + sources.Heuristic
	ratio := float64(answered) / float64(count)
	score := int(math.Round(ratio * 40))

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if sources.Heuristic > sources.Inference {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalInferenceCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Backend answered %d of %d files (%.0f%%)", answered, count, ratio*100),
		Data: map[string]any{
			"inference": sources.Inference,
			"heuristic": sources.Heuristic,
			"rules":     sources.Rules,
			"ratio":     ratio,
			"score":     score,
			"formula":   "round((inference + heuristic) / classified * 40)",
		},
	}
}

// calculateConfidence scores the mean suggestion confidence (0-30 points)
func (s *Scorer) calculateConfidence(outcomes []Outcome) (int, model.Signal) {
	if len(outcomes) == 0 {
		return 0, model.Signal{
			Type:        model.SignalMeanConfidence,
			Severity:    model.SeverityWarning,
			Description: "No confidence data available",
			Data:        map[string]any{"classified": 0},
		}
	}

	sum := 0.0
	for _, o := range outcomes {
		sum += o.Suggestion.Confidence
	}
	mean := sum / float64(len(outcomes))
	score := int(math.Round(mean * 30))

	severity := model.SeverityInfo
	if mean < 0.5 {
		severity = model.SeverityCritical
	} else if mean < 0.7 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalMeanConfidence,
		Severity:    severity,
		Description: fmt.Sprintf("Mean confidence: %.2f", mean),
		Data: map[string]any{
			"mean":    mean,
			"score":   score,
			"formula": "round(mean_confidence * 30)",
		},
	}
}

// calculateSpecificity scores the share placed outside miscellaneous (0-20 points)
func (s *Scorer) calculateSpecificity(outcomes []Outcome) (int, model.Signal) {
	if len(outcomes) == 0 {
		return 0, model.Signal{
			Type:        model.SignalSpecificity,
			Severity:    model.SeverityWarning,
			Description: "No placements to assess",
			Data:        map[string]any{"classified": 0},
		}
	}

	misc := 0
	for _, o := range outcomes {
		if o.Suggestion.Category == taxonomy.MiscellaneousLabel {
			misc++
		}
	}
	ratio := float64(len(outcomes)-misc) / float64(len(outcomes))
	score := int(math.Round(ratio * 20))

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalSpecificity,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d files placed in miscellaneous", misc, len(outcomes)),
		Data: map[string]any{
			"miscellaneous": misc,
			"ratio":         ratio,
			"score":         score,
			"formula":       "round(non_miscellaneous / classified * 20)",
		},
	}
}

// calculateAgreement scores how often backend answers match the extension
// table for extensions the table knows (0-10 points)
func (s *Scorer) calculateAgreement(outcomes []Outcome) (int, model.Signal) {
	compared, agreed := 0, 0
	for _, o := range outcomes {
		if o.Suggestion.Source == model.SourceRules || !taxonomy.IsMapped(o.File.Extension) {
			continue
		}
		compared++
		if o.Suggestion.Category == taxonomy.LabelFor(o.File.Extension) {
			agreed++
		}
	}

	if compared == 0 {
		// Nothing to compare: rule-based answers agree by construction
		return 10, model.Signal{
			Type:        model.SignalRuleAgreement,
			Severity:    model.SeverityInfo,
			Description: "No backend answers for known extensions to compare",
			Data:        map[string]any{"compared": 0, "score": 10},
		}
	}

	ratio := float64(agreed) / float64(compared)
	score := int(math.Round(ratio * 10))

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalRuleAgreement,
		Severity:    severity,
		Description: fmt.Sprintf("Backend agreed with the extension table on %d of %d files", agreed, compared),
		Data: map[string]any{
			"compared": compared,
			"agreed":   agreed,
			"ratio":    ratio,
			"score":    score,
			"formula":  "round(agreed / compared * 10)",
		},
	}
}

// determineConfidence determines the confidence level based on the score
func (s *Scorer) determineConfidence(score int, classified int, failures bool) string {
	if failures {
		return "low-medium"
	}

	if classified < 3 {
		return "low"
	}

	if score >= 80 {
		return "high"
	} else if score >= 60 {
		return "medium"
	} else {
		return "low"
	}
}
