package score

import (
	"testing"

	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/taxonomy"
)

func outcome(ext string, source model.SuggestionSource, label string, confidence float64) Outcome {
	return Outcome{
		File: model.FileDescriptor{
			Path:      "/inbox/file." + ext,
			Name:      "file." + ext,
			Extension: ext,
		},
		Suggestion: model.ClassificationSuggestion{
			Category:   label,
			Confidence: confidence,
			Source:     source,
		},
	}
}

func findSignal(signals []model.Signal, typ model.SignalType) (model.Signal, bool) {
	for _, s := range signals {
		if s.Type == typ {
			return s, true
		}
	}
	return model.Signal{}, false
}

func TestScorer_Calculate_AllInferenceAgreeing(t *testing.T) {
	scorer := NewScorer()

	var outcomes []Outcome
	for _, ext := range []string{"pdf", "docx", "png", "go"} {
		outcomes = append(outcomes, outcome(ext, model.SourceInference, taxonomy.LabelFor(ext), 0.9))
	}

	score := scorer.Calculate(outcomes)

	// 40 coverage + 27 confidence + 20 specificity + 10 agreement
	if score.Index != 97 {
		t.Errorf("expected index 97, got %d", score.Index)
	}
	if score.Confidence != "high" {
		t.Errorf("expected confidence high, got %s", score.Confidence)
	}
	if score.Sources.Inference != 4 || score.Sources.Rules != 0 {
		t.Errorf("unexpected sources: %+v", score.Sources)
	}
	if score.Files != 4 {
		t.Errorf("expected 4 files, got %d", score.Files)
	}
	if len(score.Signals) != 4 {
		t.Errorf("expected 4 signals, got %d", len(score.Signals))
	}
}

func TestScorer_Calculate_RulesOnly(t *testing.T) {
	scorer := NewScorer()

	var outcomes []Outcome
	for _, ext := range []string{"pdf", "xlsx", "mp3"} {
		outcomes = append(outcomes, outcome(ext, model.SourceRules, taxonomy.LabelFor(ext), 0.6))
	}

	score := scorer.Calculate(outcomes)

	// 0 coverage + 18 confidence + 20 specificity + 10 agreement
	if score.Index != 48 {
		t.Errorf("expected index 48, got %d", score.Index)
	}
	if score.Confidence != "low" {
		t.Errorf("expected confidence low, got %s", score.Confidence)
	}

	coverage, ok := findSignal(score.Signals, model.SignalInferenceCoverage)
	if !ok {
		t.Fatal("expected inference coverage signal")
	}
	if coverage.Severity != model.SeverityCritical {
		t.Errorf("expected critical coverage, got %s", coverage.Severity)
	}

	agreement, _ := findSignal(score.Signals, model.SignalRuleAgreement)
	if agreement.Data["compared"] != 0 {
		t.Errorf("rule answers should not be compared, got %v", agreement.Data["compared"])
	}
}

func TestScorer_Calculate_Disagreement(t *testing.T) {
	scorer := NewScorer()

	outcomes := []Outcome{
		outcome("pdf", model.SourceInference, taxonomy.ImagesLabel, 0.8),
		outcome("png", model.SourceInference, taxonomy.ImagesLabel, 0.8),
	}

	score := scorer.Calculate(outcomes)

	agreement, ok := findSignal(score.Signals, model.SignalRuleAgreement)
	if !ok {
		t.Fatal("expected rule agreement signal")
	}
	if agreement.Data["agreed"] != 1 || agreement.Data["compared"] != 2 {
		t.Errorf("unexpected agreement data: %v", agreement.Data)
	}
	if agreement.Data["score"] != 5 {
		t.Errorf("expected agreement score 5, got %v", agreement.Data["score"])
	}

	// Fewer than 3 files is never better than low
	if score.Confidence != "low" {
		t.Errorf("expected confidence low, got %s", score.Confidence)
	}
}

func TestScorer_Calculate_Miscellaneous(t *testing.T) {
	scorer := NewScorer()

	outcomes := []Outcome{
		outcome("xyz", model.SourceHeuristic, taxonomy.MiscellaneousLabel, 0.3),
		outcome("abc", model.SourceHeuristic, taxonomy.MiscellaneousLabel, 0.3),
		outcome("txt", model.SourceHeuristic, taxonomy.TextDocumentsLabel, 0.3),
	}

	score := scorer.Calculate(outcomes)

	specificity, ok := findSignal(score.Signals, model.SignalSpecificity)
	if !ok {
		t.Fatal("expected specificity signal")
	}
	if specificity.Data["miscellaneous"] != 2 {
		t.Errorf("expected 2 miscellaneous, got %v", specificity.Data["miscellaneous"])
	}
	if specificity.Severity != model.SeverityWarning {
		t.Errorf("expected warning severity, got %s", specificity.Severity)
	}

	coverage, _ := findSignal(score.Signals, model.SignalInferenceCoverage)
	if coverage.Severity != model.SeverityWarning {
		t.Errorf("heuristic-only coverage should warn, got %s", coverage.Severity)
	}
}

func TestScorer_Calculate_FailurePenalty(t *testing.T) {
	scorer := NewScorer()

	outcomes := []Outcome{
		outcome("pdf", model.SourceInference, taxonomy.LabelFor("pdf"), 1.0),
		outcome("png", model.SourceInference, taxonomy.LabelFor("png"), 1.0),
		outcome("go", model.SourceInference, taxonomy.LabelFor("go"), 1.0),
		{File: model.FileDescriptor{Path: "/inbox/broken"}, Failed: true},
	}

	score := scorer.Calculate(outcomes)

	// 100 minus the failure penalty
	if score.Index != 90 {
		t.Errorf("expected index 90, got %d", score.Index)
	}
	if score.Confidence != "low-medium" {
		t.Errorf("expected confidence low-medium, got %s", score.Confidence)
	}
	if score.Sources.Failed != 1 {
		t.Errorf("expected 1 failure, got %d", score.Sources.Failed)
	}
	failures, ok := findSignal(score.Signals, model.SignalFailures)
	if !ok {
		t.Fatal("expected failures signal")
	}
	if failures.Severity != model.SeverityCritical {
		t.Errorf("expected critical severity, got %s", failures.Severity)
	}
}

func TestScorer_Calculate_Empty(t *testing.T) {
	score := NewScorer().Calculate(nil)

	if score.Index != 10 {
		t.Errorf("expected index 10, got %d", score.Index)
	}
	if score.Confidence != "low" {
		t.Errorf("expected confidence low, got %s", score.Confidence)
	}
}
