package model

// BatchScore summarizes how well a batch of files was classified
type BatchScore struct {
	Index      int      `json:"index" yaml:"index"`           // Overall quality index (0-100)
	Confidence string   `json:"confidence" yaml:"confidence"` // "low", "medium", "high"
	Files      int      `json:"files" yaml:"files"`
	Sources    Sources  `json:"sources" yaml:"sources"`
	Signals    []Signal `json:"signals" yaml:"signals"` // Diagnostic signals with transparent data
}

// Sources counts suggestions by the path that produced them
type Sources struct {
	Inference int `json:"inference" yaml:"inference"`
	Heuristic int `json:"heuristic" yaml:"heuristic"`
	Rules     int `json:"rules" yaml:"rules"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Signal is a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType     `json:"type" yaml:"type"`
	Severity    SignalSeverity `json:"severity" yaml:"severity"`
	Description string         `json:"description" yaml:"description"`
	Data        map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalInferenceCoverage SignalType = "inference_coverage" // Share answered by the backend
	SignalMeanConfidence    SignalType = "mean_confidence"    // Average suggestion confidence
	SignalSpecificity       SignalType = "specificity"        // Share placed outside miscellaneous
	SignalRuleAgreement     SignalType = "rule_agreement"     // Backend agrees with the extension table
	SignalFailures          SignalType = "failures"           // Files that could not be classified
)

// SignalSeverity indicates how much attention a signal needs
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
