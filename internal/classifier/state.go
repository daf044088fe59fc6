package classifier

// Phase is the lifecycle position of the classifier
type Phase string

const (
	PhaseStopped  Phase = "stopped"
	PhaseStarting Phase = "starting"
	PhaseRunning  Phase = "running"
	PhaseError    Phase = "error"
)

// State is the current phase plus, when running, the selected model.
// An empty Model while running means no model could be selected.
type State struct {
	Phase Phase  `json:"phase" yaml:"phase"`
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
}

// Running reports whether inference may be attempted
func (s State) Running() bool {
	return s.Phase == PhaseRunning
}

func stopped() State { return State{Phase: PhaseStopped} }

func starting() State { return State{Phase: PhaseStarting} }

func running(model string) State { return State{Phase: PhaseRunning, Model: model} }

func failed() State { return State{Phase: PhaseError} }

// Status is a point-in-time view of the backend as seen by the classifier
type Status struct {
	Phase     Phase    `json:"phase" yaml:"phase"`
	Backend   string   `json:"backend" yaml:"backend"`
	Available bool     `json:"available" yaml:"available"`
	Model     string   `json:"model,omitempty" yaml:"model,omitempty"`
	Models    []string `json:"models" yaml:"models"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}
