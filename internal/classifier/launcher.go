package classifier

import (
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Launcher starts the process that serves the inference backend
type Launcher interface {
	Launch(ctx context.Context) error
}

// ProcessLauncher spawns a detached command such as "ollama serve".
// The child outlives the launch call; its exit is only logged.
type ProcessLauncher struct {
	Command string
	Args    []string
	Logger  *zap.Logger
}

// Launch starts the command without waiting for it to finish
func (l *ProcessLauncher) Launch(ctx context.Context) error {
	if l.Command == "" {
		return fmt.Errorf("no launch command configured")
	}

	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Not bound to ctx: the server must survive the start call.
	cmd := exec.Command(l.Command, l.Args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn %s: %w", l.Command, err)
	}

	logger.Info("launched inference backend",
		zap.String("command", l.Command),
		zap.Strings("args", l.Args),
		zap.Int("pid", cmd.Process.Pid))

	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Warn("inference backend exited", zap.String("command", l.Command), zap.Error(err))
			return
		}
		logger.Info("inference backend exited", zap.String("command", l.Command))
	}()

	return nil
}

// NoLauncher refuses to launch anything; used for hosted backends
type NoLauncher struct{}

// Launch always fails
func (NoLauncher) Launch(context.Context) error {
	return fmt.Errorf("backend cannot be launched locally")
}
