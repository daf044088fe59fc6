package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/jdsort/internal/classifier"
	"github.com/ppiankov/jdsort/internal/llm"
)

var backendTimeout time.Duration

// backendCmd represents the backend command
var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Inspect and start the inference backend",
	Long: `Inspect and start the configured inference backend. The provider and
model come from llm.provider and llm.model, falling back to the stored
ai_provider and ai_model settings, then to the provider's default model.

A local Ollama server is launched with classifier.launch_command when it
is not already running. Hosted providers are only probed.`,
}

var backendStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the backend and select a model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), backendTimeout)
		defer cancel()

		c, err := newClassifier(ctx)
		if err != nil {
			return err
		}
		startErr := c.Start(ctx)
		if err := printStatus(cmd, c.Status(ctx), startErr); err != nil {
			return err
		}
		return startErr
	},
}

var backendStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the backend is reachable and which models it offers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), backendTimeout)
		defer cancel()

		resolved := backendConfig(ctx)
		backend, err := llm.NewBackend(llm.ConfigFromModel(resolved.LLM))
		if err != nil {
			return fmt.Errorf("create backend: %w", err)
		}
		// Without a launcher Start only probes
		c := classifier.New(backend, classifier.ConfigFromModel(resolved), classifier.WithLogger(logger))
		startErr := c.Start(ctx)
		return printStatus(cmd, c.Status(ctx), startErr)
	},
}

func init() {
	rootCmd.AddCommand(backendCmd)
	backendCmd.AddCommand(backendStartCmd)
	backendCmd.AddCommand(backendStatusCmd)

	backendCmd.PersistentFlags().DurationVar(&backendTimeout, "timeout", time.Minute, "timeout for probing and starting")
}

func printStatus(cmd *cobra.Command, status classifier.Status, startErr error) error {
	if startErr != nil && status.Error == "" {
		status.Error = startErr.Error()
	}

	out := cmd.OutOrStdout()
	if handled, err := printValue(out, status); handled {
		return err
	}

	fmt.Fprintf(out, "Backend:   %s\n", status.Backend)
	fmt.Fprintf(out, "State:     %s\n", status.Phase)
	fmt.Fprintf(out, "Available: %v\n", status.Available)
	if status.Model != "" {
		fmt.Fprintf(out, "Model:     %s\n", status.Model)
	}
	if len(status.Models) > 0 {
		fmt.Fprintf(out, "Models:    %s\n", strings.Join(status.Models, ", "))
	}
	if status.Error != "" {
		fmt.Fprintf(out, "Error:     %s\n", status.Error)
	}
	return nil
}
