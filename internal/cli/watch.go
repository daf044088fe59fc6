package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/jdsort/internal/watch"
)

var (
	watchStructure string
	watchSchedule  string
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <inbox>",
	Short: "Assign files as they appear in an inbox directory",
	Long: `Watch classifies every file created in the inbox, places it into the
stored structure and records the assignment. Only one watcher may hold an
inbox at a time.

--schedule takes a cron expression (or @every/@daily descriptors) on which
the structure is re-validated and any problems are logged.

Example:
  jdsort watch ~/Downloads --structure <id>
  jdsort watch ~/Inbox --structure <id> --schedule "0 9 * * *"`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchStructure, "structure", "", "ID of the stored structure")
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "cron schedule for re-validation (optional)")
	_ = watchCmd.MarkFlagRequired("structure")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	c, err := startClassifier(ctx)
	if err != nil {
		return err
	}
	defer c.Stop()

	w, err := watch.New(watch.Config{
		Inbox:       args[0],
		StructureID: watchStructure,
		Schedule:    watchSchedule,
	}, c, s, watch.WithLogger(logger))
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
