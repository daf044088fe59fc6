package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/jdsort/internal/extract"
	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/score"
	"github.com/ppiankov/jdsort/internal/worker"
)

var (
	concurrency  int
	listFile     bool
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Classify every file under a directory in parallel",
	Long: `Batch enumerates a directory (honouring the excluded paths, excluded
extensions and size cap from settings) and classifies the files with a
bounded worker pool. Outbound requests are rate limited per backend.

With --list the argument is a text file holding one path per line.

Example:
  jdsort batch ~/Downloads
  jdsort batch ~/Downloads --concurrency 8 -o json
  jdsort batch paths.txt --list`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().BoolVar(&listFile, "list", false, "treat the argument as a file listing paths")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
}

type batchEntry struct {
	File       model.FileDescriptor            `json:"file" yaml:"file"`
	Suggestion *model.ClassificationSuggestion `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	Error      string                          `json:"error,omitempty" yaml:"error,omitempty"`
}

type batchReport struct {
	Results []batchEntry     `json:"results" yaml:"results"`
	Score   model.BatchScore `json:"score" yaml:"score"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	files, err := batchInputs(ctx, args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No files to classify")
		return nil
	}

	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	c, err := startClassifier(ctx)
	if err != nil {
		return err
	}
	defer c.Stop()

	logger.Info("classifying batch", zap.Int("files", len(files)), zap.Int("workers", workers))
	started := time.Now()
	results := worker.NewBatchClassifier(c, workers).ClassifyAll(ctx, files)

	out := cmd.OutOrStdout()
	entries := make([]batchEntry, 0, len(results))
	outcomes := make([]score.Outcome, 0, len(results))
	for _, r := range results {
		entry := batchEntry{File: r.File}
		if r.Error != nil {
			entry.Error = r.Error.Error()
		} else {
			suggestion := r.Suggestion
			entry.Suggestion = &suggestion
		}
		entries = append(entries, entry)
		outcomes = append(outcomes, score.Outcome{File: r.File, Suggestion: r.Suggestion, Failed: r.Error != nil})
	}
	quality := score.NewScorer().Calculate(outcomes)
	logger.Debug("batch scored", zap.Int("index", quality.Index), zap.String("confidence", quality.Confidence))

	if handled, err := printValue(out, batchReport{Results: entries, Score: quality}); handled {
		return err
	}

	failures := 0
	tw := newTable(out)
	tw.AppendHeader(table.Row{"#", "File", "Category", "Confidence", "Source"})
	for i, r := range results {
		if r.Error != nil {
			failures++
			tw.AppendRow(table.Row{i + 1, r.File.Path, "error: " + r.Error.Error(), "", ""})
			continue
		}
		tw.AppendRow(table.Row{i + 1, r.File.Path, r.Suggestion.Category, fmt.Sprintf("%.2f", r.Suggestion.Confidence), sourceLabel(r.Suggestion)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	tw.Render()

	fmt.Fprintf(out, "\nQuality: %d/100 (confidence: %s)\n", quality.Index, quality.Confidence)
	for _, signal := range quality.Signals {
		if signal.Severity == model.SeverityInfo && !cfg.Output.Verbose {
			continue
		}
		fmt.Fprintf(out, "  [%s] %s\n", signal.Severity, signal.Description)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Classified %d files (%d failed) in %s\n",
		len(results)-failures, failures, time.Since(started).Round(time.Millisecond))
	return nil
}

func batchInputs(ctx context.Context, arg string) ([]model.FileDescriptor, error) {
	if listFile {
		paths, err := worker.ReadPathsFromFile(arg)
		if err != nil {
			return nil, err
		}
		files := make([]model.FileDescriptor, 0, len(paths))
		for _, path := range paths {
			file, err := extract.Describe(path)
			if err != nil {
				logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
				continue
			}
			files = append(files, file)
		}
		return files, nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory (use --list for a path list)", arg)
	}

	settings, err := loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	result, err := extract.NewEnumerator(extract.OptionsFromSettings(settings), logger).Enumerate(ctx, arg)
	if err != nil {
		return nil, err
	}
	return result.Files, nil
}
