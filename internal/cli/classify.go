package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/jdsort/internal/extract"
	"github.com/ppiankov/jdsort/internal/model"
)

var classifyTimeout time.Duration

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <file>...",
	Short: "Suggest a category for one or more files",
	Long: `Classify asks the inference backend where each file belongs.

The backend is started if needed (local Ollama only). When it cannot be
reached, or a request fails, the extension table is used instead and the
suggestion is marked with source "rules".

Example:
  jdsort classify ~/Downloads/report.pdf
  jdsort classify *.png -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().DurationVar(&classifyTimeout, "timeout", 2*time.Minute, "overall timeout")
}

type classifiedFile struct {
	File       model.FileDescriptor           `json:"file" yaml:"file"`
	Suggestion model.ClassificationSuggestion `json:"suggestion" yaml:"suggestion"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), classifyTimeout)
	defer cancel()

	c, err := startClassifier(ctx)
	if err != nil {
		return err
	}
	defer c.Stop()

	var results []classifiedFile
	for _, path := range args {
		file, err := extract.Describe(path)
		if err != nil {
			logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
			continue
		}
		results = append(results, classifiedFile{File: file, Suggestion: c.Classify(ctx, file)})
	}
	if len(results) == 0 {
		return fmt.Errorf("no readable files")
	}

	out := cmd.OutOrStdout()
	if handled, err := printValue(out, results); handled {
		return err
	}

	tw := newTable(out)
	tw.AppendHeader(table.Row{"File", "Category", "Confidence", "Source", "Tags"})
	for _, r := range results {
		tw.AppendRow(table.Row{
			r.File.Name,
			r.Suggestion.Category,
			fmt.Sprintf("%.2f", r.Suggestion.Confidence),
			sourceLabel(r.Suggestion),
			strings.Join(r.Suggestion.Tags, ", "),
		})
	}
	tw.Render()

	if cfg.Output.Verbose {
		for _, r := range results {
			fmt.Fprintf(out, "%s: %s\n", r.File.Name, r.Suggestion.Reasoning)
		}
	}
	return nil
}

func sourceLabel(s model.ClassificationSuggestion) string {
	if s.Model != "" {
		return fmt.Sprintf("%s (%s)", s.Source, s.Model)
	}
	return string(s.Source)
}
