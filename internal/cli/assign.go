package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/jdsort/internal/assign"
	"github.com/ppiankov/jdsort/internal/extract"
	"github.com/ppiankov/jdsort/internal/model"
)

var (
	assignStructure string
	assignNoSave    bool
	assignSuggest   bool
	assignTimeout   time.Duration
)

// assignCmd represents the assign command
var assignCmd = &cobra.Command{
	Use:   "assign <file>...",
	Short: "Place files into a stored structure",
	Long: `Assign finds the category in a stored structure that matches each
file's extension and records the placement. Files with no matching
category go to 91 (miscellaneous) with lower confidence.

With --suggest the inference backend is also asked for a suggestion,
which is shown next to the placement.

Example:
  jdsort assign report.pdf --structure 2b7f4c1e-5d7a-4bb0-9a62-0d5f8f0f6c11
  jdsort assign *.jpg --structure <id> --suggest --no-save`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAssign,
}

func init() {
	rootCmd.AddCommand(assignCmd)

	assignCmd.Flags().StringVar(&assignStructure, "structure", "", "ID of the stored structure")
	assignCmd.Flags().BoolVar(&assignNoSave, "no-save", false, "do not record the assignments")
	assignCmd.Flags().BoolVar(&assignSuggest, "suggest", false, "also ask the inference backend for a suggestion")
	assignCmd.Flags().DurationVar(&assignTimeout, "timeout", 2*time.Minute, "overall timeout")
	_ = assignCmd.MarkFlagRequired("structure")
}

type assignedFile struct {
	File       model.FileDescriptor            `json:"file" yaml:"file"`
	Assignment model.Assignment                `json:"assignment" yaml:"assignment"`
	Suggestion *model.ClassificationSuggestion `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

func runAssign(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), assignTimeout)
	defer cancel()

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	structure, err := s.LoadStructure(ctx, assignStructure)
	if err != nil {
		return err
	}

	classify := func(model.FileDescriptor) *model.ClassificationSuggestion { return nil }
	if assignSuggest {
		c, err := startClassifier(ctx)
		if err != nil {
			return err
		}
		defer c.Stop()
		classify = func(file model.FileDescriptor) *model.ClassificationSuggestion {
			suggestion := c.Classify(ctx, file)
			return &suggestion
		}
	}

	var results []assignedFile
	for _, path := range args {
		file, err := extract.Describe(path)
		if err != nil {
			logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
			continue
		}
		assignment := assign.Assign(file, *structure)
		if !assignNoSave {
			if err := s.SaveAssignment(ctx, structure.ID, file.Path, assignment); err != nil {
				return err
			}
		}
		results = append(results, assignedFile{File: file, Assignment: assignment, Suggestion: classify(file)})
	}
	if len(results) == 0 {
		return fmt.Errorf("no readable files")
	}

	out := cmd.OutOrStdout()
	if handled, err := printValue(out, results); handled {
		return err
	}

	tw := newTable(out)
	header := table.Row{"File", "Area", "Category", "Item", "Confidence"}
	if assignSuggest {
		header = append(header, "Suggested")
	}
	tw.AppendHeader(header)
	for _, r := range results {
		row := table.Row{r.File.Name, r.Assignment.AreaNumber, r.Assignment.CategoryNumber, r.Assignment.ItemNumber,
			fmt.Sprintf("%.2f", r.Assignment.Confidence)}
		if r.Suggestion != nil {
			row = append(row, r.Suggestion.Category)
		}
		tw.AppendRow(row)
	}
	tw.Render()

	if cfg.Output.Verbose {
		for _, r := range results {
			fmt.Fprintf(out, "%s: %s\n", r.File.Name, r.Assignment.Reasoning)
		}
	}
	return nil
}
