package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/jdsort/internal/extract"
	"github.com/ppiankov/jdsort/internal/pipeline"
)

var (
	buildName    string
	buildOut     string
	buildNoSave  bool
	buildTimeout time.Duration
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build <dir>",
	Short: "Build and validate a structure from a directory",
	Long: `Build enumerates a directory, groups its files into areas and
categories through the extension table, validates the result and saves it
to the database.

--out writes the structure to a file; the format follows the extension
(.json, .yaml/.yml, or .md for a readable outline with the validation report).

Example:
  jdsort build ~/Downloads
  jdsort build ~/Downloads --name Downloads --out downloads.yaml
  jdsort build ~/Projects --no-save --out projects.md`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildName, "name", "", "structure name (default: AI Generated Structure)")
	buildCmd.Flags().StringVar(&buildOut, "out", "", "write the structure to this file (.json, .yaml, .md)")
	buildCmd.Flags().BoolVar(&buildNoSave, "no-save", false, "do not save the structure to the database")
	buildCmd.Flags().DurationVar(&buildTimeout, "timeout", 10*time.Minute, "overall timeout")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), buildTimeout)
	defer cancel()

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return err
	}

	options := []pipeline.Option{pipeline.WithLogger(logger)}
	if !buildNoSave {
		options = append(options, pipeline.WithSaver(s))
	}
	p := pipeline.NewPipeline(extract.OptionsFromSettings(settings), options...)

	result, err := p.Organize(ctx, args[0], buildName)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	out := cmd.OutOrStdout()
	renderer := pipeline.NewRenderer(out)
	if buildOut != "" {
		if err := renderer.WriteStructureFile(result.Structure, &result.Report, buildOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", buildOut)
	}

	if handled, err := printValue(out, result); handled {
		return err
	}
	renderer.RenderSummary(result)
	return nil
}
