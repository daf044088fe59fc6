package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/pipeline"
	"github.com/ppiankov/jdsort/internal/validate"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <structure-id|file>",
	Short: "Check a structure against the numbering rules",
	Long: `Validate reports numbering errors (invalid or duplicate area and
category numbers) and quality warnings (item numbering gaps, oversized
categories, empty areas).

The argument is a stored structure ID or an exported .json/.yaml file.
The command fails when the structure has errors; warnings never fail it.

Example:
  jdsort validate 2b7f4c1e-5d7a-4bb0-9a62-0d5f8f0f6c11
  jdsort validate downloads.yaml -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	structure, err := resolveStructure(cmd, args[0])
	if err != nil {
		return err
	}

	report := validate.Validate(*structure)

	out := cmd.OutOrStdout()
	if handled, err := printValue(out, report); handled {
		if err != nil {
			return err
		}
	} else {
		pipeline.NewRenderer(out).RenderReport(report)
	}

	if !report.IsValid {
		return fmt.Errorf("structure %q has %d errors", structure.Name, len(report.Errors))
	}
	return nil
}

// resolveStructure loads a structure from a file path, or by ID from the store
func resolveStructure(cmd *cobra.Command, ref string) (*model.Structure, error) {
	if isFile(ref) {
		return pipeline.ReadStructureFile(ref)
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Close() }()
	return s.LoadStructure(cmd.Context(), ref)
}
