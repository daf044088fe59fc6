package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ppiankov/jdsort/internal/pipeline"
	"github.com/ppiankov/jdsort/internal/store"
	"github.com/ppiankov/jdsort/internal/validate"
)

var (
	exportOut    string
	importForce  bool
	showMarkdown bool
)

// structureCmd represents the structure command
var structureCmd = &cobra.Command{
	Use:     "structure",
	Aliases: []string{"structures"},
	Short:   "Manage stored structures",
}

var structureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored structures, most recently modified first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		summaries, err := s.ListStructures(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if handled, err := printValue(out, summaries); handled {
			return err
		}
		if len(summaries) == 0 {
			fmt.Fprintln(out, "No structures stored. Create one with 'jdsort build <dir>'.")
			return nil
		}

		tw := newTable(out)
		tw.AppendHeader(table.Row{"ID", "Name", "Root", "Modified"})
		for _, summary := range summaries {
			tw.AppendRow(table.Row{summary.ID, summary.Name, summary.RootPath, summary.ModifiedAt.Local().Format("2006-01-02 15:04")})
		}
		tw.Render()
		return nil
	},
}

var structureShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		structure, err := s.LoadStructure(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if handled, err := printValue(out, structure); handled {
			return err
		}
		report := validate.Validate(*structure)
		if showMarkdown {
			fmt.Fprint(out, pipeline.RenderMarkdown(structure, &report))
			return nil
		}
		renderer := pipeline.NewRenderer(out)
		renderer.RenderStructure(structure)
		renderer.RenderReport(report)
		return nil
	},
}

var structureExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a stored structure as JSON, YAML or Markdown",
	Long: `Export writes a stored structure to --out, choosing the format from the
file extension. Without --out the structure is written to stdout as JSON
(or YAML with -o yaml).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		structure, err := s.LoadStructure(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if exportOut == "" {
			format := pipeline.FormatJSON
			if outputFormat() == "yaml" {
				format = pipeline.FormatYAML
			}
			return pipeline.EncodeStructure(cmd.OutOrStdout(), structure, format)
		}

		report := validate.Validate(*structure)
		if err := pipeline.NewRenderer(cmd.OutOrStdout()).WriteStructureFile(structure, &report, exportOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %s to %s\n", structure.ID, exportOut)
		return nil
	},
}

var structureImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a structure from a JSON or YAML export",
	Long: `Import reads an exported structure, validates it and stores it under
its own ID (a new ID is generated when it has none). Structures with
validation errors are rejected unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		structure, err := pipeline.ReadStructureFile(args[0])
		if err != nil {
			return err
		}

		report := validate.Validate(*structure)
		if !report.IsValid && !importForce {
			pipeline.NewRenderer(cmd.ErrOrStderr()).RenderReport(report)
			return fmt.Errorf("refusing to import invalid structure (use --force)")
		}

		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if err := s.SaveStructure(cmd.Context(), structure); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %q as %s\n", structure.Name, structure.ID)
		return nil
	},
}

var structureDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored structure and its assignments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if err := s.DeleteStructure(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
		return nil
	},
}

var structureAssignmentsCmd = &cobra.Command{
	Use:   "assignments <id>",
	Short: "List the files recorded against a stored structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		// Fail on unknown IDs rather than printing an empty list
		if _, err := s.LoadStructure(cmd.Context(), args[0]); err != nil {
			return err
		}
		records, err := s.ListAssignments(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if handled, err := printValue(out, records); handled {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "No files assigned yet.")
			return nil
		}
		renderAssignments(out, records)
		return nil
	},
}

// whereCmd looks up the recorded placement of files
var whereCmd = &cobra.Command{
	Use:   "where <file>...",
	Short: "Show where files were assigned",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		var records []store.AssignmentRecord
		for _, arg := range args {
			path, err := filepath.Abs(arg)
			if err != nil {
				return err
			}
			record, err := s.LoadAssignment(cmd.Context(), path)
			if errors.Is(err, store.ErrNotFound) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: not assigned\n", arg)
				continue
			}
			if err != nil {
				return err
			}
			records = append(records, *record)
		}

		out := cmd.OutOrStdout()
		if handled, err := printValue(out, records); handled {
			return err
		}
		if len(records) > 0 {
			renderAssignments(out, records)
		}
		return nil
	},
}

func renderAssignments(out io.Writer, records []store.AssignmentRecord) {
	tw := newTable(out)
	tw.AppendHeader(table.Row{"File", "Item", "Confidence", "Structure", "Assigned"})
	for _, r := range records {
		tw.AppendRow(table.Row{r.FilePath, r.Assignment.ItemNumber, fmt.Sprintf("%.2f", r.Assignment.Confidence),
			r.StructureID, r.AssignedAt.Local().Format("2006-01-02 15:04")})
	}
	tw.Render()
}

func init() {
	rootCmd.AddCommand(structureCmd)
	rootCmd.AddCommand(whereCmd)
	structureCmd.AddCommand(structureAssignmentsCmd)
	structureCmd.AddCommand(structureListCmd)
	structureCmd.AddCommand(structureShowCmd)
	structureCmd.AddCommand(structureExportCmd)
	structureCmd.AddCommand(structureImportCmd)
	structureCmd.AddCommand(structureDeleteCmd)

	structureShowCmd.Flags().BoolVar(&showMarkdown, "markdown", false, "print a Markdown outline")
	structureExportCmd.Flags().StringVar(&exportOut, "out", "", "output file (.json, .yaml, .md)")
	structureImportCmd.Flags().BoolVar(&importForce, "force", false, "import even if validation fails")
}

// isFile reports whether path names an existing regular file
func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
