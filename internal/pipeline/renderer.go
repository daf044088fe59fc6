package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/jdsort/internal/model"
)

// Output formats
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
	FormatTable    = "table"
)

// FormatFromPath picks an output format from a file extension
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatJSON
	}
}

// EncodeStructure writes a structure as JSON or YAML
func EncodeStructure(w io.Writer, structure *model.Structure, format string) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(structure); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(structure); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported structure format: %s", format)
	}
}

// DecodeStructure parses a structure exported as JSON or YAML
func DecodeStructure(data []byte, format string) (*model.Structure, error) {
	var structure model.Structure
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &structure); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &structure); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported structure format: %s", format)
	}
	return &structure, nil
}

// ReadStructureFile loads an exported structure, choosing the decoder by extension
func ReadStructureFile(path string) (*model.Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read structure file: %w", err)
	}
	format := FormatFromPath(path)
	if format == FormatMarkdown {
		return nil, fmt.Errorf("cannot import markdown: %s", path)
	}
	return DecodeStructure(data, format)
}

// Renderer renders structures and validation reports
type Renderer struct {
	out      io.Writer
	colorize bool
}

// NewRenderer creates a renderer writing terminal output to out.
// Status text is colored only when out is a terminal.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out, colorize: isTerminal(out)}
}

// WriteStructureFile writes a structure to path in the format implied by its extension
func (r *Renderer) WriteStructureFile(structure *model.Structure, report *model.ValidationReport, path string) error {
	var buf bytes.Buffer
	if format := FormatFromPath(path); format == FormatMarkdown {
		buf.WriteString(RenderMarkdown(structure, report))
	} else if err := EncodeStructure(&buf, structure, format); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown renders a structure outline, followed by the report when given
func RenderMarkdown(structure *model.Structure, report *model.ValidationReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", structure.Name)
	fmt.Fprintf(&b, "- **ID:** `%s`\n", structure.ID)
	fmt.Fprintf(&b, "- **Root:** `%s`\n", structure.RootPath)
	fmt.Fprintf(&b, "- **Files:** %d\n\n", structure.FileCount())

	for _, area := range structure.Areas {
		fmt.Fprintf(&b, "## %d %s\n\n", area.Number, area.Name)
		if area.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", area.Description)
		}
		for _, category := range area.Categories {
			fmt.Fprintf(&b, "### %d %s\n\n", category.Number, category.Name)
			for _, item := range category.Items {
				fmt.Fprintf(&b, "- **%s** %s (%d files)\n", item.Number, item.Name, len(item.Files))
			}
			b.WriteString("\n")
		}
	}

	if report != nil {
		b.WriteString("## Validation\n\n")
		if report.IsValid {
			b.WriteString("Structure is valid.\n\n")
		} else {
			b.WriteString("Structure is **invalid**.\n\n")
		}
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "- ❌ `%s` %s\n", e.Kind, e.Message)
		}
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "- ⚠️ `%s` %s", w.Kind, w.Message)
			if w.Suggestion != "" {
				fmt.Fprintf(&b, " (%s)", w.Suggestion)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderStructure prints one row per category
func (r *Renderer) RenderStructure(structure *model.Structure) {
	tw := r.newTable()
	tw.SetTitle("%s (%s)", structure.Name, structure.ID)
	tw.AppendHeader(table.Row{"Area", "Category", "Items", "Files"})
	for _, area := range structure.Areas {
		if len(area.Categories) == 0 {
			tw.AppendRow(table.Row{area.Name, "-", 0, 0})
			continue
		}
		for _, category := range area.Categories {
			files := 0
			for _, item := range category.Items {
				files += len(item.Files)
			}
			tw.AppendRow(table.Row{area.Name, fmt.Sprintf("%d %s", category.Number, category.Name), len(category.Items), files})
		}
	}
	tw.AppendFooter(table.Row{"", "Total", "", structure.FileCount()})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	fmt.Fprintln(r.out, tw.Render())
}

// RenderReport prints the validation outcome and every error and warning
func (r *Renderer) RenderReport(report model.ValidationReport) {
	status := "VALID"
	color := text.FgGreen
	if !report.IsValid {
		status = "INVALID"
		color = text.FgRed
	}
	fmt.Fprintf(r.out, "Validation: %s (%d errors, %d warnings)\n",
		r.paint(status, color), len(report.Errors), len(report.Warnings))

	if len(report.Errors) == 0 && len(report.Warnings) == 0 {
		return
	}

	tw := r.newTable()
	tw.AppendHeader(table.Row{"Severity", "Kind", "Message", "Suggestion"})
	for _, e := range report.Errors {
		tw.AppendRow(table.Row{r.paint("error", text.FgRed), e.Kind, e.Message, ""})
	}
	for _, w := range report.Warnings {
		tw.AppendRow(table.Row{r.paint("warning", text.FgYellow), w.Kind, w.Message, w.Suggestion})
	}
	fmt.Fprintln(r.out, tw.Render())
}

// RenderSummary prints the structure and report of an organize run
func (r *Renderer) RenderSummary(result *OrganizeResult) {
	if result.Scan != nil {
		fmt.Fprintf(r.out, "Scanned %s: %d files, %d directories, %d excluded, %d skipped in %s\n",
			result.Scan.Root, len(result.Scan.Files), result.Scan.Directories,
			result.Scan.Excluded, result.Scan.Skipped, result.Scan.Duration.Round(time.Millisecond))
	}
	r.RenderStructure(result.Structure)
	r.RenderReport(result.Report)
	if result.Persisted {
		fmt.Fprintf(r.out, "Saved structure %s\n", result.Structure.ID)
	}
}

func (r *Renderer) newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

func (r *Renderer) paint(s string, color text.Color) string {
	if !r.colorize {
		return s
	}
	return color.Sprint(s)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
