package pipeline

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/taxonomy"
	"github.com/ppiankov/jdsort/internal/validate"
)

func sampleStructure() *model.Structure {
	s := fixedBuilder().Build([]model.FileDescriptor{
		{Path: "/in/a.pdf", Name: "a.pdf", Extension: "pdf"},
		{Path: "/in/b.csv", Name: "b.csv", Extension: "csv"},
		{Path: "/in/c.png", Name: "c.png", Extension: "png"},
	}, "/in")
	return &s
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"out.yaml":     FormatYAML,
		"out.YML":      FormatYAML,
		"out.md":       FormatMarkdown,
		"out.json":     FormatJSON,
		"out":          FormatJSON,
		"dir.yaml/out": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestEncodeDecodeStructure(t *testing.T) {
	original := sampleStructure()

	for _, format := range []string{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		if err := EncodeStructure(&buf, original, format); err != nil {
			t.Fatalf("%s encode: %v", format, err)
		}
		decoded, err := DecodeStructure(buf.Bytes(), format)
		if err != nil {
			t.Fatalf("%s decode: %v", format, err)
		}
		if diff := cmp.Diff(original, decoded, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s round trip mismatch (-want +got):\n%s", format, diff)
		}
	}

	if err := EncodeStructure(&bytes.Buffer{}, original, "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestWriteAndReadStructureFile(t *testing.T) {
	dir := t.TempDir()
	structure := sampleStructure()
	report := validate.Validate(*structure)
	r := NewRenderer(&bytes.Buffer{})

	for _, name := range []string{"s.json", "nested/s.yaml"} {
		path := filepath.Join(dir, name)
		if err := r.WriteStructureFile(structure, &report, path); err != nil {
			t.Fatalf("WriteStructureFile(%s): %v", name, err)
		}
		loaded, err := ReadStructureFile(path)
		if err != nil {
			t.Fatalf("ReadStructureFile(%s): %v", name, err)
		}
		if loaded.ID != structure.ID || !loaded.CreatedAt.Equal(structure.CreatedAt) {
			t.Errorf("%s: loaded %q created %v", name, loaded.ID, loaded.CreatedAt)
		}
	}

	mdPath := filepath.Join(dir, "s.md")
	if err := r.WriteStructureFile(structure, &report, mdPath); err != nil {
		t.Fatalf("WriteStructureFile(md): %v", err)
	}
	if _, err := ReadStructureFile(mdPath); err == nil {
		t.Error("markdown should not be importable")
	}
}

func TestRenderMarkdown(t *testing.T) {
	structure := sampleStructure()
	report := model.ValidationReport{
		IsValid:  false,
		Errors:   []model.ValidationError{{Kind: model.ErrDuplicateAreaNumber, Message: "Area number 20 is used multiple times"}},
		Warnings: []model.ValidationWarning{{Kind: model.WarnEmptyArea, Message: "Area 90 has no categories", Suggestion: "Consider removing empty areas or adding categories"}},
	}

	md := RenderMarkdown(structure, &report)

	for _, want := range []string{
		"# " + taxonomy.DefaultStructureName,
		"- **Files:** 3",
		"## 20 20-29 Documents",
		"### 21 ",
		"**21.01**",
		"## 30 30-39 Media",
		"Structure is **invalid**.",
		"`duplicate_area_number` Area number 20 is used multiple times",
		"(Consider removing empty areas or adding categories)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}

	if strings.Contains(RenderMarkdown(structure, nil), "## Validation") {
		t.Error("validation section should be omitted without a report")
	}
}

func TestRenderSummary(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out)
	structure := sampleStructure()

	r.RenderSummary(&OrganizeResult{
		Structure: structure,
		Report:    validate.Validate(*structure),
		Persisted: true,
	})

	got := out.String()
	for _, want := range []string{"Validation: VALID (0 errors, 0 warnings)", "Saved structure fixed-id", "30-39 Media"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "\x1b[") {
		t.Error("output to a buffer should not be colorized")
	}
}

func TestRenderReportListsFindings(t *testing.T) {
	var out bytes.Buffer
	NewRenderer(&out).RenderReport(model.ValidationReport{
		Errors:   []model.ValidationError{{Kind: model.ErrInvalidAreaNumber, Message: "Area number 15 is invalid. Must be 10, 20, 30, ..., 90"}},
		Warnings: []model.ValidationWarning{},
	})

	got := out.String()
	if !strings.Contains(got, "INVALID (1 errors, 0 warnings)") || !strings.Contains(got, "invalid_area_number") {
		t.Errorf("unexpected report output:\n%s", got)
	}
}
