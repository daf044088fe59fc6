package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ppiankov/jdsort/internal/extract"
	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/taxonomy"
	"github.com/ppiankov/jdsort/internal/validate"
)

// StructureSaver persists built structures
type StructureSaver interface {
	SaveStructure(ctx context.Context, structure *model.Structure) error
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithSaver persists every organized structure
func WithSaver(saver StructureSaver) Option {
	return func(p *Pipeline) {
		p.saver = saver
	}
}

// WithBuilder replaces the default structure builder
func WithBuilder(builder *taxonomy.Builder) Option {
	return func(p *Pipeline) {
		if builder != nil {
			p.builder = builder
		}
	}
}

// WithLogger sets the pipeline logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline orchestrates the complete organize process
type Pipeline struct {
	enumerator *extract.Enumerator
	builder    *taxonomy.Builder
	validator  *validate.Validator
	saver      StructureSaver // Optional; nil skips persistence
	logger     *zap.Logger
}

// NewPipeline creates a pipeline that enumerates with the given options
func NewPipeline(opts extract.Options, options ...Option) *Pipeline {
	p := &Pipeline{
		builder:   taxonomy.NewBuilder(),
		validator: validate.NewValidator(),
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		opt(p)
	}
	p.enumerator = extract.NewEnumerator(opts, p.logger)
	return p
}

// OrganizeResult contains the complete organize result
type OrganizeResult struct {
	Structure *model.Structure       `json:"structure"`
	Report    model.ValidationReport `json:"report"`
	Scan      *extract.Result        `json:"scan"`
	Persisted bool                   `json:"persisted"`
}

// Organize enumerates root, builds a structure from what it finds, validates
// it and, when a saver is configured, persists it. name overrides the
// structure's default name when non-empty.
func (p *Pipeline) Organize(ctx context.Context, root, name string) (*OrganizeResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	// 1. Enumerate files
	scan, err := p.enumerator.Enumerate(ctx, absRoot)
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}

	// 2. Build structure
	structure := p.builder.Build(scan.Files, absRoot)
	if name != "" {
		structure.Name = name
	}

	// 3. Validate
	report := p.validator.Validate(structure)
	p.logger.Info("structure built",
		zap.String("root", absRoot),
		zap.Int("files", len(scan.Files)),
		zap.Int("areas", len(structure.Areas)),
		zap.Bool("valid", report.IsValid),
		zap.Int("warnings", len(report.Warnings)),
	)

	result := &OrganizeResult{
		Structure: &structure,
		Report:    report,
		Scan:      scan,
	}

	// 4. Persist
	if p.saver != nil {
		if err := p.saver.SaveStructure(ctx, result.Structure); err != nil {
			return nil, fmt.Errorf("save structure: %w", err)
		}
		result.Persisted = true
		p.logger.Info("structure saved", zap.String("id", structure.ID))
	}

	return result, nil
}
