package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/jdsort/internal/cache"
	"github.com/ppiankov/jdsort/internal/classifier"
	"github.com/ppiankov/jdsort/internal/llm"
	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/store"
	"github.com/ppiankov/jdsort/internal/util"
	"github.com/ppiankov/jdsort/internal/worker"
)

// backendConfig returns cfg with the inference backend resolved: config and
// JDSORT_* env first, then the stored ai_provider/ai_model settings, then
// the provider's stock model
func backendConfig(ctx context.Context) *model.Config {
	settings, err := loadSettings(ctx)
	if err != nil {
		logger.Warn("could not read stored settings, using defaults", zap.Error(err))
		settings = model.DefaultSettings()
	}

	resolved := *cfg
	resolved.LLM = resolveLLM(cfg.LLM, settings)
	logger.Debug("inference backend resolved",
		zap.String("provider", resolved.LLM.Provider),
		zap.String("model", resolved.LLM.Model))
	return &resolved
}

func resolveLLM(c model.LLMConfig, settings model.Settings) model.LLMConfig {
	if c.Provider == "" {
		c.Provider = settings.AIProvider
	}
	if c.Provider == "" {
		c.Provider = "ollama"
	}
	// A stored model only applies to the provider it was stored for
	if c.Model == "" && strings.EqualFold(c.Provider, settings.AIProvider) {
		c.Model = settings.AIModel
	}
	if c.Model == "" {
		c.Model = llm.DefaultModel(c.Provider)
	}
	applyProviderEnv(&c)
	return c
}

// newClassifier wires the resolved backend, launcher, cache and rate limiter
func newClassifier(ctx context.Context) (*classifier.Classifier, error) {
	resolved := backendConfig(ctx)
	backend, err := llm.NewBackend(llm.ConfigFromModel(resolved.LLM))
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	opts := []classifier.Option{
		classifier.WithLogger(logger),
		classifier.WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)),
	}

	// Only a local Ollama server can be launched on demand
	if backend.Name() == "ollama" && cfg.Classifier.LaunchCommand != "" {
		opts = append(opts, classifier.WithLauncher(&classifier.ProcessLauncher{
			Command: cfg.Classifier.LaunchCommand,
			Args:    cfg.Classifier.LaunchArgs,
			Logger:  logger,
		}))
	}

	if cfg.Cache.Enabled {
		dir, err := util.ExpandHome(cfg.Cache.Dir)
		if err != nil {
			return nil, err
		}
		layered := cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
		opts = append(opts, classifier.WithCache(cache.NewSuggestionCache(layered, cfg.Cache.DiskTTL)))
	}

	return classifier.New(backend, classifier.ConfigFromModel(resolved), opts...), nil
}

// startClassifier starts the backend, falling back to rules when it is unavailable
func startClassifier(ctx context.Context) (*classifier.Classifier, error) {
	c, err := newClassifier(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Start(ctx); err != nil {
		logger.Warn("inference backend unavailable, classifying with rules", zap.Error(err))
	}
	return c, nil
}

// openStore opens the configured database
func openStore(ctx context.Context) (*store.Store, error) {
	path, err := util.ExpandHome(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

// outputFormat returns the configured output format, defaulting to table
func outputFormat() string {
	format := strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if format == "" {
		return "table"
	}
	return format
}

// printValue writes v as JSON or YAML. It reports false for table output so
// the caller can render its own table.
func printValue(w io.Writer, v any) (bool, error) {
	switch outputFormat() {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	case "table":
		return false, nil
	default:
		return true, fmt.Errorf("unknown output format %q (want table, json or yaml)", cfg.Output.Format)
	}
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	return tw
}
