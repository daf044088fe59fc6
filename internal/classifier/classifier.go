// Package classifier suggests a category for a single file, preferring an
// inference backend and falling back to the extension table whenever the
// backend is not running or a request fails.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/jdsort/internal/cache"
	"github.com/ppiankov/jdsort/internal/llm"
	"github.com/ppiankov/jdsort/internal/model"
)

// ErrStartup is returned by Start when the backend cannot be reached
var ErrStartup = errors.New("inference backend failed to start")

// Limiter throttles outbound requests per key
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// Config controls lifecycle timing and model selection
type Config struct {
	// DefaultModel is selected on start when the backend offers it
	DefaultModel string

	// GracePeriod is how long to wait after launching before probing again
	GracePeriod time.Duration

	// ProbeTimeout bounds each reachability probe and model listing
	ProbeTimeout time.Duration

	// ClassifyTimeout bounds a single inference request
	ClassifyTimeout time.Duration

	// MaxTokens limits the length of each reply
	MaxTokens int
}

// DefaultConfig returns the stock timings
func DefaultConfig() Config {
	return Config{
		DefaultModel:    llm.DefaultModel("ollama"),
		GracePeriod:     3 * time.Second,
		ProbeTimeout:    5 * time.Second,
		ClassifyTimeout: 30 * time.Second,
		MaxTokens:       500,
	}
}

// ConfigFromModel builds a classifier config from application config
func ConfigFromModel(cfg *model.Config) Config {
	out := DefaultConfig()
	out.DefaultModel = cfg.LLM.Model
	if out.DefaultModel == "" {
		out.DefaultModel = llm.DefaultModel(cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTokens > 0 {
		out.MaxTokens = cfg.LLM.MaxTokens
	}
	if cfg.Classifier.GracePeriod > 0 {
		out.GracePeriod = cfg.Classifier.GracePeriod
	}
	if cfg.Classifier.ProbeTimeout > 0 {
		out.ProbeTimeout = cfg.Classifier.ProbeTimeout
	}
	if cfg.Classifier.ClassifyTimeout > 0 {
		out.ClassifyTimeout = cfg.Classifier.ClassifyTimeout
	}
	return out
}

// Option customizes a Classifier
type Option func(*Classifier)

// WithLauncher sets how the backend process is started
func WithLauncher(l Launcher) Option {
	return func(c *Classifier) { c.launcher = l }
}

// WithCache enables suggestion caching
func WithCache(sc *cache.SuggestionCache) Option {
	return func(c *Classifier) { c.cache = sc }
}

// WithLimiter throttles inference requests, keyed by backend name
func WithLimiter(l Limiter) Option {
	return func(c *Classifier) { c.limiter = l }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// withSleep replaces the grace-period wait (tests)
func withSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Classifier) { c.sleep = sleep }
}

// Classifier owns the lifecycle state of one inference backend.
//
// Start and Stop are serialized; Classify may run concurrently with
// everything and reads a consistent snapshot of the state.
type Classifier struct {
	backend  llm.Backend
	launcher Launcher
	cache    *cache.SuggestionCache
	limiter  Limiter
	logger   *zap.Logger
	config   Config
	sleep    func(context.Context, time.Duration) error

	lifecycle sync.Mutex
	mu        sync.RWMutex
	state     State
}

// New creates a stopped classifier for backend. Zero timeouts take the
// stock values.
func New(backend llm.Backend, config Config, opts ...Option) *Classifier {
	defaults := DefaultConfig()
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = defaults.ProbeTimeout
	}
	if config.ClassifyTimeout <= 0 {
		config.ClassifyTimeout = defaults.ClassifyTimeout
	}

	c := &Classifier{
		backend:  backend,
		launcher: NoLauncher{},
		cache:    cache.NewSuggestionCache(nil, 0),
		logger:   zap.NewNop(),
		config:   config,
		sleep:    sleepContext,
		state:    stopped(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the lifecycle state
func (c *Classifier) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Classifier) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Start brings the backend to Running. A reachable backend is used as is;
// otherwise the launcher is invoked, the grace period awaited and the
// backend probed once more. Failure leaves the classifier in PhaseError and
// returns an error wrapping ErrStartup.
func (c *Classifier) Start(ctx context.Context) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.setState(starting())

	if err := c.probe(ctx); err == nil {
		c.logger.Info("inference backend already reachable", zap.String("backend", c.backend.Name()))
		c.setState(running(c.selectModel(ctx)))
		return nil
	}

	c.logger.Info("launching inference backend", zap.String("backend", c.backend.Name()))
	if err := c.launcher.Launch(ctx); err != nil {
		c.setState(failed())
		return fmt.Errorf("%w: launch: %v", ErrStartup, err)
	}

	if err := c.sleep(ctx, c.config.GracePeriod); err != nil {
		c.setState(failed())
		return fmt.Errorf("%w: %v", ErrStartup, err)
	}

	if err := c.probe(ctx); err != nil {
		c.setState(failed())
		return fmt.Errorf("%w: %s not reachable after %s: %v",
			ErrStartup, c.backend.Name(), c.config.GracePeriod, err)
	}

	c.setState(running(c.selectModel(ctx)))
	c.logger.Info("inference backend started", zap.String("backend", c.backend.Name()))
	return nil
}

// Stop moves to PhaseStopped and clears the selected model. Idempotent.
func (c *Classifier) Stop() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.State().Phase != PhaseStopped {
		c.logger.Info("classifier stopped", zap.String("backend", c.backend.Name()))
	}
	c.setState(stopped())
}

// Status reports availability. While running it asks the backend for its
// models; a failed query yields an error-flavored status but leaves the
// lifecycle state alone.
func (c *Classifier) Status(ctx context.Context) Status {
	st := c.State()
	status := Status{
		Phase:   st.Phase,
		Backend: c.backend.Name(),
		Models:  []string{},
	}

	if !st.Running() {
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.ProbeTimeout)
	defer cancel()

	models, err := c.backend.ListModels(ctx)
	if err != nil {
		status.Phase = PhaseError
		status.Error = err.Error()
		return status
	}

	status.Available = true
	status.Model = st.Model
	status.Models = models
	return status
}

// Classify returns a suggestion for file. It never fails: any state other
// than running with a selected model, and any inference error, yields the
// rule-based suggestion.
func (c *Classifier) Classify(ctx context.Context, file model.FileDescriptor) model.ClassificationSuggestion {
	st := c.State()
	if !st.Running() || st.Model == "" {
		return RuleSuggestion(file)
	}

	backend := c.backend.Name()
	if s, ok := c.cache.Get(backend, st.Model, file); ok {
		c.logger.Debug("suggestion cache hit", zap.String("file", file.Name))
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.ClassifyTimeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, backend); err != nil {
			c.logger.Warn("rate limiter refused request, using rule-based fallback",
				zap.String("file", file.Name), zap.Error(err))
			return RuleSuggestion(file)
		}
	}

	req := llm.NewClassificationRequest(file, st.Model)
	req.MaxTokens = c.config.MaxTokens

	resp, err := c.backend.Generate(ctx, req)
	if err != nil {
		c.logger.Warn("inference failed, using rule-based fallback",
			zap.String("backend", backend),
			zap.String("file", file.Name),
			zap.Error(err))
		return RuleSuggestion(file)
	}

	suggestion := llm.ParseSuggestion(resp.Text)
	suggestion.Model = st.Model

	if err := c.cache.Put(backend, st.Model, file, suggestion); err != nil {
		c.logger.Debug("suggestion cache write failed", zap.Error(err))
	}

	return suggestion
}

func (c *Classifier) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ProbeTimeout)
	defer cancel()
	return c.backend.Probe(ctx)
}

// selectModel picks the configured default when the backend lists it,
// preferring an exact name over one that merely contains it, otherwise the
// first listed model. Failures are logged and leave the classifier running
// without a model.
func (c *Classifier) selectModel(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, c.config.ProbeTimeout)
	defer cancel()

	models, err := c.backend.ListModels(ctx)
	if err != nil {
		c.logger.Warn("could not list models", zap.String("backend", c.backend.Name()), zap.Error(err))
		return ""
	}

	want := c.config.DefaultModel
	if want != "" {
		for _, m := range models {
			if m == want {
				return m
			}
		}
		for _, m := range models {
			if strings.Contains(m, want) {
				return m
			}
		}

		c.logger.Warn("default model not available",
			zap.String("model", want), zap.Strings("available", models))
	}
	if len(models) > 0 {
		return models[0]
	}
	return ""
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
