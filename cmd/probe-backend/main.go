// Manual smoke program: probes an inference backend and classifies a few
// sample descriptors, showing which answers came from the model and which
// fell back to the extension table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/jdsort/internal/classifier"
	"github.com/ppiankov/jdsort/internal/llm"
	"github.com/ppiankov/jdsort/internal/model"
)

func main() {
	provider := flag.String("provider", "ollama", "backend provider (ollama, openai, anthropic)")
	modelName := flag.String("model", "", "model to request (default: provider default)")
	baseURL := flag.String("base-url", "", "backend base URL")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	config := llm.DefaultConfig()
	config.Provider = *provider
	config.Model = *modelName
	if *baseURL != "" {
		config.BaseURL = *baseURL
	}
	switch *provider {
	case "openai":
		config.APIKey = os.Getenv("OPENAI_API_KEY")
		config.BaseURL = *baseURL
	case "anthropic", "claude":
		config.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		config.BaseURL = *baseURL
	}

	backend, err := llm.NewBackend(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backend: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Printf("=== Probing %s ===\n\n", backend.Name())

	cc := classifier.DefaultConfig()
	cc.DefaultModel = llm.DefaultModel(*provider)
	if *modelName != "" {
		cc.DefaultModel = *modelName
	}
	c := classifier.New(backend, cc, classifier.WithLogger(logger))
	if err := c.Start(ctx); err != nil {
		fmt.Printf("  ✗ %v\n  Continuing with rule-based fallback.\n\n", err)
	}
	defer c.Stop()

	status := c.Status(ctx)
	fmt.Printf("  State:  %s\n", status.Phase)
	fmt.Printf("  Model:  %s\n", status.Model)
	fmt.Printf("  Models: %s\n\n", strings.Join(status.Models, ", "))

	samples := []model.FileDescriptor{
		{Path: "/samples/quarterly-report.pdf", Name: "quarterly-report.pdf", Extension: "pdf", Size: 482133, MimeType: "application/pdf"},
		{Path: "/samples/holiday.jpg", Name: "holiday.jpg", Extension: "jpg", Size: 2311001, MimeType: "image/jpeg"},
		{Path: "/samples/backup.tar.gz", Name: "backup.tar.gz", Extension: "gz", Size: 90210, MimeType: "application/gzip"},
		{Path: "/samples/README", Name: "README", Size: 1200},
	}

	for _, sample := range samples {
		started := time.Now()
		s := c.Classify(ctx, sample)
		fmt.Printf("%s\n", sample.Name)
		fmt.Printf("  → %s (%.2f, %s) in %s\n", s.Category, s.Confidence, s.Source, time.Since(started).Round(time.Millisecond))
		fmt.Printf("    %s\n", s.Reasoning)
		if len(s.Alternatives) > 0 {
			fmt.Printf("    alternatives: %s\n", strings.Join(s.Alternatives, "; "))
		}
	}

	fmt.Println("\n=== Probe Complete ===")
}
