package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/jdsort/internal/model"
)

// Classifier is the part of the classifier a batch needs
type Classifier interface {
	Classify(ctx context.Context, file model.FileDescriptor) model.ClassificationSuggestion
}

// ClassifyJob classifies one file
type ClassifyJob struct {
	Index      int
	File       model.FileDescriptor
	Classifier Classifier
}

// Execute executes the classify job
func (j *ClassifyJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &ClassifyResult{Index: j.Index, File: j.File, Error: err}
	}
	return &ClassifyResult{
		Index:      j.Index,
		File:       j.File,
		Suggestion: j.Classifier.Classify(ctx, j.File),
	}
}

// ClassifyResult pairs a file with its suggestion
type ClassifyResult struct {
	Index      int
	File       model.FileDescriptor
	Suggestion model.ClassificationSuggestion
	Error      error
}

// GetError returns the error from the classify result
func (r *ClassifyResult) GetError() error {
	return r.Error
}

// BatchClassifier classifies many files concurrently
type BatchClassifier struct {
	classifier  Classifier
	concurrency int
}

// NewBatchClassifier creates a new batch classifier
func NewBatchClassifier(classifier Classifier, concurrency int) *BatchClassifier {
	return &BatchClassifier{
		classifier:  classifier,
		concurrency: concurrency,
	}
}

// ClassifyAll classifies files and returns one result per file in input
// order. Files not reached before ctx is cancelled carry ctx's error.
func (b *BatchClassifier) ClassifyAll(ctx context.Context, files []model.FileDescriptor) []*ClassifyResult {
	if len(files) == 0 {
		return []*ClassifyResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, file := range files {
		if !pool.Submit(&ClassifyJob{Index: i, File: file, Classifier: b.classifier}) {
			break
		}
	}

	out := make([]*ClassifyResult, len(files))
	for _, r := range pool.Wait() {
		cr := r.(*ClassifyResult)
		out[cr.Index] = cr
	}
	for i := range out {
		if out[i] == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &ClassifyResult{File: files[i], Error: err}
		}
	}

	return out
}

// ReadPathsFromFile reads file paths from a list file (one per line).
// Blank lines and '#' comments are skipped; duplicates are dropped.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
