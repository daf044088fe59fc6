package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/jdsort/internal/model"
)

func TestOllamaBackend_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("Expected non-streaming request")
		}
		if req.Options.Temperature != 0.3 || req.Options.TopP != 0.9 {
			t.Errorf("Unexpected sampling options: %+v", req.Options)
		}
		if req.Options.NumPredict != 500 {
			t.Errorf("Expected num_predict 500, got %d", req.Options.NumPredict)
		}
		if !strings.Contains(req.Prompt, "File: report.pdf") {
			t.Errorf("Prompt does not describe the file: %s", req.Prompt)
		}

		resp := ollamaResponse{
			Model:           "llama3.2:1b",
			Response:        `{"category": "20-29 Documents/Reports and Documents"}`,
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       20,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	backend, err := NewOllamaBackend(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	file := model.FileDescriptor{Name: "report.pdf", Extension: "pdf", Size: 1024, MimeType: "application/pdf"}
	resp, err := backend.Generate(context.Background(), NewClassificationRequest(file, "llama3.2:1b"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(resp.Text, "Reports and Documents") {
		t.Errorf("Unexpected text: %s", resp.Text)
	}
	if resp.TokensUsed != 30 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestOllamaBackend_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model not loaded"}`))
	}))
	defer server.Close()

	backend, err := NewOllamaBackend(Config{BaseURL: server.URL, Model: "llama3.2:1b", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	_, err = backend.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("Expected error message to contain 'model not loaded', got %v", err)
	}
}

func TestOllamaBackend_Generate_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{malformed json`))
	}))
	defer server.Close()

	backend, err := NewOllamaBackend(Config{BaseURL: server.URL, Model: "llama3.2:1b", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	if _, err := backend.Generate(context.Background(), GenerateRequest{Prompt: "hi"}); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOllamaBackend_Generate_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.2:1b","response":"","done":true}`))
	}))
	defer server.Close()

	backend, err := NewOllamaBackend(Config{BaseURL: server.URL, Model: "llama3.2:1b", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	if _, err := backend.Generate(context.Background(), GenerateRequest{Prompt: "hi"}); err == nil {
		t.Fatal("Expected error for empty response, got nil")
	}
}

func TestOllamaBackend_Generate_NoModel(t *testing.T) {
	backend, err := NewOllamaBackend(Config{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	_, err = backend.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if !errors.Is(err, ErrNoModel) {
		t.Errorf("Expected ErrNoModel, got %v", err)
	}
}

func TestOllamaBackend_ProbeAndListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:1b"},{"name":"mistral:latest"}]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	backend, err := NewOllamaBackend(Config{BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	if err := backend.Probe(context.Background()); err != nil {
		t.Errorf("Expected probe to succeed, got %v", err)
	}

	models, err := backend.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(models) != 2 || models[0] != "llama3.2:1b" || models[1] != "mistral:latest" {
		t.Errorf("Unexpected models: %v", models)
	}

	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if err := backend.Probe(context.Background()); err == nil {
		t.Error("Expected probe to fail on HTTP 500")
	}
	if _, err := backend.ListModels(context.Background()); err == nil {
		t.Error("Expected ListModels to fail on HTTP 500")
	}
}

func TestOllamaBackend_ProbeUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	backend, _ := NewOllamaBackend(Config{BaseURL: url, Timeout: 1})
	if err := backend.Probe(context.Background()); err == nil {
		t.Error("Expected probe to fail against a closed server")
	}
}
