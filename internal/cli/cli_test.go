package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ppiankov/jdsort/internal/classifier"
	"github.com/ppiankov/jdsort/internal/llm"
	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/store"
	"github.com/ppiankov/jdsort/internal/validate"
)

// run executes the command tree with an isolated HOME and database
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", filepath.Dir(db))

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--db", db))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, filepath.Join(t.TempDir(), "jdsort.db"), "version")
	require.NoError(t, err)
	require.Equal(t, "jdsort "+Version+"\n", out)
}

func TestSettingsCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "jdsort.db")

	_, err := run(t, db, "settings", "set", "max_file_size_mb", "5", "-o", "table")
	require.NoError(t, err)

	out, err := run(t, db, "settings", "show", "-o", "json")
	require.NoError(t, err)

	var settings model.Settings
	require.NoError(t, json.Unmarshal([]byte(out), &settings))
	require.EqualValues(t, 5, settings.MaxFileSizeMB)
	require.Equal(t, model.DefaultSettings().ExcludedPaths, settings.ExcludedPaths)

	_, err = run(t, db, "settings", "set", "colour", "blue", "-o", "table")
	require.Error(t, err)
}

func TestBuildStructureLifecycle(t *testing.T) {
	home := t.TempDir()
	db := filepath.Join(home, "jdsort.db")
	inbox := filepath.Join(home, "inbox")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	for _, name := range []string{"report.pdf", "budget.xlsx", "photo.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(inbox, name), []byte("x"), 0o644))
	}

	out, err := run(t, db, "build", inbox, "--name", "Inbox", "-o", "json")
	require.NoError(t, err)

	var built struct {
		Structure model.Structure        `json:"structure"`
		Report    model.ValidationReport `json:"report"`
		Persisted bool                   `json:"persisted"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &built))
	require.True(t, built.Persisted)
	require.True(t, built.Report.IsValid)
	require.Equal(t, 3, built.Structure.FileCount())
	id := built.Structure.ID

	out, err = run(t, db, "structure", "list", "-o", "table")
	require.NoError(t, err)
	require.Contains(t, out, id)

	exported := filepath.Join(home, "inbox.yaml")
	_, err = run(t, db, "structure", "export", id, "--out", exported, "-o", "table")
	require.NoError(t, err)

	out, err = run(t, db, "validate", exported, "-o", "json")
	require.NoError(t, err)
	var report model.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.True(t, report.IsValid)

	out, err = run(t, db, "assign", filepath.Join(inbox, "report.pdf"), "--structure", id, "-o", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"item_number": "22.01"`)

	out, err = run(t, db, "structure", "assignments", id, "-o", "json")
	require.NoError(t, err)
	var records []store.AssignmentRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	require.Equal(t, filepath.Join(inbox, "report.pdf"), records[0].FilePath)

	out, err = run(t, db, "where", filepath.Join(inbox, "report.pdf"), "-o", "table")
	require.NoError(t, err)
	require.Contains(t, out, "22.01")

	_, err = run(t, db, "structure", "delete", id, "-o", "table")
	require.NoError(t, err)
	_, err = run(t, db, "structure", "show", id, "-o", "table")
	require.Error(t, err)
}

func TestImportRejectsInvalidStructure(t *testing.T) {
	home := t.TempDir()
	db := filepath.Join(home, "jdsort.db")

	invalid := model.Structure{
		ID:    "broken",
		Name:  "Broken",
		Areas: []model.Area{{Number: 25, Name: "25-34 Custom Area"}},
	}
	require.False(t, validate.Validate(invalid).IsValid)

	data, err := json.Marshal(invalid)
	require.NoError(t, err)
	path := filepath.Join(home, "broken.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = run(t, db, "structure", "import", path, "-o", "table")
	require.Error(t, err)

	out, err := run(t, db, "structure", "import", path, "--force", "-o", "table")
	require.NoError(t, err)
	require.True(t, strings.Contains(out, "broken"))

	_, err = run(t, db, "validate", "broken", "-o", "table")
	require.Error(t, err, "stored structure with errors fails validation")
}

func TestResolveLLM(t *testing.T) {
	defaults := model.DefaultSettings()
	openaiSettings := model.DefaultSettings()
	require.NoError(t, openaiSettings.Set("ai_provider", "openai"))

	tests := []struct {
		name         string
		config       model.LLMConfig
		settings     model.Settings
		wantProvider string
		wantModel    string
	}{
		{"defaults", model.LLMConfig{}, defaults, "ollama", "llama3.2:1b"},
		{"configured provider ignores other provider's model", model.LLMConfig{Provider: "openai"}, defaults, "openai", "gpt-4o-mini"},
		{"configured anthropic", model.LLMConfig{Provider: "anthropic"}, defaults, "anthropic", llm.DefaultModel("anthropic")},
		{"configured model wins", model.LLMConfig{Provider: "openai", Model: "gpt-4o"}, defaults, "openai", "gpt-4o"},
		{"stored provider", model.LLMConfig{}, openaiSettings, "openai", "gpt-4o-mini"},
		{"stored model for same provider", model.LLMConfig{Provider: "ollama"}, model.Settings{AIProvider: "ollama", AIModel: "phi3:mini"}, "ollama", "phi3:mini"},
		{"empty settings", model.LLMConfig{}, model.Settings{}, "ollama", "llama3.2:1b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveLLM(tt.config, tt.settings)
			require.Equal(t, tt.wantProvider, got.Provider)
			require.Equal(t, tt.wantModel, got.Model)
		})
	}
}

func TestResolveLLM_ProviderEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")

	got := resolveLLM(model.LLMConfig{Provider: "openai"}, model.DefaultSettings())
	require.Equal(t, "sk-test", got.APIKey)
	require.Empty(t, got.BaseURL, "a hosted provider must not inherit the Ollama URL")

	got = resolveLLM(model.LLMConfig{}, model.DefaultSettings())
	require.Equal(t, "http://gpu-box:11434", got.BaseURL)
}

// openAIModels serves an OpenAI-compatible model list with a non-chat model first
func openAIModels(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"whisper-1"},{"id":"gpt-4o-mini"},{"id":"gpt-4o"}]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestBackendStatus_HostedProviderDefaultModel(t *testing.T) {
	server := openAIModels(t)
	db := filepath.Join(t.TempDir(), "jdsort.db")

	t.Setenv("JDSORT_LLM_PROVIDER", "openai")
	t.Setenv("JDSORT_LLM_BASE_URL", server.URL)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	out, err := run(t, db, "backend", "status", "-o", "json")
	require.NoError(t, err)

	var status classifier.Status
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	require.Equal(t, "openai", status.Backend)
	require.True(t, status.Available)
	require.Equal(t, "gpt-4o-mini", status.Model)
}

func TestBackendStatus_StoredProvider(t *testing.T) {
	server := openAIModels(t)
	db := filepath.Join(t.TempDir(), "jdsort.db")

	t.Setenv("JDSORT_LLM_BASE_URL", server.URL)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := run(t, db, "settings", "set", "ai_provider", "openai", "-o", "table")
	require.NoError(t, err)
	_, err = run(t, db, "settings", "set", "ai_model", "gpt-4o", "-o", "table")
	require.NoError(t, err)

	out, err := run(t, db, "backend", "status", "-o", "json")
	require.NoError(t, err)

	var status classifier.Status
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	require.Equal(t, "openai", status.Backend)
	require.Equal(t, "gpt-4o", status.Model)
}
