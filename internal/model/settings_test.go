package model

import (
	"reflect"
	"testing"
)

func TestSettingsSet(t *testing.T) {
	s := DefaultSettings()

	steps := []struct {
		key, value string
	}{
		{"theme", "dark"},
		{"auto_backup", "false"},
		{"backup_location", "/backups"},
		{"ai_provider", "anthropic"},
		{"ai_model", "claude-3-5-haiku-latest"},
		{"preview_mode", "false"},
		{"confirm_moves", "0"},
		{"max_file_size_mb", "250"},
		{"excluded_extensions", " tmp, ,bak "},
		{"excluded_paths", ""},
	}
	for _, step := range steps {
		if err := s.Set(step.key, step.value); err != nil {
			t.Fatalf("Set(%q, %q): %v", step.key, step.value, err)
		}
	}

	want := Settings{
		Theme:              "dark",
		BackupLocation:     "/backups",
		AIProvider:         "anthropic",
		AIModel:            "claude-3-5-haiku-latest",
		MaxFileSizeMB:      250,
		ExcludedExtensions: []string{"tmp", "bak"},
		ExcludedPaths:      []string{},
	}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("settings = %+v, want %+v", s, want)
	}
}

func TestSettingsSetRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"theme", "purple"},
		{"auto_backup", "maybe"},
		{"max_file_size_mb", "-1"},
		{"max_file_size_mb", "lots"},
		{"colour", "blue"},
	}

	for _, tt := range tests {
		s := DefaultSettings()
		if err := s.Set(tt.key, tt.value); err == nil {
			t.Errorf("Set(%q, %q) expected error", tt.key, tt.value)
		}
		if !reflect.DeepEqual(s, DefaultSettings()) {
			t.Errorf("Set(%q, %q) modified settings on error", tt.key, tt.value)
		}
	}
}

func TestSettingKeysAreSettable(t *testing.T) {
	for _, key := range SettingKeys {
		s := DefaultSettings()
		value := "x"
		switch key {
		case "theme":
			value = "light"
		case "auto_backup", "preview_mode", "confirm_moves":
			value = "true"
		case "max_file_size_mb":
			value = "1"
		}
		if err := s.Set(key, value); err != nil {
			t.Errorf("Set(%q) error: %v", key, err)
		}
	}
}

func TestSettingsSetProviderClearsModel(t *testing.T) {
	s := DefaultSettings()

	if err := s.Set("ai_provider", "ollama"); err != nil {
		t.Fatal(err)
	}
	if s.AIModel != "llama3.2:1b" {
		t.Errorf("same provider should keep the model, got %q", s.AIModel)
	}

	if err := s.Set("ai_provider", "openai"); err != nil {
		t.Fatal(err)
	}
	if s.AIModel != "" {
		t.Errorf("switching provider should clear the model, got %q", s.AIModel)
	}
}
