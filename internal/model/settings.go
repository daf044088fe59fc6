package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Settings are the user-facing application settings kept by the persistence store
type Settings struct {
	Theme              string   `json:"theme" yaml:"theme"`
	AutoBackup         bool     `json:"auto_backup" yaml:"auto_backup"`
	BackupLocation     string   `json:"backup_location,omitempty" yaml:"backup_location,omitempty"`
	AIProvider         string   `json:"ai_provider" yaml:"ai_provider"`
	AIModel            string   `json:"ai_model" yaml:"ai_model"` // Empty selects the provider default
	PreviewMode        bool     `json:"preview_mode" yaml:"preview_mode"`
	ConfirmMoves       bool     `json:"confirm_moves" yaml:"confirm_moves"`
	MaxFileSizeMB      int64    `json:"max_file_size_mb" yaml:"max_file_size_mb"`
	ExcludedExtensions []string `json:"excluded_extensions" yaml:"excluded_extensions"`
	ExcludedPaths      []string `json:"excluded_paths" yaml:"excluded_paths"`
}

// DefaultSettings returns the settings used until the user saves their own
func DefaultSettings() Settings {
	return Settings{
		Theme:              "system",
		AutoBackup:         true,
		AIProvider:         "ollama",
		AIModel:            "llama3.2:1b",
		PreviewMode:        true,
		ConfirmMoves:       true,
		MaxFileSizeMB:      1000,
		ExcludedExtensions: []string{"tmp", "cache", "log"},
		ExcludedPaths:      []string{".git", "node_modules", ".DS_Store"},
	}
}

// SettingKeys lists the keys accepted by Set, in display order
var SettingKeys = []string{
	"theme", "auto_backup", "backup_location", "ai_provider", "ai_model",
	"preview_mode", "confirm_moves", "max_file_size_mb", "excluded_extensions", "excluded_paths",
}

// Set updates one setting from its string form. List values are comma separated.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "theme":
		switch value {
		case "light", "dark", "system":
			s.Theme = value
		default:
			return fmt.Errorf("invalid theme %q (want light, dark or system)", value)
		}
	case "auto_backup":
		return setBool(&s.AutoBackup, key, value)
	case "backup_location":
		s.BackupLocation = value
	case "ai_provider":
		// A model name rarely carries over between providers
		if !strings.EqualFold(s.AIProvider, value) {
			s.AIModel = ""
		}
		s.AIProvider = value
	case "ai_model":
		s.AIModel = value
	case "preview_mode":
		return setBool(&s.PreviewMode, key, value)
	case "confirm_moves":
		return setBool(&s.ConfirmMoves, key, value)
	case "max_file_size_mb":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s %q: must be a non-negative integer", key, value)
		}
		s.MaxFileSizeMB = n
	case "excluded_extensions":
		s.ExcludedExtensions = splitList(value)
	case "excluded_paths":
		s.ExcludedPaths = splitList(value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = b
	return nil
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
