package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/.jdsort/jdsort.db", filepath.Join(home, ".jdsort", "jdsort.db")},
		{"/var/lib/jdsort.db", "/var/lib/jdsort.db"},
		{"relative/~/path", "relative/~/path"},
		{"~other/file", "~other/file"},
	}

	for _, tt := range tests {
		got, err := ExpandHome(tt.in)
		if err != nil {
			t.Fatalf("ExpandHome(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
