package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureGuardianDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	root, err := EnsureGuardianDirs()
	if err != nil {
		t.Fatalf("EnsureGuardianDirs failed: %v", err)
	}

	if root != filepath.Join(home, ".guardian") {
		t.Errorf("Unexpected root: %s", root)
	}
	for _, sub := range []string{"history", "logs"} {
		if _, err := os.Stat(filepath.Join(root, sub)); err != nil {
			t.Errorf("Expected %s directory: %v", sub, err)
		}
	}
}

func TestHistoryDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := HistoryDir()
	if err != nil {
		t.Fatalf("HistoryDir failed: %v", err)
	}
	if dir != filepath.Join(home, ".guardian", "history") {
		t.Errorf("Unexpected history dir: %s", dir)
	}
}
