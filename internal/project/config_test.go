package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitializeAndActivate(t *testing.T) {
	dir := t.TempDir()

	p, err := Initialize(dir)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if p.Settings.MaxFileLines != 5000 {
		t.Errorf("default max_file_lines = %d", p.Settings.MaxFileLines)
	}

	// Activate from a nested directory; root discovery walks up.
	nested := filepath.Join(dir, "src", "services")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	Active = nil
	activated, err := Activate(nested)
	if err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if activated.RootPath != dir {
		t.Errorf("root = %q, want %q", activated.RootPath, dir)
	}
}

func TestInitializeTwiceFails(t *testing.T) {
	dir := t.TempDir()
	if _, err := Initialize(dir); err != nil {
		t.Fatalf("first Initialize failed: %v", err)
	}
	if _, err := Initialize(dir); err == nil {
		t.Error("expected error on second Initialize")
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	p, err := Initialize(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(p.GetSettingsPath(), []byte("max_depth: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := p.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Settings.MaxDepth != 5 {
		t.Errorf("max_depth = %d, want 5", p.Settings.MaxDepth)
	}
	if p.Settings.MaxFileLines != 5000 {
		t.Errorf("max_file_lines default = %d, want 5000", p.Settings.MaxFileLines)
	}
	if !p.Settings.CacheOn() {
		t.Error("cache should default to enabled")
	}
}

func TestCacheDisabled(t *testing.T) {
	dir := t.TempDir()
	p, err := Initialize(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p.GetSettingsPath(), []byte("cache_enabled: false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := p.Load(); err != nil {
		t.Fatal(err)
	}
	if p.Settings.CacheOn() {
		t.Error("cache should be disabled")
	}
}

func TestFindProjectRootNotFound(t *testing.T) {
	dir := t.TempDir()
	if _, err := FindProjectRoot(dir); err == nil {
		t.Error("expected error when no project root exists")
	}
}
