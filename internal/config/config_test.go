package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const baseConfig = `{
  "sourceFile": "UserManager.cs",
  "destinationFolder": "out",
  "newNamespace": "App.Services",
  "mainPartialClassName": "UserManager.Core.cs",
  "mainInterface": "IUserCore",
  "partialClasses": [
    {"fileName": "UserManager.Queries.cs", "interface": "IUserQueries", "methods": ["GetUser", "GetUserAsync"]}
  ]
}`

func TestLoadSingleDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "job.json", baseConfig)

	cfg, err := Load([]string{path})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SourceFile != "UserManager.cs" {
		t.Errorf("sourceFile = %q", cfg.SourceFile)
	}
	if cfg.NewNamespace != "App.Services" {
		t.Errorf("newNamespace = %q", cfg.NewNamespace)
	}
	if len(cfg.PartialClasses) != 1 {
		t.Fatalf("expected 1 partial class, got %d", len(cfg.PartialClasses))
	}
	if got := cfg.PartialClasses[0].Interface; got != "IUserQueries" {
		t.Errorf("interface = %q", got)
	}
}

func TestLoadMergesPartialClasses(t *testing.T) {
	dir := t.TempDir()
	first := writeConfig(t, dir, "a.json", baseConfig)
	second := writeConfig(t, dir, "b.json", `{
  "sourceFile": "UserManager.cs",
  "partialClasses": [
    {"fileName": "UserManager.Writes.cs", "methods": ["SaveUserAsync", "DeleteUser"]}
  ]
}`)

	cfg, err := Load([]string{first, second})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.PartialClasses) != 2 {
		t.Fatalf("expected 2 partial classes, got %d", len(cfg.PartialClasses))
	}
	if cfg.PartialClasses[1].FileName != "UserManager.Writes.cs" {
		t.Errorf("merged order wrong: %q", cfg.PartialClasses[1].FileName)
	}
	// Shared fields come from the first document.
	if cfg.MainPartialClassName != "UserManager.Core.cs" {
		t.Errorf("mainPartialClassName = %q", cfg.MainPartialClassName)
	}
}

func TestLoadRejectsFieldMismatch(t *testing.T) {
	dir := t.TempDir()
	first := writeConfig(t, dir, "a.json", baseConfig)
	second := writeConfig(t, dir, "b.json", `{
  "sourceFile": "OtherClass.cs",
  "partialClasses": [
    {"fileName": "X.cs", "methods": ["DeleteUser"]}
  ]
}`)

	_, err := Load([]string{first, second})
	var mismatch *FieldMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected FieldMismatchError, got %v", err)
	}
	if mismatch.Field != "sourceFile" {
		t.Errorf("mismatched field = %q", mismatch.Field)
	}
}

func TestLoadRejectsDuplicateFileName(t *testing.T) {
	dir := t.TempDir()
	first := writeConfig(t, dir, "a.json", baseConfig)
	second := writeConfig(t, dir, "b.json", `{
  "partialClasses": [
    {"fileName": "UserManager.Queries.cs", "methods": ["DeleteUser"]}
  ]
}`)

	_, err := Load([]string{first, second})
	var dup *DuplicateFileNameError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateFileNameError, got %v", err)
	}
	if dup.FileName != "UserManager.Queries.cs" {
		t.Errorf("duplicate file name = %q", dup.FileName)
	}
}

func TestLoadRejectsMissingField(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "a.json", `{
  "sourceFile": "UserManager.cs",
  "partialClasses": [
    {"fileName": "X.cs", "methods": ["GetUser"]}
  ]
}`)

	_, err := Load([]string{path})
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "destinationFolder" {
		t.Errorf("missing field = %q", missing.Field)
	}
}

func TestLoadRejectsEmptyPartialClasses(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "a.json", `{
  "sourceFile": "UserManager.cs",
  "destinationFolder": "out",
  "newNamespace": "App",
  "mainPartialClassName": "Core.cs",
  "partialClasses": []
}`)

	_, err := Load([]string{path})
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "partialClasses" {
		t.Errorf("missing field = %q", missing.Field)
	}
}
