package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ihavespoons/shear/internal/split"
)

// Config is one split-job configuration document. Several documents may
// describe a single logical job; Load merges them.
type Config struct {
	SourceFile           string       `json:"sourceFile"`
	TargetClassName      string       `json:"targetClassName,omitempty"`
	DestinationFolder    string       `json:"destinationFolder"`
	NewNamespace         string       `json:"newNamespace"`
	MainPartialClassName string       `json:"mainPartialClassName"`
	MainInterface        string       `json:"mainInterface,omitempty"`
	MaxFileLines         int          `json:"maxFileLines,omitempty"`
	PartialClasses       []split.Spec `json:"partialClasses"`
}

// MissingFieldError reports a required field absent from the merged
// configuration.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("configuration is missing required field %q", e.Field)
}

// FieldMismatchError reports a shared field that differs between two merged
// documents.
type FieldMismatchError struct {
	Field string
	Want  string
	Got   string
	Path  string
}

func (e *FieldMismatchError) Error() string {
	return fmt.Sprintf("config %s: field %q is %q but an earlier document set it to %q",
		e.Path, e.Field, e.Got, e.Want)
}

// DuplicateFileNameError reports the same output file name claimed by two
// partial-class specs across the merged set.
type DuplicateFileNameError struct {
	FileName string
}

func (e *DuplicateFileNameError) Error() string {
	return fmt.Sprintf("duplicate output file name %q across configuration documents", e.FileName)
}

// Load reads and merges one or more JSON configuration documents into a
// single job description. The first document is authoritative for the shared
// fields; later documents may repeat them only with identical values. All
// partialClasses arrays are concatenated in document order.
func Load(paths []string) (*Config, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no configuration files given")
	}

	var merged *Config
	fileNames := make(map[string]bool)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}

		var doc Config
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}

		if merged == nil {
			merged = &doc
		} else {
			if err := checkShared(merged, &doc, path); err != nil {
				return nil, err
			}
			merged.PartialClasses = append(merged.PartialClasses, doc.PartialClasses...)
		}
	}

	for _, pc := range merged.PartialClasses {
		if pc.FileName == "" {
			return nil, &MissingFieldError{Field: "partialClasses[].fileName"}
		}
		if fileNames[pc.FileName] {
			return nil, &DuplicateFileNameError{FileName: pc.FileName}
		}
		fileNames[pc.FileName] = true
	}

	if err := merged.validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// checkShared verifies that any shared field a later document repeats
// matches the authoritative first document.
func checkShared(base, doc *Config, path string) error {
	fields := []struct {
		name      string
		base, got string
	}{
		{"sourceFile", base.SourceFile, doc.SourceFile},
		{"destinationFolder", base.DestinationFolder, doc.DestinationFolder},
		{"newNamespace", base.NewNamespace, doc.NewNamespace},
		{"mainPartialClassName", base.MainPartialClassName, doc.MainPartialClassName},
	}
	for _, f := range fields {
		if f.got != "" && f.got != f.base {
			return &FieldMismatchError{Field: f.name, Want: f.base, Got: f.got, Path: path}
		}
	}
	return nil
}

func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"sourceFile", c.SourceFile},
		{"destinationFolder", c.DestinationFolder},
		{"newNamespace", c.NewNamespace},
		{"mainPartialClassName", c.MainPartialClassName},
	}
	for _, f := range required {
		if f.value == "" {
			return &MissingFieldError{Field: f.name}
		}
	}
	if len(c.PartialClasses) == 0 {
		return &MissingFieldError{Field: "partialClasses"}
	}
	return nil
}
