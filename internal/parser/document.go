package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Document holds one parsed source file: the raw text plus the facts the
// lexical scan derived from it. Documents are rebuilt on every parse; they
// are never mutated after construction.
type Document struct {
	Path      string        `json:"path"`
	Source    string        `json:"-"`
	Usings    []string      `json:"usings"`
	Namespace string        `json:"namespace"`
	Classes   []ClassEntity `json:"classes"`
}

var namespaceRe = regexp.MustCompile(`(?m)^\s*namespace\s+([A-Za-z_][\w\.]*)`)

// ParseFile reads path as UTF-8 text and parses it into a Document.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	return Parse(path, string(data))
}

// Parse builds a Document from source text. It fails when the text contains
// no class declarations at all, or when a declared class body never closes.
func Parse(path, source string) (*Document, error) {
	classes, err := ParseClasses(source)
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, ErrNoClassesFound
	}

	doc := &Document{
		Path:      path,
		Source:    source,
		Usings:    parseUsings(source),
		Classes:   classes,
		Namespace: parseNamespace(source),
	}
	return doc, nil
}

// Target selects the class the rest of the pipeline operates on: the named
// class when name is non-empty, otherwise the first class in source order.
func (d *Document) Target(name string) (*ClassEntity, error) {
	if name == "" {
		return &d.Classes[0], nil
	}
	for i := range d.Classes {
		if d.Classes[i].Name == name {
			return &d.Classes[i], nil
		}
	}
	return nil, &ClassNotFoundError{Name: name, Available: d.ClassNames()}
}

// ClassNames returns the names of all top-level classes in source order.
func (d *Document) ClassNames() []string {
	names := make([]string, len(d.Classes))
	for i, c := range d.Classes {
		names[i] = c.Name
	}
	return names
}

// parseUsings collects the raw using-directive lines that appear before the
// namespace keyword, preserving order and exact text.
func parseUsings(source string) []string {
	var usings []string
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "namespace ") || strings.HasPrefix(trimmed, "namespace\t") {
			break
		}
		if strings.HasPrefix(trimmed, "using ") && strings.HasSuffix(trimmed, ";") {
			usings = append(usings, trimmed)
		}
	}
	return usings
}

// parseNamespace returns the first declared namespace name, or "" when the
// file has none.
func parseNamespace(source string) string {
	if m := namespaceRe.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	return ""
}
