package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoClassesFound indicates the source text contains no class declarations.
var ErrNoClassesFound = errors.New("no class declarations found in source")

// ErrMalformedBraces indicates the brace scanner ran off the end of the text
// before closing an open brace.
var ErrMalformedBraces = errors.New("malformed brace structure: unbalanced braces")

// ClassNotFoundError reports a missing target class along with the classes
// the file actually declares.
type ClassNotFoundError struct {
	Name      string
	Available []string
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class %q not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// MethodNotFoundError reports a method name absent from the parsed class,
// listing the names that do exist.
type MethodNotFoundError struct {
	Name      string
	Available []string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("method %q not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}
