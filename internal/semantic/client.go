package semantic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultRequestTimeout is the timeout for analyzer invocations
const DefaultRequestTimeout = 30 * time.Second

// ErrAnalyzerNotAvailable indicates that no external analyzer is configured
// or the configured binary cannot be found.
var ErrAnalyzerNotAvailable = errors.New("semantic analyzer not available")

// Client invokes an external compiler-backed analyzer as a subprocess. The
// analyzer receives a source file path and a command and writes JSON to
// stdout.
type Client struct {
	binary  string
	timeout time.Duration
}

// ClassInfo is the analyzer's description of one class.
type ClassInfo struct {
	Name      string       `json:"name"`
	Namespace string       `json:"namespace,omitempty"`
	Methods   []MethodInfo `json:"methods,omitempty"`
}

// MethodInfo is the analyzer's description of one method.
type MethodInfo struct {
	Name      string   `json:"name"`
	Signature string   `json:"signature"`
	LineCount int      `json:"line_count"`
	Calls     []string `json:"calls,omitempty"`
}

// NewClient creates a client for the analyzer binary at the given path.
// An empty path means no analyzer is configured.
func NewClient(binary string) *Client {
	return &Client{
		binary:  binary,
		timeout: DefaultRequestTimeout,
	}
}

// Available reports whether the analyzer binary can be invoked.
func (c *Client) Available() bool {
	if c.binary == "" {
		return false
	}
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// ListClasses asks the analyzer for the classes in a file.
func (c *Client) ListClasses(ctx context.Context, file string) ([]ClassInfo, error) {
	var out struct {
		Classes []ClassInfo `json:"classes"`
	}
	if err := c.invoke(ctx, &out, "--file", file, "classes"); err != nil {
		return nil, err
	}
	return out.Classes, nil
}

// ListMethods asks the analyzer for the methods of a class.
func (c *Client) ListMethods(ctx context.Context, file, className string) ([]MethodInfo, error) {
	var out struct {
		Methods []MethodInfo `json:"methods"`
	}
	if err := c.invoke(ctx, &out, "--file", file, "methods", className); err != nil {
		return nil, err
	}
	return out.Methods, nil
}

// invoke runs the analyzer and decodes its JSON stdout into v.
func (c *Client) invoke(ctx context.Context, v interface{}, args ...string) error {
	if !c.Available() {
		return ErrAnalyzerNotAvailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("analyzer failed: %s", string(exitErr.Stderr))
		}
		return fmt.Errorf("failed to run analyzer: %w", err)
	}

	if err := json.Unmarshal(output, v); err != nil {
		return fmt.Errorf("failed to parse analyzer output: %w", err)
	}
	return nil
}
