package split

import (
	"fmt"
	"os"
	"path/filepath"
)

// JobOptions describes one complete split job after configuration merging.
type JobOptions struct {
	Destination   string
	Namespace     string
	CoreFileName  string
	CoreInterface string
	Specs         []Spec
}

// JobResult reports what a completed job produced.
type JobResult struct {
	Files      []string `json:"files"`
	CoreFile   string   `json:"core_file"`
	MethodsOut int      `json:"methods_distributed"`
}

// Run executes one split job end to end: validation first (nothing touches
// disk when it fails), then one file per spec, then the core file built from
// the remainder. Partial files are generated and written in spec order; a
// FileTooLarge failure aborts the rest of the job but does not roll back
// files already written.
func Run(e *Engine, opts JobOptions) (*JobResult, error) {
	if err := e.Validate(opts.Specs); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.Destination, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination folder: %w", err)
	}

	state := e.NewJobState()
	result := &JobResult{}

	for _, spec := range opts.Specs {
		text, err := e.Generate(spec, opts.Namespace, state)
		if err != nil {
			return nil, err
		}

		path := filepath.Join(opts.Destination, spec.FileName)
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", spec.FileName, err)
		}
		result.Files = append(result.Files, path)
	}

	core := e.GenerateCore(opts.Namespace, opts.CoreInterface, state)
	corePath := filepath.Join(opts.Destination, opts.CoreFileName)
	if err := os.WriteFile(corePath, []byte(core), 0644); err != nil {
		return nil, fmt.Errorf("failed to write core file: %w", err)
	}
	result.CoreFile = corePath
	result.MethodsOut = len(state.Processed)

	return result, nil
}
