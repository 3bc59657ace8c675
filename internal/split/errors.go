package split

import (
	"fmt"
	"sort"
	"strings"
)

// FileTooLargeError reports a generated group exceeding the configured line
// limit, with a per-method breakdown of where the lines came from. The file
// is never written.
type FileTooLargeError struct {
	FileName  string
	Lines     int
	Limit     int
	Breakdown map[string]int
}

func (e *FileTooLargeError) Error() string {
	var parts []string
	for name, lines := range e.Breakdown {
		parts = append(parts, fmt.Sprintf("%s=%d", name, lines))
	}
	sort.Strings(parts)
	return fmt.Sprintf("generated file %s has %d lines, exceeding the limit of %d (%s)",
		e.FileName, e.Lines, e.Limit, strings.Join(parts, ", "))
}

// IncompleteConfigError reports original methods that no partial-class spec
// claims. The job writes nothing when this is raised.
type IncompleteConfigError struct {
	Missing []string
}

func (e *IncompleteConfigError) Error() string {
	return fmt.Sprintf("incomplete configuration: %d method(s) assigned to no partial class: %s",
		len(e.Missing), strings.Join(e.Missing, ", "))
}
