package graph

import (
	"sort"

	"github.com/ihavespoons/shear/internal/parser"
)

// Caller identifies a method whose body contains a call-site for the target.
type Caller struct {
	MethodName string `json:"method_name"`
	Signature  string `json:"signature"`
}

// FindCallers scans every method's call-sites and returns the methods that
// invoke targetName. This is the inverse of the dependency tree query.
func (b *Builder) FindCallers(targetName string) []Caller {
	var callers []Caller
	for _, m := range b.methods.Order {
		for _, call := range parser.ParseMethodCalls(m.FullText) {
			if call.Name == targetName {
				callers = append(callers, Caller{
					MethodName: m.Name,
					Signature:  m.Signature,
				})
				break
			}
		}
	}
	return callers
}

// Statistics aggregates per-method complexity facts across all overloads of
// one method name.
type Statistics struct {
	MethodName    string         `json:"method_name"`
	OverloadCount int            `json:"overload_count"`
	TotalLines    int            `json:"total_lines"`
	AverageLines  float64        `json:"average_lines"`
	Dependencies  []string       `json:"dependencies"`
	CallFrequency map[string]int `json:"call_frequency"`
}

// Stats computes statistics for all overloads of name, or nil when the name
// does not exist in the class.
func (b *Builder) Stats(name string) *Statistics {
	overloads := b.methods.ByName[name]
	if len(overloads) == 0 {
		return nil
	}

	stats := &Statistics{
		MethodName:    name,
		OverloadCount: len(overloads),
		CallFrequency: make(map[string]int),
	}

	depSet := make(map[string]bool)
	for _, m := range overloads {
		stats.TotalLines += m.LineCount
		for _, call := range parser.ParseMethodCalls(m.FullText) {
			depSet[call.Name] = true
		}
		for callee, n := range parser.CountMethodCalls(m.FullText) {
			stats.CallFrequency[callee] += n
		}
	}
	stats.AverageLines = float64(stats.TotalLines) / float64(len(overloads))

	for dep := range depSet {
		stats.Dependencies = append(stats.Dependencies, dep)
	}
	sort.Strings(stats.Dependencies)

	return stats
}
