package split

import (
	"strings"

	"github.com/ihavespoons/shear/internal/lexer"
	"github.com/ihavespoons/shear/internal/parser"
)

// DefaultMaxFileLines is the line limit applied to each generated
// partial-class file when the caller does not configure one.
const DefaultMaxFileLines = 5000

// Spec is one caller-supplied partial-class group: the output file name, an
// optional interface to attach, and the ordered method names to move there.
type Spec struct {
	FileName  string   `json:"fileName"`
	Interface string   `json:"interface,omitempty"`
	Methods   []string `json:"methods"`
}

// JobState is the mutable accumulator for one split job: the set of consumed
// signature keys and the remainder buffer the core file is built from. It is
// created fresh per job and threaded explicitly through every generation
// call, so the dependency on call order is visible in the flow rather than
// hidden in engine fields.
type JobState struct {
	Processed map[string]bool
	Remainder string
}

// Engine generates partial-class files from one parsed class. The engine
// itself is immutable; all per-job mutation lives in JobState.
type Engine struct {
	doc      *parser.Document
	class    *parser.ClassEntity
	methods  *parser.MethodSet
	maxLines int
}

// NewEngine creates a split engine over a parsed document and target class.
// maxLines <= 0 selects DefaultMaxFileLines.
func NewEngine(doc *parser.Document, class *parser.ClassEntity, methods *parser.MethodSet, maxLines int) *Engine {
	if maxLines <= 0 {
		maxLines = DefaultMaxFileLines
	}
	return &Engine{doc: doc, class: class, methods: methods, maxLines: maxLines}
}

// NewJobState returns a fresh accumulator whose remainder starts as the full
// class body.
func (e *Engine) NewJobState() *JobState {
	return &JobState{
		Processed: make(map[string]bool),
		Remainder: e.class.Body,
	}
}

// Generate produces the text of one partial-class file. Every method name in
// the spec is resolved through the name index; overloads are emitted
// together, in source order. A name whose entries were all consumed by an
// earlier spec is skipped silently, which makes repeated requests across
// specs resolve to first-request-wins. Consumed method text is removed from
// the remainder buffer.
//
// A name that never existed in the class at all is a job-level validation
// error and must be rejected by Validate before any generation starts;
// Generate does not re-check it.
func (e *Engine) Generate(spec Spec, newNamespace string, state *JobState) (string, error) {
	var b strings.Builder

	e.writeHeader(&b, newNamespace)
	e.writeDeclaration(&b, spec.Interface)

	for _, name := range spec.Methods {
		for _, m := range e.methods.ByName[name] {
			if state.Processed[m.SignatureKey] {
				continue
			}
			state.Processed[m.SignatureKey] = true
			state.Remainder = strings.Replace(state.Remainder, m.FullText, "", 1)

			b.WriteString(m.FullText)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("    }\n}\n")

	out := commentRegions(b.String())
	if lines := lexer.CountLines(out); lines > e.maxLines {
		return "", &FileTooLargeError{
			FileName:  spec.FileName,
			Lines:     lines,
			Limit:     e.maxLines,
			Breakdown: e.lineBreakdown(spec),
		}
	}

	return out, nil
}

// GenerateCore produces the core file from whatever remains in the buffer
// after all partial groups were generated. It must run last in a job; the
// remainder is only accurate once every other group has consumed its
// methods.
func (e *Engine) GenerateCore(newNamespace, mainInterface string, state *JobState) string {
	var b strings.Builder

	e.writeHeader(&b, newNamespace)
	e.writeDeclaration(&b, mainInterface)

	// The remainder still carries the original class braces; keep only the
	// inner content.
	inner := state.Remainder
	if open := strings.IndexByte(inner, '{'); open >= 0 {
		if close := strings.LastIndexByte(inner, '}'); close > open {
			inner = inner[open+1 : close]
		}
	}
	inner = collapseBlankRuns(strings.TrimRight(inner, " \t\r\n"))
	b.WriteString(inner)
	b.WriteString("\n    }\n}\n")

	return commentRegions(b.String())
}

// Validate cross-checks the full original method inventory against all
// requested names before anything is generated or written. Unknown names
// fail with the available listing; original methods missing from every spec
// fail as an incomplete configuration.
func (e *Engine) Validate(specs []Spec) error {
	requested := make(map[string]bool)
	for _, s := range specs {
		for _, name := range s.Methods {
			if len(e.methods.ByName[name]) == 0 {
				return &parser.MethodNotFoundError{Name: name, Available: e.methods.Names()}
			}
			requested[name] = true
		}
	}

	var missing []string
	for _, name := range e.methods.Names() {
		if !requested[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &IncompleteConfigError{Missing: missing}
	}

	return nil
}

func (e *Engine) writeHeader(b *strings.Builder, newNamespace string) {
	for _, u := range e.doc.Usings {
		b.WriteString(u)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString("namespace ")
	b.WriteString(newNamespace)
	b.WriteString("\n{\n")
}

// writeDeclaration emits the class declaration rewritten to partial, with an
// optional interface injected before the body brace.
func (e *Engine) writeDeclaration(b *strings.Builder, iface string) {
	decl := strings.TrimSpace(e.class.Declaration)
	marker := "public class " + e.class.Name
	if strings.Contains(decl, marker) {
		decl = strings.Replace(decl, marker, "public partial class "+e.class.Name, 1)
	}
	if iface != "" {
		// A declaration with an existing base list gets the interface
		// appended to it rather than a second colon.
		if strings.Contains(decl, ":") {
			decl += ", " + iface
		} else {
			decl += " : " + iface
		}
	}
	b.WriteString("    ")
	b.WriteString(decl)
	b.WriteString("\n    {\n")
}

// lineBreakdown reports how many lines each requested method contributes,
// used in the FileTooLarge message.
func (e *Engine) lineBreakdown(spec Spec) map[string]int {
	breakdown := make(map[string]int)
	for _, name := range spec.Methods {
		for _, m := range e.methods.ByName[name] {
			breakdown[name] += m.LineCount
		}
	}
	return breakdown
}

// commentRegions disables region directives so split files do not carry
// broken region nesting.
func commentRegions(text string) string {
	text = strings.ReplaceAll(text, "#endregion", "//#endregion")
	return strings.ReplaceAll(text, "#region", "//#region")
}

// collapseBlankRuns squeezes runs of three or more blank lines left behind by
// method removal down to one.
func collapseBlankRuns(text string) string {
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return text
}
