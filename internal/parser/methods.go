package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ihavespoons/shear/internal/lexer"
)

// MethodEntity is one method captured from a class body. FullText holds the
// attached doc comment (when one was found), the signature and the complete
// brace-matched body, exactly as written in the source.
type MethodEntity struct {
	Name         string `json:"name"`
	Signature    string `json:"signature"`
	SignatureKey string `json:"-"`
	FullText     string `json:"-"`
	LineCount    int    `json:"line_count"`
}

// MethodSet is the result of scanning one class body: an index by normalized
// signature, an index by bare name holding overload lists in source order,
// and the flat source-order list used for enumeration.
type MethodSet struct {
	BySignature map[string]*MethodEntity
	ByName      map[string][]*MethodEntity
	Order       []*MethodEntity
	Warnings    []string
}

// Names returns the distinct method names in first-appearance order.
func (m *MethodSet) Names() []string {
	var names []string
	seen := make(map[string]bool)
	for _, e := range m.Order {
		if !seen[e.Name] {
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	return names
}

// methodRe matches a method declaration head inside a class body: optional
// attribute lists, at least one modifier keyword, a return type token
// sequence, an optionally generic identifier and the opening parenthesis.
// The parameter list and the optional where-clause are consumed separately
// because they may contain nested parens and generics the regex cannot
// balance.
var methodRe = regexp.MustCompile(
	`(?:\[[^\]]*\]\s*)*` +
		`(?:(?:public|private|protected|internal|static|virtual|override|async|sealed|new|extern|unsafe|partial)\s+)+` +
		`(?:[A-Za-z_][\w.]*(?:\s*<[^<>]*(?:<[^<>]*>)?[^<>]*>)?(?:\[\s*,?\s*\])*\??)\s+` +
		`([A-Za-z_]\w*)` +
		`(?:\s*<[^>(]+>)?` +
		`\s*\(`)

// ParseMethods scans a class body for method declarations. classDecl is the
// declaration text of the enclosing class; it guards the doc-comment walk so
// the class-level comment is never attributed to the first method. Zero
// methods is a valid empty result; a matched declaration whose parameter
// list or body never closes is a hard error.
func ParseMethods(classBody, classDecl string) (*MethodSet, error) {
	set := &MethodSet{
		BySignature: make(map[string]*MethodEntity),
		ByName:      make(map[string][]*MethodEntity),
	}

	pos := 0
	for pos < len(classBody) {
		loc := methodRe.FindStringSubmatchIndex(classBody[pos:])
		if loc == nil {
			break
		}

		sigStart := pos + loc[0]
		// Extend the capture back to the start of its line so the emitted
		// text keeps the original indentation.
		for sigStart > 0 && (classBody[sigStart-1] == ' ' || classBody[sigStart-1] == '\t') {
			sigStart--
		}
		name := classBody[pos+loc[2] : pos+loc[3]]
		openParen := pos + loc[1] - 1

		closeParen := lexer.FindMatchingParen(classBody, openParen)
		if closeParen == lexer.NotFound {
			return nil, fmt.Errorf("method %s: unclosed parameter list: %w", name, ErrMalformedBraces)
		}

		openBrace, ok := skipToBody(classBody, closeParen+1)
		if !ok {
			// Expression-bodied member, interface signature or field
			// initializer: not a block method, move past the paren.
			pos = closeParen + 1
			continue
		}

		closeBrace := lexer.FindMatchingBrace(classBody, openBrace)
		if closeBrace == lexer.NotFound {
			return nil, fmt.Errorf("method %s: %w", name, ErrMalformedBraces)
		}

		signature := strings.TrimSpace(classBody[sigStart:openBrace])
		textStart := docStart(classBody, sigStart, classDecl)
		fullText := classBody[textStart : closeBrace+1]

		entity := &MethodEntity{
			Name:         name,
			Signature:    signature,
			SignatureKey: normalizeSignature(signature),
			FullText:     fullText,
			LineCount:    lexer.CountLines(fullText),
		}

		if _, exists := set.BySignature[entity.SignatureKey]; exists {
			set.Warnings = append(set.Warnings,
				"duplicate signature for method "+name+"; later definition wins in signature index")
		}
		set.BySignature[entity.SignatureKey] = entity
		set.ByName[name] = append(set.ByName[name], entity)
		set.Order = append(set.Order, entity)

		pos = closeBrace + 1
	}

	return set, nil
}

// skipToBody advances over whitespace and an optional where-constraint
// clause after the parameter list and reports the opening brace of the
// method body, or ok=false when the member has no block body.
func skipToBody(text string, from int) (int, bool) {
	i := from
	for i < len(text) {
		switch {
		case text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r':
			i++
		case text[i] == '{':
			return i, true
		case strings.HasPrefix(text[i:], "where "):
			// Generic constraints run until the method brace.
			next := strings.IndexByte(text[i:], '{')
			if next < 0 {
				return 0, false
			}
			return i + next, true
		default:
			return 0, false
		}
	}
	return 0, false
}

// docStart walks backward from a method's signature to the nearest preceding
// '}' (or start of text) and returns the offset where the method's captured
// text should begin: the first line of the comment block directly above it,
// or the signature itself when no such block exists. The capture stays a
// contiguous slice of the class body so the split engine can remove it from
// the remainder by exact text. The block is skipped entirely when the
// candidate region contains the class's own declaration, which would mean we
// grabbed the class header rather than a member comment.
func docStart(text string, sigStart int, classDecl string) int {
	prev := strings.LastIndexByte(text[:sigStart], '}')
	regionStart := prev + 1
	candidate := text[regionStart:sigStart]

	if classDecl != "" && strings.Contains(candidate, strings.TrimSpace(classDecl)) {
		return sigStart
	}

	// Walk line by line from the bottom, accepting the trailing run of
	// comment lines (blank lines in between are tolerated). Anything else
	// ends the run.
	start := sigStart
	lineEnd := len(candidate)
	for lineEnd > 0 {
		lineStart := strings.LastIndexByte(candidate[:lineEnd], '\n') + 1
		line := strings.TrimSpace(candidate[lineStart:lineEnd])
		if line != "" {
			if !strings.HasPrefix(line, "///") && !strings.HasPrefix(line, "//") &&
				!strings.HasPrefix(line, "/*") && !strings.HasPrefix(line, "*") {
				break
			}
			start = regionStart + lineStart
		}
		lineEnd = lineStart - 1
		if lineEnd < 0 {
			break
		}
	}

	return start
}

// normalizeSignature strips all whitespace from a signature, producing the
// near-unique key used for de-duplication.
func normalizeSignature(sig string) string {
	var b strings.Builder
	b.Grow(len(sig))
	for _, r := range sig {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
