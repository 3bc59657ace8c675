package parser

import (
	"fmt"
	"regexp"

	"github.com/ihavespoons/shear/internal/lexer"
)

// ClassEntity is one top-level class captured from source text. Body spans
// exactly from the opening brace to its matching close as found by the
// brace scanner; declaration is the text from the first modifier up to but
// not including the opening brace.
type ClassEntity struct {
	Name        string `json:"name"`
	Declaration string `json:"declaration"`
	Body        string `json:"-"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	LineCount   int    `json:"line_count"`
}

// classRe matches a class declaration head: access modifier, any mix of
// static/abstract/sealed/partial, the class keyword, an optionally generic
// identifier and an optional base list, up to the opening brace. The brace
// itself is located separately so the body capture starts at the real '{'.
var classRe = regexp.MustCompile(
	`(?:public|private|protected|internal)\s+` +
		`(?:(?:static|abstract|sealed|partial)\s+)*` +
		`class\s+([A-Za-z_]\w*)` +
		`(?:\s*<[^>{]+>)?` +
		`(?:\s*:\s*[^{]+?)?\s*\{`)

// ParseClasses scans source text for top-level class declarations in source
// order. The scan cursor jumps past each captured class body, so classes
// nested inside a captured body never surface as independent entries. A
// class head whose body never closes is a hard error; continuing past it
// would misreport every class that follows.
func ParseClasses(source string) ([]ClassEntity, error) {
	var classes []ClassEntity

	pos := 0
	for pos < len(source) {
		loc := classRe.FindStringSubmatchIndex(source[pos:])
		if loc == nil {
			break
		}

		start := pos + loc[0]
		name := source[pos+loc[2] : pos+loc[3]]
		openBrace := pos + loc[1] - 1 // pattern always ends on '{'

		closeBrace := lexer.FindMatchingBrace(source, openBrace)
		if closeBrace == lexer.NotFound {
			return nil, fmt.Errorf("class %s at offset %d: %w", name, start, ErrMalformedBraces)
		}

		body := source[openBrace : closeBrace+1]
		classes = append(classes, ClassEntity{
			Name:        name,
			Declaration: source[start:openBrace],
			Body:        body,
			StartOffset: start,
			EndOffset:   closeBrace,
			LineCount:   lexer.CountLines(body),
		})

		pos = closeBrace + 1
	}

	return classes, nil
}
