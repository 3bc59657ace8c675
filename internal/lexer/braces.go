package lexer

// Package lexer provides brace-aware scanning over C# source text.
// It is a character-level state machine, not a grammar: string literals,
// line comments and block comments are skipped so that braces inside them
// never count toward nesting depth.

// scanMode tracks which lexical region the scanner is currently inside.
type scanMode int

const (
	modeNormal scanMode = iota
	modeString
	modeLineComment
	modeBlockComment
)

// NotFound is returned when no matching brace exists before end of text.
const NotFound = -1

// FindMatchingBrace returns the index of the '}' that closes the '{' at
// openIdx, skipping braces inside string literals and both comment styles.
// Returns NotFound when the text ends before depth returns to zero, which
// signals malformed input to the caller.
func FindMatchingBrace(text string, openIdx int) int {
	if openIdx < 0 || openIdx >= len(text) || text[openIdx] != '{' {
		return NotFound
	}

	depth := 1
	mode := modeNormal

	for i := openIdx + 1; i < len(text); i++ {
		c := text[i]

		switch mode {
		case modeString:
			if c == '\\' {
				i++ // escape consumes the next character
			} else if c == '"' {
				mode = modeNormal
			}

		case modeLineComment:
			if c == '\n' || c == '\r' {
				mode = modeNormal
			}

		case modeBlockComment:
			if c == '*' && i+1 < len(text) && text[i+1] == '/' {
				mode = modeNormal
				i++
			}

		case modeNormal:
			switch c {
			case '"':
				mode = modeString
			case '/':
				if i+1 < len(text) {
					switch text[i+1] {
					case '/':
						mode = modeLineComment
						i++
					case '*':
						mode = modeBlockComment
						i++
					}
				}
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return i
				}
			}
		}
	}

	return NotFound
}

// FindMatchingParen returns the index of the ')' closing the '(' at openIdx,
// with the same string and comment handling as FindMatchingBrace. Used to
// capture balanced parameter lists that contain nested parentheses.
func FindMatchingParen(text string, openIdx int) int {
	if openIdx < 0 || openIdx >= len(text) || text[openIdx] != '(' {
		return NotFound
	}

	depth := 1
	mode := modeNormal

	for i := openIdx + 1; i < len(text); i++ {
		c := text[i]

		switch mode {
		case modeString:
			if c == '\\' {
				i++
			} else if c == '"' {
				mode = modeNormal
			}

		case modeLineComment:
			if c == '\n' || c == '\r' {
				mode = modeNormal
			}

		case modeBlockComment:
			if c == '*' && i+1 < len(text) && text[i+1] == '/' {
				mode = modeNormal
				i++
			}

		case modeNormal:
			switch c {
			case '"':
				mode = modeString
			case '/':
				if i+1 < len(text) {
					switch text[i+1] {
					case '/':
						mode = modeLineComment
						i++
					case '*':
						mode = modeBlockComment
						i++
					}
				}
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return i
				}
			}
		}
	}

	return NotFound
}

// CountLines returns the number of newline-delimited lines in a span of text.
func CountLines(text string) int {
	if text == "" {
		return 0
	}
	lines := 1
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines++
		}
	}
	return lines
}
