package parser

import (
	"regexp"
	"strings"
)

// Call is a lexical call-site: an identifier followed by '(' inside a method
// body, heuristically interpreted as an invocation. Qualifier is "this" for
// unqualified and this-qualified calls, otherwise the token before the dot.
type Call struct {
	Qualifier string `json:"qualifier"`
	Name      string `json:"name"`
}

var callRe = regexp.MustCompile(
	`(?:await\s+)?(?:this\.)?(?:([A-Za-z_]\w*)\.)?([A-Za-z_]\w*)\s*\(`)

// callExclusions holds language keywords and common framework members that
// look like call-sites but never resolve to user methods.
var callExclusions = map[string]bool{
	"if": true, "for": true, "foreach": true, "while": true, "switch": true,
	"catch": true, "using": true, "lock": true, "return": true, "throw": true,
	"new": true, "base": true, "nameof": true, "typeof": true, "sizeof": true,
	"checked": true, "unchecked": true, "defaultof": true, "when": true,
	"ToString": true, "Equals": true, "GetHashCode": true, "GetType": true,
	"CompareTo": true, "Parse": true, "TryParse": true, "Format": true,
	"Write": true, "WriteLine": true, "ReadLine": true, "Console": true,
	"Add": true, "Remove": true, "Clear": true, "Contains": true,
	"ContainsKey": true, "TryGetValue": true, "Count": true, "Any": true,
	"First": true, "FirstOrDefault": true, "Where": true, "Select": true,
	"OrderBy": true, "Join": true, "Split": true, "Trim": true, "Replace": true,
	"Substring": true, "IndexOf": true, "StartsWith": true, "EndsWith": true,
	"IsNullOrEmpty": true, "IsNullOrWhiteSpace": true, "ConfigureAwait": true,
	"Invoke": true, "Dispose": true, "Task": true, "Run": true, "Delay": true,
	"FromResult": true, "WhenAll": true, "Wait": true,
}

// ParseMethodCalls extracts call-sites from a captured method. Only the
// inner statement body (between the first '{' and last '}') is scanned, so
// the method's own signature never shows up as a call. Identifiers must be
// longer than one character; single letters are almost always lambda
// parameters or loop variables.
func ParseMethodCalls(methodText string) []Call {
	open := strings.IndexByte(methodText, '{')
	close := strings.LastIndexByte(methodText, '}')
	if open < 0 || close <= open {
		return nil
	}
	body := methodText[open+1 : close]

	var calls []Call
	seen := make(map[string]bool)

	for _, m := range callRe.FindAllStringSubmatch(body, -1) {
		qualifier, name := m[1], m[2]

		if len(name) <= 1 || callExclusions[name] {
			continue
		}
		if qualifier != "" && callExclusions[qualifier] {
			continue
		}
		if qualifier == "" {
			qualifier = "this"
		}

		key := qualifier + "." + name
		if seen[key] {
			continue
		}
		seen[key] = true
		calls = append(calls, Call{Qualifier: qualifier, Name: name})
	}

	return calls
}

// CountMethodCalls tallies how many times each callee name appears in the
// method body, using the same filtering as ParseMethodCalls. Used for the
// call-frequency table in method statistics.
func CountMethodCalls(methodText string) map[string]int {
	open := strings.IndexByte(methodText, '{')
	close := strings.LastIndexByte(methodText, '}')
	if open < 0 || close <= open {
		return nil
	}
	body := methodText[open+1 : close]

	counts := make(map[string]int)
	for _, m := range callRe.FindAllStringSubmatch(body, -1) {
		qualifier, name := m[1], m[2]
		if len(name) <= 1 || callExclusions[name] {
			continue
		}
		if qualifier != "" && callExclusions[qualifier] {
			continue
		}
		counts[name]++
	}
	return counts
}
