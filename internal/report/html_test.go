package report

import (
	"strings"
	"testing"

	"github.com/ihavespoons/shear/internal/split"
)

func TestRenderReport(t *testing.T) {
	result := &split.JobResult{
		Files:      []string{"out/UserManager.Reads.cs"},
		CoreFile:   "out/UserManager.Core.cs",
		MethodsOut: 3,
	}
	files := []FileSummary{
		{Path: "out/UserManager.Reads.cs", Kind: "partial", Methods: []string{"GetUser", "GetUserAsync"}, Lines: 40},
		{Path: "out/UserManager.Core.cs", Kind: "core", Lines: 12},
	}

	html := string(NewHTMLReporter("UserManager").Render(result, files))

	for _, want := range []string{
		"Split Report: UserManager",
		"UserManager.Reads.cs",
		"UserManager.Core.cs",
		"<code>GetUser</code>",
		"3 method(s) distributed",
		"Partial",
		"Core",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderEscapesNames(t *testing.T) {
	result := &split.JobResult{CoreFile: "out/X.cs"}
	files := []FileSummary{
		{Path: "out/X.cs", Kind: "core", Methods: []string{"Compare<T>"}},
	}

	html := string(NewHTMLReporter("X<T>").Render(result, files))
	if strings.Contains(html, "Compare<T>") {
		t.Error("method name not escaped")
	}
	if !strings.Contains(html, "Compare&lt;T&gt;") {
		t.Error("escaped method name missing")
	}
}
