package report

import (
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ihavespoons/shear/internal/split"
)

// HTMLReporter renders a split-job summary as a standalone HTML page.
type HTMLReporter struct {
	toolName    string
	toolVersion string
	className   string
}

// NewHTMLReporter creates a new HTML reporter
func NewHTMLReporter(className string) *HTMLReporter {
	return &HTMLReporter{
		toolName:    "shear",
		toolVersion: "1.0.0",
		className:   className,
	}
}

// FileSummary describes one generated file for the report.
type FileSummary struct {
	Path    string
	Kind    string
	Methods []string
	Lines   int
}

// Render builds the HTML report for a completed job.
func (r *HTMLReporter) Render(result *split.JobResult, files []FileSummary) []byte {
	var b strings.Builder

	title := fmt.Sprintf("Split Report: %s", html.EscapeString(r.className))

	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>` + title + `</title>
    <style>
        :root {
            --bg: #f8fafc;
            --card-bg: #ffffff;
            --text: #1e293b;
            --text-muted: #64748b;
            --border: #e2e8f0;
            --accent: #2563eb;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg);
            color: var(--text);
            line-height: 1.6;
            padding: 2rem;
        }
        .container { max-width: 900px; margin: 0 auto; }
        h1 { font-size: 1.8rem; margin-bottom: 0.5rem; }
        .meta { color: var(--text-muted); margin-bottom: 2rem; }
        .card {
            background: var(--card-bg);
            border: 1px solid var(--border);
            border-radius: 8px;
            padding: 1.25rem;
            margin-bottom: 1rem;
        }
        .card h2 { font-size: 1.1rem; margin-bottom: 0.5rem; }
        .kind { color: var(--accent); font-size: 0.85rem; text-transform: uppercase; }
        .lines { color: var(--text-muted); font-size: 0.9rem; }
        ul { margin: 0.5rem 0 0 1.5rem; }
        code { background: var(--bg); padding: 0.1rem 0.3rem; border-radius: 4px; }
    </style>
</head>
<body>
<div class="container">
`)

	b.WriteString(fmt.Sprintf("<h1>%s</h1>\n", title))
	b.WriteString(fmt.Sprintf(
		`<p class="meta">Generated by %s %s on %s &middot; %d method(s) distributed across %d file(s)</p>`+"\n",
		r.toolName, r.toolVersion,
		time.Now().Format("2006-01-02 15:04"),
		result.MethodsOut, len(result.Files)+1,
	))

	caser := cases.Title(language.English)
	for _, f := range files {
		b.WriteString(`<div class="card">` + "\n")
		b.WriteString(fmt.Sprintf(`<span class="kind">%s</span>`+"\n", caser.String(f.Kind)))
		b.WriteString(fmt.Sprintf("<h2>%s</h2>\n", html.EscapeString(filepath.Base(f.Path))))
		b.WriteString(fmt.Sprintf(`<p class="lines">%d lines</p>`+"\n", f.Lines))
		if len(f.Methods) > 0 {
			b.WriteString("<ul>\n")
			for _, m := range f.Methods {
				b.WriteString(fmt.Sprintf("<li><code>%s</code></li>\n", html.EscapeString(m)))
			}
			b.WriteString("</ul>\n")
		}
		b.WriteString("</div>\n")
	}

	b.WriteString("</div>\n</body>\n</html>\n")
	return []byte(b.String())
}
