package adapter

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	m "islet.dev/pkg/islet/internal/model"
)

// ArtifactWriter persists the rendered-output capture file for a run.
type ArtifactWriter interface {
	Write(path m.Path, summary m.RunSummary) error
}

// HTMLArtifactWriter renders captured output into a single HTML page per
// run so rendered fragments can be inspected in a browser.
type HTMLArtifactWriter struct{}

// NewHTMLArtifactWriter constructs an HTMLArtifactWriter.
func NewHTMLArtifactWriter() *HTMLArtifactWriter {
	return &HTMLArtifactWriter{}
}

// Captured fragments are trusted harness output meant to be viewed as
// markup, so they are emitted unescaped; the <details> copy shows the
// escaped source.
var artifactTemplate = template.Must(template.New("artifact").Funcs(template.FuncMap{
	"raw": func(s string) template.HTML { return template.HTML(s) }, // #nosec G203
}).Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>islet rendered output - run {{.ID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
section { border: 1px solid #ccc; border-radius: 4px; margin: 1em 0; padding: 0 1em 1em; }
h3 { font-weight: normal; color: #555; }
.fragment { border: 1px dashed #999; padding: 1em; background: #fafafa; }
pre { background: #f0f0f0; padding: 0.5em; overflow-x: auto; }
</style>
</head>
<body>
<h1>Rendered output - run {{.ID}}</h1>
{{- range .Files}}{{if .Captures}}
<h2>{{.File}}</h2>
{{- range .Captures}}
<section>
<h3>{{.Block}}{{if .Label}} - {{.Label}}{{end}}</h3>
<div class="fragment">{{raw .Rendered}}</div>
<details><summary>source</summary><pre>{{.Rendered}}</pre></details>
</section>
{{- end}}
{{- end}}{{end}}
</body>
</html>
`))

// Write renders every capture of the run into path.
func (w *HTMLArtifactWriter) Write(path m.Path, summary m.RunSummary) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	f, err := os.Create(string(path)) // #nosec G304 - path is the configured artifact location
	if err != nil {
		return fmt.Errorf("create artifact %q: %w", path, err)
	}

	defer func() { _ = f.Close() }()

	if err := artifactTemplate.Execute(f, summary); err != nil {
		return fmt.Errorf("render artifact: %w", err)
	}

	return nil
}
