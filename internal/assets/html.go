package assets

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/assetconf/internal/pipeline"
)

var defaultPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
{{- range .Styles }}
<link rel="stylesheet" href="{{ . }}">
{{- end }}
</head>
<body>
<div id="root"></div>
{{- range .Scripts }}
<script type="module" src="{{ . }}"></script>
{{- end }}
</body>
</html>
`))

// htmlStep emits an HTML page that loads every entry point
type htmlStep struct {
	filename string
	template string
	title    string
}

func newHTMLStep(_ *pipeline.ResolvedConfig, options map[string]any) (Step, error) {
	filename, err := stringOption(options, "filename", "index.html")
	if err != nil {
		return nil, err
	}
	tmpl, err := stringOption(options, "template", "")
	if err != nil {
		return nil, err
	}
	title, err := stringOption(options, "title", "")
	if err != nil {
		return nil, err
	}
	return &htmlStep{filename: filename, template: tmpl, title: title}, nil
}

func (h *htmlStep) Name() string { return "html" }

func (h *htmlStep) Emit(_ context.Context, em *Emission) error {
	page, err := h.render(em.Scripts, em.Styles)
	if err != nil {
		return err
	}

	target := filepath.Join(em.OutputRoot, h.filename)
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return err
	}
	if err := os.WriteFile(target, page, 0600); err != nil {
		return err
	}

	log.Info().Str("file", target).Msg("Emitted html")
	em.Files = append(em.Files, EmittedFile{Path: target, Contents: page})
	return nil
}

func (h *htmlStep) render(scripts, styles []string) ([]byte, error) {
	if h.template == "" {
		buf := new(bytes.Buffer)
		if err := defaultPage.Execute(buf, map[string]any{
			"Title":   h.title,
			"Scripts": scripts,
			"Styles":  styles,
		}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	src, err := os.ReadFile(h.template)
	if err != nil {
		return nil, fmt.Errorf("failed to read html template: %w", err)
	}
	return injectTags(string(src), scripts, styles), nil
}

// injectTags places stylesheet links before </head> and scripts before </body>,
// appending them when the template lacks those elements.
func injectTags(page string, scripts, styles []string) []byte {
	var links, tags strings.Builder
	for _, href := range styles {
		fmt.Fprintf(&links, "<link rel=\"stylesheet\" href=\"%s\">\n", template.HTMLEscapeString(href))
	}
	for _, src := range scripts {
		fmt.Fprintf(&tags, "<script type=\"module\" src=\"%s\"></script>\n", template.HTMLEscapeString(src))
	}

	page = insertBefore(page, "</head>", links.String())
	page = insertBefore(page, "</body>", tags.String())
	return []byte(page)
}

func insertBefore(page, marker, content string) string {
	if content == "" {
		return page
	}
	idx := strings.LastIndex(strings.ToLower(page), marker)
	if idx == -1 {
		return page + content
	}
	return page[:idx] + content + page[idx:]
}
