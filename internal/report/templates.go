package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"pagecheck/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

type templates struct {
	set map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"percent": func(done, total int) string {
		if total == 0 {
			return "0%"
		}
		return fmt.Sprintf("%.1f%%", float64(done)*100/float64(total))
	},
	"title": func(value string) string {
		return strings.ReplaceAll(value, "_", " ")
	},
}

func parseTemplates() (*templates, error) {
	out := &templates{set: make(map[string]*template.Template)}
	for _, name := range []string{"summary.html", "report.html", "page.html"} {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		out.set[name] = tmpl
	}
	return out, nil
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages.set[name]
	if !ok {
		http.Error(w, "unknown view", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.ErrorWithContext(s.logger, "report render failed", "report_render_failed",
			logging.String("template", name),
			logging.Error(err),
		)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
