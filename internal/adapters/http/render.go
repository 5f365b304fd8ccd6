package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"radioclub/internal/adapters/http/middleware"
	"radioclub/internal/application/listutil"
	"radioclub/internal/domain/export"
)

//go:embed templates/*.html
var templateFS embed.FS

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// renderTemplate executes layout.html with the named page at the given status.
// The page is rendered into a buffer first so template errors never leave a
// half-written response.
func renderTemplate(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	_, isAdmin := middleware.AdminFromContext(r.Context())

	funcMap := template.FuncMap{
		"csrfField":      func() template.HTML { return csrf.TemplateField(r) },
		"isAdmin":        func() bool { return isAdmin },
		"renderMarkdown": renderMarkdown,
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format(export.TimeLayout)
		},
		"sortHeaderArgs": func(col, label string, p listutil.ListParams) map[string]string {
			return map[string]string{
				"Col": col, "Label": label,
				"NextDir": p.NextDir(col), "Indicator": p.Indicator(col),
				"Search": p.Search,
			}
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
