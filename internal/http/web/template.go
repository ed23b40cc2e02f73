package web

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

var pages = []string{"index.html", "dashboard.html"}

var funcMap = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"date": func(t time.Time) string {
		return t.Format(time.DateOnly)
	},
	"negative": func(d decimal.Decimal) bool {
		return d.IsNegative()
	},
}

// renderer keeps one parsed set per page, each sharing layout.html.
type renderer struct {
	pages map[string]*template.Template
}

func parseTemplates() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template, len(pages))}

	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}

		r.pages[page] = tmpl
	}

	return r, nil
}

func (r *renderer) render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := r.pages[page]
	if !ok {
		slog.Error("unknown template", "page", page)
		http.Error(w, "Template Error", http.StatusInternalServerError)

		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to execute template", "page", page, "error", err)
		http.Error(w, "Template Error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
