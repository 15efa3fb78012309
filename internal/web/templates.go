package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/muhammadolammi/resumematcher/internal/analysis"
)

//go:embed templates/*.html static/*
var assets embed.FS

const (
	pageLanding   = "landing"
	pageAuth      = "auth"
	pageDashboard = "dashboard"
	pageMatcher   = "matcher"
)

type pages map[string]*template.Template

var funcs = template.FuncMap{
	"category": analysis.CategoryFor,
	"score":    func(v float64) string { return fmt.Sprintf("%.0f", v) },
	"join":     strings.Join,
	"trendIcon": func(t analysis.Trend) string {
		switch t {
		case analysis.TrendUp:
			return "▲"
		case analysis.TrendDown:
			return "▼"
		default:
			return "–"
		}
	},
}

// parsePages builds one template set per page so each can define its own
// "content" block inside the shared layout.
func parsePages() (pages, error) {
	out := pages{}
	for _, name := range []string{pageLanding, pageAuth, pageDashboard, pageMatcher} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/history.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func staticFS() fs.FS {
	return assets
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := s.pages[page].Execute(&buf, data); err != nil {
		s.log.WithError(err).Error("failed to render page", map[string]interface{}{"page": page})
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
