package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"

	"github.com/aanand-mishra/edutrack/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

const title = "EduTrack Pro - Student Management System"

// Page is the data the index template renders.
type Page struct {
	Title    string
	Name     string
	Age      int
	MinAge   int
	MaxAge   int
	Feedback *Feedback
}

// NewPage returns a page with an empty form.
func NewPage() Page {
	return Page{
		Title:  title,
		Age:    types.DefaultAge,
		MinAge: types.MinAge,
		MaxAge: types.MaxAge,
	}
}

// Renderer executes the embedded templates. In prod the output is minified.
type Renderer struct {
	tmpl     *template.Template
	minifier *minify.M
}

func NewRenderer(env string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("dashboard.NewRenderer: parse templates: %w", err)
	}

	r := &Renderer{tmpl: tmpl}
	if env == "prod" {
		r.minifier = minify.New()
		r.minifier.AddFunc("text/html", minhtml.Minify)
	}
	return r, nil
}

// Render writes page with the given status. The template is executed into a
// buffer first so a template error can still produce a 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, page Page) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "index.html", page); err != nil {
		slog.Error("error rendering page", slog.String("error", err.Error()))
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	body := buf.Bytes()
	if r.minifier != nil {
		var min bytes.Buffer
		if err := r.minifier.Minify("text/html", &min, bytes.NewReader(body)); err == nil {
			body = min.Bytes()
		} else {
			slog.Warn("html minify failed, serving original", slog.String("error", err.Error()))
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
