package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/TWRT/monday-forms/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageIndex   = "index.html"
	pageForm    = "form.html"
	pageSuccess = "success.html"
)

// Pages renders the embedded HTML templates.
type Pages struct {
	tmpl   *template.Template
	logger *zap.Logger
}

func NewPages(logger *zap.Logger) (*Pages, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl, err := template.New("pages").Funcs(template.FuncMap{
		"ratingScale": func() []int { return []int{1, 2, 3, 4, 5} },
		"label":       questionLabel,
		"headerOrder": func() []string {
			return []string{models.HeaderTrip, models.HeaderDestination, models.HeaderDate, models.HeaderClient}
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Pages{tmpl: tmpl, logger: logger.Named("pages")}, nil
}

// Render executes into a buffer first so a template error still yields a
// clean 500 instead of a half-written page.
func (p *Pages) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		p.logger.Error("render page", zap.String("page", name), zap.Error(err))
		writeText(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// questionLabel is the prompt shown for a question. Remote-sourced questions
// fall back to their resolved column value.
func questionLabel(q models.Question) string {
	if q.Text != "" {
		return q.Text
	}
	if q.IsRemoteSourced() {
		return q.ColumnValue
	}
	return q.Title
}
