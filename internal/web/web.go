// Package web holds the server side HTML templates.
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"osintranet/internal/domain"
)

//go:embed templates/*.html
var files embed.FS

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(domain.DateLayout)
	},
	"negative": func(d decimal.Decimal) bool {
		return d.IsNegative()
	},
}

// Templates parses every embedded template. The result is meant for
// gin.Engine.SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.New("osintranet").Funcs(Funcs).ParseFS(files, "templates/*.html")
}
