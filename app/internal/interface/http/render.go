package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	domproduct "github.com/deep1161/djMART/app/internal/domain/product"
	"github.com/deep1161/djMART/app/internal/format"
	"github.com/deep1161/djMART/app/internal/usecase/productview"
)

//go:embed templates/*.html
var templatesFS embed.FS

type pageRenderer struct {
	templates *template.Template
}

func newPageRenderer(prices *format.PriceFormatter) *pageRenderer {
	funcs := template.FuncMap{
		"price": prices.Format,
		"truncate": func(s string) string {
			return format.Truncate(s, format.CardDescriptionLength)
		},
		"photo":      domproduct.PhotoPath,
		"detail":     domproduct.DetailPath,
		"pathEscape": url.PathEscape,
	}
	return &pageRenderer{
		templates: template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")),
	}
}

type productPageView struct {
	Page     productview.Page
	Messages []string
}

// product renders into a buffer first so a template failure never leaves a
// half written page behind.
func (p *pageRenderer) product(w http.ResponseWriter, page productview.Page, messages []string) error {
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, "product.html", productPageView{Page: page, Messages: messages}); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}
