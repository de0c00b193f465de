// ABOUTME: Template loading and rendering for admin UI.
// ABOUTME: Embeds HTML templates and the button stylesheet, and provides render helpers.

package admin

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// toolPartials are the button and row fragments shared by pages and htmx responses
var toolPartials = []string{
	"templates/row_tools.html",
	"templates/object_tools.html",
	"templates/changelist_rows.html",
}

// pageFiles maps page names to their template files
var pageFiles = map[string]string{
	"index":               "templates/index.html",
	"changelist":          "templates/changelist.html",
	"change":              "templates/change.html",
	"intermediate_action": "templates/intermediate_action.html",
}

var (
	pageTmpls    map[string]*template.Template
	partialTmpls *template.Template
)

func init() {
	layout := template.Must(template.ParseFS(templateFS, "templates/layout.html"))
	partialTmpls = template.Must(template.ParseFS(templateFS, toolPartials...))

	// Each page gets its own layout clone so their "content" blocks don't collide.
	pageTmpls = make(map[string]*template.Template, len(pageFiles))
	for name, path := range pageFiles {
		tmpl := template.Must(layout.Clone())
		tmpl = template.Must(tmpl.ParseFS(templateFS, path))
		pageTmpls[name] = template.Must(tmpl.ParseFS(templateFS, toolPartials...))
	}
}

func renderPage(w io.Writer, page string, data any) error {
	tmpl, ok := pageTmpls[page]
	if !ok {
		return fmt.Errorf("unknown admin page %q", page)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

func renderPartial(w io.Writer, name string, data any) error {
	return partialTmpls.ExecuteTemplate(w, name, data)
}
