// Package web provides infrastructure for serving server-rendered pages with
// Go templates and embedded static assets.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef is one page: where it is routed, the view file that fills the
// layout, and the page title.
type ViewDef struct {
	Route    string
	Template string
	Title    string
}

// ViewData is what every layout receives. Error is a one-shot banner shown
// above the page content.
type ViewData struct {
	Title    string
	BasePath string
	Error    string
	Data     any
}

// Templates locates layouts and views inside FS. Layout is the template name
// executed for every page.
type Templates struct {
	FS      fs.FS
	Layouts string
	Views   string
	Layout  string
}

// TemplateSet holds one parsed template tree per view.
type TemplateSet struct {
	pages    map[string]*template.Template
	layout   string
	basePath string
}

// NewTemplateSet parses the layouts once and clones them under each view.
func NewTemplateSet(src Templates, basePath string, views ...ViewDef) (*TemplateSet, error) {
	layouts, err := template.ParseFS(src.FS, src.Layouts)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}
	if layouts.Lookup(src.Layout) == nil {
		return nil, fmt.Errorf("layout %q not defined by %s", src.Layout, src.Layouts)
	}

	viewFS, err := fs.Sub(src.FS, src.Views)
	if err != nil {
		return nil, err
	}

	ts := &TemplateSet{
		pages:    make(map[string]*template.Template, len(views)),
		layout:   src.Layout,
		basePath: basePath,
	}
	for _, v := range views {
		page, err := layouts.Clone()
		if err == nil {
			_, err = page.ParseFS(viewFS, v.Template)
		}
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", v.Template, err)
		}
		ts.pages[v.Template] = page
	}
	return ts, nil
}

func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// Data fills ViewData for view.
func (ts *TemplateSet) Data(view ViewDef, data any) ViewData {
	return ViewData{Title: view.Title, BasePath: ts.basePath, Data: data}
}

// Render buffers the page before writing, so a failed execution leaves w
// untouched.
func (ts *TemplateSet) Render(w http.ResponseWriter, status int, view ViewDef, data ViewData) error {
	page, ok := ts.pages[view.Template]
	if !ok {
		return fmt.Errorf("view %s not registered", view.Template)
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, ts.layout, data); err != nil {
		return fmt.Errorf("render %s: %w", view.Template, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Handler renders view with no page data.
func (ts *TemplateSet) Handler(view ViewDef) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ts.Render(w, http.StatusOK, view, ts.Data(view, nil)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
