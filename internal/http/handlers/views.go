package handlers

import (
	"strings"

	html "github.com/gofiber/template/html/v2"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
)

// NewViews loads the templates under dir with the helpers they rely on.
func NewViews(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("cell", cell)
	engine.AddFunc("fieldValue", fieldValue)
	engine.AddFunc("isTrue", func(r domain.Record, field string) bool {
		v, _ := r[field].(bool)
		return v
	})
	engine.AddFunc("has", func(list []string, v string) bool {
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	})
	engine.AddFunc("strings", func(r domain.Record, field string) []string { return r.Strings(field) })
	engine.AddFunc("keyOf", func(sc domain.Schema, r domain.Record) string { return sc.KeyOf(r) })
	engine.AddFunc("label", func(sc domain.Schema, field string) string { return sc.Label(field) })
	engine.AddFunc("title", func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	})
	return engine
}

// cell renders a table value, shortened for the list view.
func cell(r domain.Record, field string) string {
	s := r.Text(field)
	if len([]rune(s)) > 80 {
		s = string([]rune(s)[:77]) + "..."
	}
	return s
}

// fieldValue renders a field for its form input.
func fieldValue(r domain.Record, f domain.Field) string {
	switch f.Kind {
	case domain.KindImages, domain.KindRefs:
		return strings.Join(r.Strings(f.Name), "\n")
	case domain.KindList:
		return strings.Join(r.Strings(f.Name), ", ")
	case domain.KindDate:
		s := r.Text(f.Name)
		// ISO timestamps fill a date input with their day part
		if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
			return s[:10]
		}
		return s
	default:
		return r.Text(f.Name)
	}
}
