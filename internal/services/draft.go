package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/validate"
)

var ErrValidation = errors.New("validation failed")

// ValidationError lists the failing fields in schema order.
type ValidationError struct {
	Fields map[string]string
	order  []string
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, dup := e.Fields[field]; dup {
		return
	}
	e.Fields[field] = msg
	e.order = append(e.order, field)
}

// Messages returns the field messages in schema order.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.order))
	for _, f := range e.order {
		out = append(out, e.Fields[f])
	}
	return out
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Messages(), "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ParseDraft turns submitted form values into a record for sc. Read-only
// fields are skipped; numbers that do not parse are kept as text so
// ValidateDraft can report them.
func ParseDraft(sc domain.Schema, values map[string][]string) domain.Record {
	d := domain.Record{}
	for _, f := range sc.Editable() {
		vals, present := values[f.Name]
		first := ""
		if len(vals) > 0 {
			first = strings.TrimSpace(vals[0])
		}
		switch f.Kind {
		case domain.KindBool:
			d[f.Name] = present && truthy(first)
		case domain.KindNumber:
			if !present {
				continue
			}
			d[f.Name] = number(first, false)
		case domain.KindInt:
			if !present {
				continue
			}
			d[f.Name] = number(first, true)
		case domain.KindList, domain.KindImages, domain.KindRefs:
			if !present {
				continue
			}
			d[f.Name] = splitList(vals)
		default:
			if !present {
				continue
			}
			d[f.Name] = first
		}
	}
	return d
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// number returns nil for blank input, the parsed value, or the raw text.
func number(s string, whole bool) any {
	if s == "" {
		return nil
	}
	if whole {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		return s
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}

func splitList(vals []string) []string {
	out := []string{}
	for _, v := range vals {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '\n' || r == '\r' }) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ValidateDraft checks required fields, number shapes and field rules.
// It returns a *ValidationError (matching ErrValidation) or nil.
func ValidateDraft(sc domain.Schema, d domain.Record) error {
	verr := &ValidationError{}
	for _, f := range sc.Editable() {
		v, ok := d[f.Name]
		if !ok || blank(v) {
			if f.Required {
				verr.add(f.Name, label(f)+" is required")
			}
			continue
		}
		if f.Numeric() {
			switch n := v.(type) {
			case string:
				verr.add(f.Name, label(f)+" must be a number")
				continue
			case float64:
				if f.Kind == domain.KindInt && n != float64(int64(n)) {
					verr.add(f.Name, label(f)+" must be a whole number")
					continue
				}
			}
		}
		if f.Kind == domain.KindSelect && len(f.Options) > 0 {
			if s, isStr := v.(string); isStr && !contains(f.Options, s) {
				verr.add(f.Name, label(f)+" must be one of "+strings.Join(f.Options, ", "))
				continue
			}
		}
		tag := f.Rules
		if f.Name == sc.Key {
			tag = strings.TrimPrefix(tag+","+validate.KeyTag, ",")
		}
		if tag != "" && !f.Multi() {
			if err := validate.Rule(v, tag); err != nil {
				verr.add(f.Name, label(f)+" "+err.Error())
			}
		}
	}
	if len(verr.order) > 0 {
		return verr
	}
	return nil
}

func blank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

func label(f domain.Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
