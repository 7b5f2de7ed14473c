package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one backend entity as decoded from JSON. The backend owns and
// validates it; the console only holds transient copies.
type Record map[string]any

// Text renders a field as a flat string for display, search and equality
// filters. Lists are joined with ", " and embedded objects collapse to their
// name, title or id.
func (r Record) Text(field string) string {
	if r == nil {
		return ""
	}
	return text(r[field])
}

// Strings returns a list field as strings. A scalar becomes a one-element
// list; a missing field is nil.
func (r Record) Strings(field string) []string {
	if r == nil {
		return nil
	}
	switch v := r[field].(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := refID(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := text(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

// Clone copies the top level of the record and any list values, so edits to
// a draft never leak into the list snapshot.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		switch t := v.(type) {
		case []any:
			out[k] = append([]any(nil), t...)
		case []string:
			out[k] = append([]string(nil), t...)
		default:
			out[k] = v
		}
	}
	return out
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case []string:
		return strings.Join(t, ", ")
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := label(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return label(t)
	default:
		return fmt.Sprint(t)
	}
}

// label picks a human name out of an embedded object (a populated reference).
func label(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return text(v)
	}
	for _, k := range []string{"name", "title", "_id", "id"} {
		if s := text(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// refID picks the identifier out of a reference, populated or not.
func refID(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return text(v)
	}
	for _, k := range []string{"_id", "id"} {
		if s := text(m[k]); s != "" {
			return s
		}
	}
	return label(m)
}

// Level classifies a user-facing notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Note is a transient message shown to the admin as a toast.
type Note struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier is the single channel every failure and confirmation is reported
// through.
type Notifier interface {
	Notify(level Level, msg string)
}

// Discard drops notifications.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Level, string) {}
