package services

import (
	"sort"
	"strings"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
)

// Filter returns the rows whose search fields contain query (case-insensitive,
// trimmed) and whose filter fields equal every non-empty value in filters.
// It never mutates rows and always returns a non-nil slice.
func Filter(rows []domain.Record, sc domain.Schema, query string, filters map[string]string) []domain.Record {
	q := strings.ToLower(strings.TrimSpace(query))
	active := map[string]string{}
	for k, v := range filters {
		if v = strings.TrimSpace(v); v != "" {
			active[k] = v
		}
	}
	if q == "" && len(active) == 0 {
		if rows == nil {
			return []domain.Record{}
		}
		return rows
	}

	search := sc.Search
	if len(search) == 0 {
		search = sc.Columns
	}

	out := make([]domain.Record, 0, len(rows))
	for _, r := range rows {
		if q != "" && !matchesQuery(r, search, q) {
			continue
		}
		if !matchesFilters(r, active) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery(r domain.Record, fields []string, q string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(r.Text(f)), q) {
			return true
		}
	}
	return false
}

func matchesFilters(r domain.Record, active map[string]string) bool {
	for field, want := range active {
		if !strings.EqualFold(r.Text(field), want) {
			return false
		}
	}
	return true
}

// FilterOptions lists the distinct non-empty values of field across rows, or
// defaults when the rows carry none.
func FilterOptions(rows []domain.Record, field string, defaults []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		v := strings.TrimSpace(r.Text(field))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return append([]string(nil), defaults...)
	}
	sort.Strings(out)
	return out
}
