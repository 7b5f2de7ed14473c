package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
)

// Resource is the CRUD façade for /api/<name>.
type Resource struct {
	c    *Client
	name string
}

func (c *Client) Resource(name string) *Resource {
	return &Resource{c: c, name: name}
}

func (r *Resource) path(id string) string {
	p := "/api/" + r.name
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

func (r *Resource) List(ctx context.Context) ([]domain.Record, error) {
	body, err := r.c.Do(ctx, http.MethodGet, r.path(""), nil)
	if err != nil {
		return nil, err
	}
	rows, err := decodeList(body, r.name)
	if err != nil {
		r.c.report(err)
	}
	return rows, err
}

func (r *Resource) Get(ctx context.Context, id string) (domain.Record, error) {
	body, err := r.c.Do(ctx, http.MethodGet, r.path(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne(body)
}

func (r *Resource) Create(ctx context.Context, rec domain.Record) (domain.Record, error) {
	body, err := r.c.Do(ctx, http.MethodPost, r.path(""), rec)
	if err != nil {
		return nil, err
	}
	return decodeOne(body)
}

func (r *Resource) Update(ctx context.Context, id string, rec domain.Record) (domain.Record, error) {
	body, err := r.c.Do(ctx, http.MethodPut, r.path(id), rec)
	if err != nil {
		return nil, err
	}
	return decodeOne(body)
}

func (r *Resource) Delete(ctx context.Context, id string) error {
	_, err := r.c.Do(ctx, http.MethodDelete, r.path(id), nil)
	return err
}

// decodeList accepts a bare array or an object wrapping one under data,
// items, the resource name (or its camelCase form), or any other array key.
func decodeList(body []byte, name string) ([]domain.Record, error) {
	out := []domain.Record{}
	if len(strings.TrimSpace(string(body))) == 0 {
		return out, nil
	}
	if !gjson.ValidBytes(body) {
		return out, fmt.Errorf("list %s: invalid JSON", name)
	}
	root := gjson.ParseBytes(body)
	arr := root
	if !root.IsArray() {
		arr = gjson.Result{}
		for _, key := range []string{"data", "items", name, camel(name), "data." + camel(name), "data.items"} {
			if v := root.Get(key); v.IsArray() {
				arr = v
				break
			}
		}
		if !arr.Exists() {
			root.ForEach(func(_, v gjson.Result) bool {
				if v.IsArray() {
					arr = v
					return false
				}
				return true
			})
		}
	}
	for _, item := range arr.Array() {
		if !item.IsObject() {
			continue
		}
		var rec domain.Record
		if err := json.Unmarshal([]byte(item.Raw), &rec); err != nil {
			return []domain.Record{}, fmt.Errorf("list %s: %w", name, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// decodeOne reads a record, unwrapping a {"data": {...}} envelope. An empty
// body yields a nil record.
func decodeOne(body []byte) (domain.Record, error) {
	if len(strings.TrimSpace(string(body))) == 0 || !gjson.ValidBytes(body) {
		return nil, nil
	}
	root := gjson.ParseBytes(body)
	if d := root.Get("data"); d.IsObject() {
		root = d
	}
	if !root.IsObject() {
		return nil, nil
	}
	var rec domain.Record
	if err := json.Unmarshal([]byte(root.Raw), &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// camel turns "tour-packages" into "tourPackages".
func camel(s string) string {
	parts := strings.Split(s, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
