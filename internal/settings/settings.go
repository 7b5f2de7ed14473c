// Package settings persists per-browser console state: the backend bearer
// token, sidebar accordion flags and list filters. Values live in a
// repos.KV so the backing store can be swapped without touching callers.
package settings

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/repos"
)

const TokenKey = "token"

var ErrNoBrowser = errors.New("settings: no browser id in context")

type browserKey struct{}

// WithBrowser scopes ctx to one browser id.
func WithBrowser(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, browserKey{}, id)
}

func BrowserFrom(ctx context.Context) string {
	id, _ := ctx.Value(browserKey{}).(string)
	return id
}

type Store struct {
	kv  repos.KV
	box *sealer
}

// New wraps kv. sealKey may be empty, in which case tokens are stored as is.
func New(kv repos.KV, sealKey string) (*Store, error) {
	box, err := newSealer(sealKey)
	if err != nil {
		return nil, err
	}
	return &Store{kv: kv, box: box}, nil
}

func scoped(ctx context.Context, key string) (string, error) {
	id := BrowserFrom(ctx)
	if id == "" {
		return "", ErrNoBrowser
	}
	return id + ":" + key, nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	k, err := scoped(ctx, key)
	if err != nil {
		return "", false, nil
	}
	return s.kv.Get(ctx, k)
}

func (s *Store) set(ctx context.Context, key, value string) error {
	k, err := scoped(ctx, key)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, k, value)
}

// ---------- Token ----------

// Token returns the stored bearer token, or "" when none is usable.
func (s *Store) Token(ctx context.Context) (string, error) {
	v, ok, err := s.get(ctx, TokenKey)
	if err != nil || !ok {
		return "", err
	}
	plain, ok := s.box.open(v)
	if !ok {
		return "", nil
	}
	return plain, nil
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	v, err := s.box.seal(token)
	if err != nil {
		return err
	}
	return s.set(ctx, TokenKey, v)
}

func (s *Store) ClearToken(ctx context.Context) error {
	k, err := scoped(ctx, TokenKey)
	if err != nil {
		return err
	}
	return s.kv.Delete(ctx, k)
}

// TokenSource adapts the store for the API client. Read errors yield no token.
func (s *Store) TokenSource() func(ctx context.Context) string {
	return func(ctx context.Context) string {
		t, _ := s.Token(ctx)
		return t
	}
}

// ---------- Sidebar ----------

// Sidebar reports the open state of each section. Sections never toggled are open.
func (s *Store) Sidebar(ctx context.Context, sections []string) (map[string]bool, error) {
	out := make(map[string]bool, len(sections))
	for _, sec := range sections {
		v, ok, err := s.get(ctx, "sidebar."+sec)
		if err != nil {
			return nil, err
		}
		open := true
		if ok {
			if b, perr := strconv.ParseBool(v); perr == nil {
				open = b
			}
		}
		out[sec] = open
	}
	return out, nil
}

func (s *Store) SetSidebar(ctx context.Context, section string, open bool) error {
	return s.set(ctx, "sidebar."+section, strconv.FormatBool(open))
}

// ---------- Filters ----------

// Filters is the persisted search box and filter selections of one list page.
type Filters struct {
	Query  string
	Values map[string]string
}

// Filters loads the saved filters for sc. found is false when nothing was ever saved.
func (s *Store) Filters(ctx context.Context, sc domain.Schema) (Filters, bool, error) {
	f := Filters{Values: map[string]string{}}
	prefix := "filter." + sc.Resource + "."
	found := false

	q, ok, err := s.get(ctx, prefix+"q")
	if err != nil {
		return f, false, err
	}
	if ok {
		found = true
		f.Query = q
	}
	for _, name := range sc.Filters {
		v, ok, err := s.get(ctx, prefix+name)
		if err != nil {
			return f, false, err
		}
		if ok {
			found = true
			if v != "" {
				f.Values[name] = v
			}
		}
	}
	return f, found, nil
}

// SetFilters saves every filter field of sc, including cleared ones.
func (s *Store) SetFilters(ctx context.Context, sc domain.Schema, f Filters) error {
	prefix := "filter." + sc.Resource + "."
	if err := s.set(ctx, prefix+"q", strings.TrimSpace(f.Query)); err != nil {
		return err
	}
	for _, name := range sc.Filters {
		if err := s.set(ctx, prefix+name, f.Values[name]); err != nil {
			return err
		}
	}
	return nil
}
