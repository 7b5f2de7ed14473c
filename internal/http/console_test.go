package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/config"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/http/handlers"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/repos"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/settings"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/storage"
)

const (
	adminEmail = "admin@tours.test"
	adminPass  = "Passw0rd!"
)

// backend is an in-memory stand-in for the tour REST API.
type backend struct {
	t *testing.T

	mu      sync.Mutex
	rows    map[string][]map[string]any
	calls   []string
	seq     int
	failAll int // status returned for every resource call when set
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	b := &backend{t: t, rows: map[string][]map[string]any{}}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *backend) seed(resource string, rows ...map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows[resource] = append(b.rows[resource], rows...)
}

func (b *backend) records(resource string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.rows[resource]...)
}

// fail makes every resource call answer with status.
func (b *backend) fail(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failAll = status
}

// count returns how many calls matched "METHOD /path" prefix.
func (b *backend) count(prefix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *backend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)

	if r.URL.Path == "/api/auth/login" {
		var in struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email != adminEmail || in.Password != adminPass {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": signToken(b.t, time.Hour)})
		return
	}
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "No token"})
		return
	}
	if b.failAll != 0 {
		writeJSON(w, b.failAll, map[string]any{})
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/"), "/")
	resource := parts[0]
	id := ""
	if len(parts) > 1 {
		id, _ = url.PathUnescape(parts[1])
	}
	key := "_id"
	switch resource {
	case "vehicles":
		key = "vehicleID"
	case "inventory":
		key = "inventoryID"
	}
	find := func() int {
		for i, row := range b.rows[resource] {
			if fmt.Sprint(row[key]) == id {
				return i
			}
		}
		return -1
	}

	switch {
	case r.Method == http.MethodGet && id == "":
		writeJSON(w, http.StatusOK, map[string]any{"data": b.rows[resource]})
	case r.Method == http.MethodPost && id == "":
		var rec map[string]any
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "bad json"})
			return
		}
		if _, ok := rec[key]; !ok {
			b.seq++
			rec[key] = fmt.Sprintf("id-%d", b.seq)
		}
		b.rows[resource] = append(b.rows[resource], rec)
		writeJSON(w, http.StatusCreated, map[string]any{"data": rec})
	case r.Method == http.MethodGet:
		i := find()
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": b.rows[resource][i]})
	case r.Method == http.MethodPut:
		i := find()
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
			return
		}
		var rec map[string]any
		_ = json.NewDecoder(r.Body).Decode(&rec)
		rec[key] = id
		b.rows[resource][i] = rec
		writeJSON(w, http.StatusOK, map[string]any{"data": rec})
	case r.Method == http.MethodDelete:
		i := find()
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
			return
		}
		b.rows[resource] = append(b.rows[resource][:i], b.rows[resource][i+1:]...)
		writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{})
	}
}

func signToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u-1",
		"email": adminEmail,
		"name":  "Ada Admin",
		"role":  "admin",
		"exp":   time.Now().Add(ttl).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

// console is the admin app wired against a fake backend.
type console struct {
	t        *testing.T
	app      *fiber.App
	deps     *handlers.Deps
	api      *backend
	mediaDir string
	jar      map[string]string
}

type consoleSetup struct {
	cfg      config.Config
	sessions *session.Store
}

type consoleOpt func(*consoleSetup)

func withConfig(f func(*config.Config)) consoleOpt {
	return func(s *consoleSetup) { f(&s.cfg) }
}

// withSessions replaces the flash session store.
func withSessions(store *session.Store) consoleOpt {
	return func(s *consoleSetup) { s.sessions = store }
}

func newConsole(t *testing.T, opts ...consoleOpt) *console {
	return newConsoleWithGuard(t, nil, opts...)
}

func newConsoleWithGuard(t *testing.T, loginGuard fiber.Handler, opts ...consoleOpt) *console {
	t.Helper()
	return buildConsole(t, loginGuard, nil, opts...)
}

// buildConsole mounts the console behind the given app-wide middleware.
func buildConsole(t *testing.T, loginGuard fiber.Handler, use []fiber.Handler, opts ...consoleOpt) *console {
	t.Helper()
	api, srv := newBackend(t)
	cfg := config.Config{
		APIBaseURL: srv.URL,
		APITimeout: 5 * time.Second,
		DBDSN:      ":memory:",
		Storage:    config.StorageConfig{Driver: "local", Prefix: "uploads", MaxBytes: 1 << 20},
	}
	setup := consoleSetup{cfg: cfg}
	for _, o := range opts {
		o(&setup)
	}
	cfg = setup.cfg
	db, err := repos.OpenDB(cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mediaDir := t.TempDir()
	deps, err := handlers.NewDeps(cfg, db, repos.NewSQLiteKV(db), storage.NewLocalUploader(mediaDir, cfg.Storage.Prefix))
	require.NoError(t, err)
	if setup.sessions != nil {
		deps.Sessions = setup.sessions
		deps.AdminHandler.Sessions = setup.sessions
	}

	app := fiber.New(fiber.Config{
		Views:        handlers.NewViews("../../web/templates"),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())
	for _, h := range use {
		app.Use(h)
	}
	deps.Mount(app, loginGuard)

	return &console{t: t, app: app, deps: deps, api: api, mediaDir: mediaDir, jar: map[string]string{}}
}

// signIn stores a backend token for a fresh browser id.
func (c *console) signIn() {
	c.t.Helper()
	sid := uuid.NewString()
	c.jar["sid"] = sid
	require.NoError(c.t, c.deps.Settings.SetToken(c.ctx(), signToken(c.t, time.Hour)))
}

// ctx carries the current browser id like the Browser middleware does.
func (c *console) ctx() context.Context {
	return settings.WithBrowser(context.Background(), c.jar["sid"])
}

func (c *console) do(req *http.Request) *http.Response {
	c.t.Helper()
	for name, v := range c.jar {
		req.AddCookie(&http.Cookie{Name: name, Value: v})
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.jar, ck.Name)
			continue
		}
		c.jar[ck.Name] = ck.Value
	}
	return resp
}

func (c *console) get(path string) *http.Response {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *console) postForm(path string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func mealSchema(t *testing.T) domain.Schema {
	t.Helper()
	sc, ok := domain.Lookup("meals")
	require.True(t, ok)
	return sc
}

func (c *console) postMultipart(path string, fields url.Values, fileName string, data []byte) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(c.t, w.WriteField(k, v))
		}
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		require.NoError(c.t, err)
		_, err = fw.Write(data)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req)
}

// pngBytes is a 1x1 PNG.
func pngBytes() []byte {
	return []byte("\x89PNG\r\n\x1a\n" +
		"\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89" +
		"\x00\x00\x00\rIDATx\x9cc\xf8\x0f\x00\x00\x01\x01\x00\x05\x18\xd8N" +
		"\x00\x00\x00\x00IEND\xaeB`\x82")
}
