package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/apiclient"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
)

type notes struct{ got []domain.Note }

func (n *notes) Notify(l domain.Level, msg string) {
	n.got = append(n.got, domain.Note{Level: l, Message: msg})
}

func newClient(t *testing.T, h http.HandlerFunc, token string) (*apiclient.Client, *notes) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	n := &notes{}
	c := apiclient.New(apiclient.Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second},
		func(context.Context) string { return token }).WithNotifier(n)
	return c, n
}

func TestBearerHeaderAttached(t *testing.T) {
	var auth, accept string
	c, n := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth, accept = r.Header.Get("Authorization"), r.Header.Get("Accept")
		_, _ = io.WriteString(w, `[]`)
	}, "tok-1")

	rows, err := c.Resource("meals").List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer tok-1" || accept != "application/json" {
		t.Fatalf("headers auth=%q accept=%q", auth, accept)
	}
	if rows == nil || len(rows) != 0 || len(n.got) != 0 {
		t.Fatalf("rows=%v notes=%v", rows, n.got)
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	var has bool
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, has = r.Header["Authorization"]
		_, _ = io.WriteString(w, `[]`)
	}, "")
	if _, err := c.Resource("meals").List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if has {
		t.Fatal("Authorization sent without a token")
	}
}

func TestAuthFailuresNotify(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, apiclient.MsgUnauthorized},
		{http.StatusForbidden, apiclient.MsgForbidden},
	}
	for _, tc := range cases {
		c, n := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, `{"message":"jwt expired"}`)
		}, "tok")
		_, err := c.Resource("blogs").Get(context.Background(), "1")
		if !apiclient.IsAuth(err) {
			t.Fatalf("%d: IsAuth(%v) = false", tc.status, err)
		}
		if len(n.got) != 1 || n.got[0].Message != tc.want || n.got[0].Level != domain.LevelError {
			t.Fatalf("%d: notes %v", tc.status, n.got)
		}
	}
}

func TestBackendMessageSurfaced(t *testing.T) {
	c, n := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"name is required"}`)
	}, "tok")
	_, err := c.Resource("meals").Create(context.Background(), domain.Record{})
	var ae *apiclient.APIError
	if !errors.As(err, &ae) || ae.Status != 400 || ae.Message != "name is required" {
		t.Fatalf("err = %v", err)
	}
	if apiclient.IsAuth(err) {
		t.Fatal("400 is not an auth failure")
	}
	if len(n.got) != 1 || n.got[0].Message != "name is required" {
		t.Fatalf("notes %v", n.got)
	}
}

func TestGenericMessageWhenBodyEmpty(t *testing.T) {
	c, n := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, "tok")
	if err := c.Resource("meals").Delete(context.Background(), "1"); err == nil {
		t.Fatal("expected error")
	}
	if len(n.got) != 1 || n.got[0].Message != apiclient.MsgGeneric {
		t.Fatalf("notes %v", n.got)
	}
}

func TestTransportErrorNotifiesGeneric(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	n := &notes{}
	c := apiclient.New(apiclient.Config{BaseURL: srv.URL}, nil).WithNotifier(n)
	if _, err := c.Resource("meals").List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(n.got) != 1 || n.got[0].Message != apiclient.MsgGeneric {
		t.Fatalf("notes %v", n.got)
	}
}

func TestResourceRoutes(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	var lastBody map[string]any
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.EscapedPath()})
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&lastBody)
		}
		_, _ = io.WriteString(w, `{"data":{"vehicleID":"V 1","brand":"Toyota"}}`)
	}, "tok")

	res := c.Resource("vehicles")
	ctx := context.Background()
	got, err := res.Get(ctx, "V 1")
	if err != nil || got.Text("brand") != "Toyota" {
		t.Fatalf("get %v %v", got, err)
	}
	if _, err := res.Create(ctx, domain.Record{"brand": "Nissan"}); err != nil {
		t.Fatal(err)
	}
	if lastBody["brand"] != "Nissan" {
		t.Fatalf("body %v", lastBody)
	}
	if _, err := res.Update(ctx, "V 1", domain.Record{"brand": "Honda"}); err != nil {
		t.Fatal(err)
	}
	if err := res.Delete(ctx, "V 1"); err != nil {
		t.Fatal(err)
	}

	want := []call{
		{"GET", "/api/vehicles/V%201"},
		{"POST", "/api/vehicles"},
		{"PUT", "/api/vehicles/V%201"},
		{"DELETE", "/api/vehicles/V%201"},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestListEnvelopes(t *testing.T) {
	bodies := map[string]string{
		"bare":     `[{"_id":"1"},{"_id":"2"}]`,
		"data":     `{"success":true,"data":[{"_id":"1"},{"_id":"2"}]}`,
		"named":    `{"count":2,"tourPackages":[{"_id":"1"},{"_id":"2"}]}`,
		"fallback": `{"count":2,"results":[{"_id":"1"},{"_id":"2"}]}`,
	}
	for name, body := range bodies {
		body := body
		c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		}, "")
		rows, err := c.Resource("tour-packages").List(context.Background())
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(rows) != 2 || rows[1].Text("_id") != "2" {
			t.Fatalf("%s: rows %v", name, rows)
		}
	}
}

func TestListInvalidJSONIsEmptyAndNotified(t *testing.T) {
	c, n := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>`)
	}, "")
	rows, err := c.Resource("meals").List(context.Background())
	if err == nil || rows == nil || len(rows) != 0 {
		t.Fatalf("rows=%v err=%v", rows, err)
	}
	if len(n.got) != 1 {
		t.Fatalf("notes %v", n.got)
	}
}

func TestLogin(t *testing.T) {
	var got map[string]string
	c, n := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got["password"] != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"token":"abc"}}`)
	}, "")

	tok, err := c.Login(context.Background(), "admin@example.com", "pw")
	if err != nil || tok != "abc" {
		t.Fatalf("tok=%q err=%v", tok, err)
	}
	if got["email"] != "admin@example.com" {
		t.Fatalf("payload %v", got)
	}

	_, err = c.Login(context.Background(), "admin@example.com", "nope")
	if !apiclient.IsAuth(err) {
		t.Fatalf("err = %v", err)
	}
	if len(n.got) != 0 {
		t.Fatalf("login must not notify, got %v", n.got)
	}
}

func TestParseIdentity(t *testing.T) {
	exp := time.Now().Add(-time.Minute).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u1",
		"email": "admin@example.com",
		"role":  "admin",
		"exp":   exp.Unix(),
	}).SignedString([]byte("not-our-secret"))
	if err != nil {
		t.Fatal(err)
	}

	id, err := apiclient.ParseIdentity(tok)
	if err != nil {
		t.Fatal(err)
	}
	if id.Subject != "u1" || id.Display() != "admin@example.com" || id.Role != "admin" {
		t.Fatalf("identity %+v", id)
	}
	if !id.ExpiresAt.Equal(exp) || !id.Expired(time.Now()) {
		t.Fatalf("expiry %v", id.ExpiresAt)
	}

	if _, err := apiclient.ParseIdentity("opaque-token"); err == nil {
		t.Fatal("opaque token should not parse")
	}
}
