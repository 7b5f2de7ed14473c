package services_test

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/storage"
)

// fakeBackend records every call; errors are injected per operation.
type fakeBackend struct {
	mu      sync.Mutex
	rows    []domain.Record
	one     domain.Record
	listErr error
	getErr  error
	saveErr error
	delErr  error
	calls   []string
	sent    domain.Record
}

func (f *fakeBackend) record(op string) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.mu.Unlock()
}

func (f *fakeBackend) List(context.Context) ([]domain.Record, error) {
	f.record("list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.rows, nil
}

func (f *fakeBackend) Get(_ context.Context, id string) (domain.Record, error) {
	f.record("get " + id)
	return f.one, f.getErr
}

func (f *fakeBackend) Create(_ context.Context, rec domain.Record) (domain.Record, error) {
	f.record("create")
	f.sent = rec
	return rec, f.saveErr
}

func (f *fakeBackend) Update(_ context.Context, id string, rec domain.Record) (domain.Record, error) {
	f.record("update " + id)
	f.sent = rec
	return rec, f.saveErr
}

func (f *fakeBackend) Delete(_ context.Context, id string) error {
	f.record("delete " + id)
	return f.delErr
}

type fakeUploader struct {
	url   string
	err   error
	calls int
	opts  storage.Options
}

func (u *fakeUploader) Upload(_ context.Context, f storage.File, opts storage.Options) (string, error) {
	u.calls++
	u.opts = opts
	if f.Body != nil {
		_, _ = io.Copy(io.Discard, f.Body)
	}
	return u.url, u.err
}

type notes struct{ got []domain.Note }

func (n *notes) Notify(l domain.Level, msg string) {
	n.got = append(n.got, domain.Note{Level: l, Message: msg})
}

var errBoom = errors.New("boom")
