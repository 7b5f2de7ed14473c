package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	applog "github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/log"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/repos"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/settings"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/storage"
)

// Media checks uploads against the configured limits, stores them and keeps
// a history row per file. It is the Uploader handed to pages and the upload
// endpoint.
type Media struct {
	Store   storage.Uploader
	Limits  storage.Limits
	Uploads *repos.UploadRepo
}

func NewMedia(store storage.Uploader, limits storage.Limits, uploads *repos.UploadRepo) *Media {
	return &Media{Store: store, Limits: limits, Uploads: uploads}
}

func (m *Media) Upload(ctx context.Context, f storage.File, opts storage.Options) (string, error) {
	if f.Body == nil {
		return "", storage.ErrEmpty
	}
	f, err := storage.Sniff(f)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := m.Limits.Check(f); err != nil {
		return "", err
	}
	link, err := m.Store.Upload(ctx, f, opts)
	if err != nil {
		return "", err
	}
	if m.Uploads != nil {
		row := repos.UploadRow{
			ID:          uuid.NewString(),
			BrowserID:   settings.BrowserFrom(ctx),
			Resource:    opts.Folder,
			ObjectKey:   keyOf(link),
			URL:         link,
			ContentType: f.ContentType,
			Size:        f.Size,
		}
		if err := m.Uploads.Create(ctx, row); err != nil {
			// the file is stored; only the history row is missing
			applog.Error(nil, "upload.history.fail", err, map[string]any{"url": link})
		}
	}
	return link, nil
}

// Recent lists the latest uploads for the dashboard.
func (m *Media) Recent(ctx context.Context, n int) ([]repos.UploadRow, error) {
	if m.Uploads == nil {
		return nil, nil
	}
	return m.Uploads.ListLatest(ctx, n)
}

// RecentFor lists the latest uploads filed under one resource.
func (m *Media) RecentFor(ctx context.Context, resource string, n int) ([]repos.UploadRow, error) {
	if m.Uploads == nil {
		return nil, nil
	}
	return m.Uploads.ListByResource(ctx, resource, n)
}

// keyOf returns the path of a stored file's URL without the leading slash.
func keyOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return strings.TrimPrefix(u.Path, "/")
}
