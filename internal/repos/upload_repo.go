package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type UploadRepo struct{ db *sqlx.DB }

func NewUploadRepo(db *sqlx.DB) *UploadRepo { return &UploadRepo{db: db} }

// UploadRow is one file proxied to storage by the console.
type UploadRow struct {
	ID          string `db:"id"`
	BrowserID   string `db:"browser_id"`
	Resource    string `db:"resource"`
	ObjectKey   string `db:"object_key"`
	URL         string `db:"url"`
	ContentType string `db:"content_type"`
	Size        int64  `db:"size"`
	CreatedAt   string `db:"created_at"`
}

// Create records a finished upload.
func (r *UploadRepo) Create(ctx context.Context, u UploadRow) error {
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO uploads
	    (id, browser_id, resource, object_key, url, content_type, size, created_at)
	  VALUES
	    (?,  ?,          ?,        ?,          ?,   ?,            ?,    CURRENT_TIMESTAMP)
	`, u.ID, u.BrowserID, u.Resource, u.ObjectKey, u.URL, u.ContentType, u.Size)
	return err
}

func (r *UploadRepo) ListLatest(ctx context.Context, limit int) ([]UploadRow, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []UploadRow
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, browser_id, resource, object_key, url, COALESCE(content_type,'') AS content_type, size, created_at
		FROM uploads
		ORDER BY datetime(created_at) DESC, rowid DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ListByResource returns uploads attached to one resource, newest first.
func (r *UploadRepo) ListByResource(ctx context.Context, resource string, limit int) ([]UploadRow, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []UploadRow
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, browser_id, resource, object_key, url, COALESCE(content_type,'') AS content_type, size, created_at
		FROM uploads
		WHERE resource = ?
		ORDER BY datetime(created_at) DESC, rowid DESC
		LIMIT ?
	`, resource, limit)
	return out, err
}
