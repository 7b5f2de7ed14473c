package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader writes uploads below Dir and serves them from URLPrefix.
// It is meant for development; production uses S3Uploader.
type LocalUploader struct {
	Dir       string
	Prefix    string
	URLPrefix string
}

func NewLocalUploader(dir, prefix string) *LocalUploader {
	return &LocalUploader{Dir: dir, Prefix: prefix, URLPrefix: "/media"}
}

func (u *LocalUploader) Upload(ctx context.Context, f File, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := ObjectKey(u.Prefix, opts.Folder, f.Name)
	dst := filepath.Join(u.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("media dir: %w", err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(out, f.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return strings.TrimRight(u.URLPrefix, "/") + "/" + key, nil
}
