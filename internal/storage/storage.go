// Package storage moves admin uploads into object storage and hands back the
// public URL that gets written into a record's image field.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	ErrTooLarge    = errors.New("file is too large")
	ErrContentType = errors.New("file type is not allowed")
	ErrEmpty       = errors.New("file is empty")
)

// File is one upload on its way to storage.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Options place an upload. Folder is appended to the uploader's prefix.
type Options struct {
	Folder string
}

type Uploader interface {
	// Upload stores f and returns the URL browsers load it from.
	Upload(ctx context.Context, f File, opts Options) (string, error)
}

// DefaultTypes are the image types accepted when Limits.Types is empty.
var DefaultTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

type Limits struct {
	MaxBytes int64
	Types    []string
}

// Check rejects empty, oversized and disallowed files.
func (l Limits) Check(f File) error {
	if f.Size <= 0 {
		return ErrEmpty
	}
	if l.MaxBytes > 0 && f.Size > l.MaxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, f.Size, l.MaxBytes)
	}
	types := l.Types
	if len(types) == 0 {
		types = DefaultTypes
	}
	ct := baseType(f.ContentType)
	for _, t := range types {
		if ct == t {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrContentType, ct)
}

// Sniff replaces f.ContentType with the type detected from its first bytes.
// The returned file reads the full original body.
func Sniff(f File) (File, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(f.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return f, err
	}
	head = head[:n]
	f.ContentType = baseType(mimetype.Detect(head).String())
	f.Body = io.MultiReader(bytes.NewReader(head), f.Body)
	return f, nil
}

func baseType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// ObjectKey builds "<prefix>/<folder>/<uuid>-<slug>.<ext>" from an upload name.
func ObjectKey(prefix, folder, name string) string {
	ext := strings.ToLower(path.Ext(name))
	base := slug.Make(strings.TrimSuffix(path.Base(strings.ReplaceAll(name, "\\", "/")), path.Ext(name)))
	if base == "" {
		base = "file"
	}
	if len(base) > 60 {
		base = strings.Trim(base[:60], "-")
	}
	parts := []string{}
	for _, p := range []string{prefix, folder} {
		if p = strings.Trim(p, "/"); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, uuid.NewString()+"-"+base+ext)
	return strings.Join(parts, "/")
}
