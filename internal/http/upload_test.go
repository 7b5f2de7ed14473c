package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/config"
)

type uploadReply struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

func decodeUpload(t *testing.T, resp *http.Response) uploadReply {
	t.Helper()
	var out uploadReply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestUploadEndpointStoresImage(t *testing.T) {
	c := newConsole(t)
	c.signIn()

	resp := c.postMultipart("/admin/uploads", url.Values{"resource": {"meals"}}, "Sunset Photo.PNG", pngBytes())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeUpload(t, resp)
	assert.True(t, strings.HasPrefix(out.URL, "/media/uploads/meals/"), out.URL)
	assert.True(t, strings.HasSuffix(out.URL, "-sunset-photo.png"), out.URL)

	stored, err := os.ReadFile(filepath.Join(c.mediaDir, filepath.FromSlash(strings.TrimPrefix(out.URL, "/media/"))))
	require.NoError(t, err)
	assert.Equal(t, pngBytes(), stored)

	// The dashboard and the meal form list the upload.
	assert.Contains(t, body(t, c.get("/admin")), out.URL)
	assert.Contains(t, body(t, c.get("/admin/meals/new")), out.URL)
	assert.NotContains(t, body(t, c.get("/admin/blogs/new")), out.URL)
}

func TestUploadEndpointRejectsBadFiles(t *testing.T) {
	c := newConsole(t, withConfig(func(cfg *config.Config) { cfg.Storage.MaxBytes = 32 }))
	c.signIn()

	resp := c.postMultipart("/admin/uploads", nil, "notes.png", []byte("just some text pretending to be a picture"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "The image is too large.", decodeUpload(t, resp).Error)

	resp = c.postMultipart("/admin/uploads", nil, "notes.png", []byte("plain text"))
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	assert.Equal(t, "Only JPEG, PNG, WebP or GIF images can be uploaded.", decodeUpload(t, resp).Error)

	resp = c.postMultipart("/admin/uploads", nil, "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.postMultipart("/admin/uploads", url.Values{"resource": {"../etc"}}, "a.png", pngBytes())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateWithUploadSetsImage(t *testing.T) {
	c := newConsole(t)
	c.signIn()

	resp := c.postMultipart("/admin/meals", url.Values{
		"name": {"Watalappan"}, "category": {"Dessert"}, "price": {"3"},
	}, "dessert.png", pngBytes())
	require.Equal(t, http.StatusFound, resp.StatusCode)

	rows := c.api.records("meals")
	require.Len(t, rows, 1)
	img, _ := rows[0]["image"].(string)
	assert.True(t, strings.HasPrefix(img, "/media/uploads/meals/"), img)
}

func TestUpdateWithUploadPrependsImage(t *testing.T) {
	c := newConsole(t)
	c.signIn()
	c.api.seed("accommodations", map[string]any{
		"_id": "a1", "name": "Beach Villa", "type": "Villa", "pricePerNight": 120,
		"capacity": 4, "status": "Available", "images": []any{"https://cdn.test/old.jpg"},
	})

	resp := c.postMultipart("/admin/accommodations/a1", url.Values{
		"name": {"Beach Villa"}, "type": {"Villa"}, "pricePerNight": {"120"},
		"capacity": {"4"}, "status": {"Available"}, "images": {"https://cdn.test/old.jpg"},
	}, "front.png", pngBytes())
	require.Equal(t, http.StatusFound, resp.StatusCode)

	rows := c.api.records("accommodations")
	require.Len(t, rows, 1)
	images, _ := rows[0]["images"].([]any)
	require.Len(t, images, 2)
	assert.True(t, strings.HasPrefix(images[0].(string), "/media/uploads/accommodations/"))
	assert.Equal(t, "https://cdn.test/old.jpg", images[1])
}

func TestFailedUploadKeepsFormOpen(t *testing.T) {
	c := newConsole(t)
	c.signIn()

	resp := c.postMultipart("/admin/meals", url.Values{
		"name": {"Kiribath"}, "category": {"Breakfast"}, "price": {"2"},
	}, "menu.png", []byte("%PDF-1.4 not an image"))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Only JPEG, PNG, WebP or GIF images can be uploaded.")
	assert.Contains(t, html, `value="Kiribath"`)
	assert.Equal(t, 0, c.api.count("POST /api/meals"))
}
