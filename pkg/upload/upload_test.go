package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowedImages() map[string]struct{} {
	return map[string]struct{}{"png": {}, "jpg": {}, "jpeg": {}, "gif": {}}
}

// fileHeader builds a *multipart.FileHeader the way gin receives one.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"][0]
}

func TestAllowedFile(t *testing.T) {
	s := NewSaver(t.TempDir(), allowedImages())

	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{"png", "photo.png", true},
		{"uppercase extension", "PHOTO.PNG", true},
		{"jpeg", "farm.jpeg", true},
		{"gif", "banner.gif", true},
		{"text file", "notes.txt", false},
		{"no extension", "photo", false},
		{"trailing dot", "photo.", false},
		{"double extension takes last", "archive.tar.gz", false},
		{"double extension ending in png", "archive.tar.png", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.AllowedFile(tt.filename))
		})
	}
}

func TestSaveUserImage(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(dir, allowedImages())

	rel, err := s.SaveUserImage(fileHeader(t, "me.PNG", []byte("pngdata")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "uploads/user_"), "got %q", rel)
	assert.True(t, strings.HasSuffix(rel, ".png"), "extension should be lowercased: %q", rel)

	onDisk := filepath.Join(dir, strings.TrimPrefix(rel, "uploads/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, []byte("pngdata"), data)

	info, err := os.Stat(onDisk)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestSaveProfileImageNamesByUser(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(dir, allowedImages())

	rel, err := s.SaveProfileImage(fileHeader(t, "new.jpg", []byte("jpg")), "64b1f0a1a1a1a1a1a1a1a1a1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "uploads/profile_64b1f0a1a1a1a1a1a1a1a1a1_"), "got %q", rel)
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(dir, allowedImages())

	_, err := s.SaveProductImage(fileHeader(t, "malware.exe", []byte("nope")))
	require.ErrorIs(t, err, ErrExtension)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing should be written for a rejected upload")
}

func TestSaveRejectsMissingFile(t *testing.T) {
	s := NewSaver(t.TempDir(), allowedImages())

	_, err := s.SaveUserImage(nil)
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestSaveProductImageSanitizesName(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(dir, allowedImages())

	rel, err := s.SaveProductImage(fileHeader(t, "fresh tomatoes!.png", []byte("png")))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rel, "_fresh_tomatoes.png"), "got %q", rel)
	assert.NotContains(t, rel, " ")
	assert.NotContains(t, rel, "!")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"spaces to underscores", "my photo.png", "my_photo.png"},
		{"path stripped", "../../etc/passwd", "passwd"},
		{"specials removed", "weird name!!.jpg", "weird_name.jpg"},
		{"non-ascii removed", "héllo.png", "hllo.png"},
		{"only dots falls back", "...", "file"},
		{"empty falls back", "", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}
