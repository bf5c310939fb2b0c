// Package upload validates and persists image files submitted through
// multipart forms. Stored paths are relative to the static-asset root
// ("uploads/<filename>") so they can be served and existence-checked later.
package upload

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	ErrNoFile    = errors.New("no file selected")
	ErrExtension = errors.New("file type not allowed")
)

// relPrefix is the store-relative directory recorded in image_url fields.
const relPrefix = "uploads"

// Saver writes uploaded files into Dir after validating their extension
// against the allow-list. Generated names are timestamped to second
// precision; two uploads landing on the same name within a second overwrite
// each other, last writer wins.
type Saver struct {
	Dir     string
	Allowed map[string]struct{}
}

func NewSaver(dir string, allowed map[string]struct{}) *Saver {
	return &Saver{Dir: dir, Allowed: allowed}
}

// AllowedFile reports whether filename carries an allow-listed extension.
func (s *Saver) AllowedFile(filename string) bool {
	ext := extOf(filename)
	if ext == "" {
		return false
	}
	_, ok := s.Allowed[ext]
	return ok
}

// SaveUserImage stores a registration profile picture as user_<ts>.<ext>.
func (s *Saver) SaveUserImage(fh *multipart.FileHeader) (string, error) {
	if err := s.check(fh); err != nil {
		return "", err
	}
	name := "user_" + time.Now().Format("20060102150405") + "." + extOf(fh.Filename)
	return s.save(fh, name)
}

// SaveProfileImage stores a replacement profile picture as profile_<uid>_<ts>.<ext>.
func (s *Saver) SaveProfileImage(fh *multipart.FileHeader, userID string) (string, error) {
	if err := s.check(fh); err != nil {
		return "", err
	}
	name := "profile_" + userID + "_" + time.Now().Format("20060102150405") + "." + extOf(fh.Filename)
	return s.save(fh, name)
}

// SaveProductImage stores a product image as <ts>_<sanitized original name>.
func (s *Saver) SaveProductImage(fh *multipart.FileHeader) (string, error) {
	if err := s.check(fh); err != nil {
		return "", err
	}
	name := time.Now().Format("20060102_150405") + "_" + SanitizeFilename(fh.Filename)
	return s.save(fh, name)
}

func (s *Saver) check(fh *multipart.FileHeader) error {
	if fh == nil || fh.Filename == "" {
		return ErrNoFile
	}
	if !s.AllowedFile(fh.Filename) {
		return ErrExtension
	}
	return nil
}

func (s *Saver) save(fh *multipart.FileHeader, name string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	dstPath := filepath.Join(s.Dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dstPath)
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	// World-readable, owner-writable, matching how static assets are served.
	if err := os.Chmod(dstPath, 0o644); err != nil {
		return "", err
	}
	return path.Join(relPrefix, name), nil
}

func extOf(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SanitizeFilename reduces a client-supplied filename to a safe basename.
func SanitizeFilename(filename string) string {
	base := filepath.Base(filepath.ToSlash(filename))
	base = strings.ReplaceAll(base, " ", "_")
	base = unsafeChars.ReplaceAllString(base, "")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "file"
	}
	return base
}
