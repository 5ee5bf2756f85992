package services

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"band-backend/apperrors"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ImageStore writes uploaded images into a public directory and hands back
// the URL path they are served under.
type ImageStore struct {
	Dir       string
	URLPrefix string
	MaxBytes  int64
}

func NewImageStore(dir, urlPrefix string, maxBytes int64) *ImageStore {
	return &ImageStore{
		Dir:       dir,
		URLPrefix: "/" + strings.Trim(urlPrefix, "/"),
		MaxBytes:  maxBytes,
	}
}

func (s *ImageStore) tooLarge() error {
	return apperrors.Validation(fmt.Sprintf("Image must be %dMB or smaller", s.MaxBytes>>20))
}

// Save checks the declared content type and size, then writes the file under
// a random name that keeps the original extension.
func (s *ImageStore) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.MaxBytes {
		return "", s.tooLarge()
	}
	mediaType, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if err != nil || !allowedImageTypes[strings.ToLower(mediaType)] {
		return "", apperrors.Validation("Only JPEG, PNG and WebP images are allowed")
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", apperrors.Dependency("Failed to store image", fmt.Errorf("mkdir uploads dir: %w", err))
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperrors.Dependency("Failed to read image", err)
	}
	defer src.Close()

	filename := uuid.NewString() + filepath.Ext(fh.Filename)
	fullpath := filepath.Join(s.Dir, filename)
	dst, err := os.OpenFile(fullpath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", apperrors.Dependency("Failed to store image", err)
	}

	n, copyErr := io.Copy(dst, io.LimitReader(src, s.MaxBytes+1))
	closeErr := dst.Close()
	switch {
	case copyErr != nil || closeErr != nil:
		_ = os.Remove(fullpath)
		return "", apperrors.Dependency("Failed to store image", errors.Join(copyErr, closeErr))
	case n > s.MaxBytes:
		_ = os.Remove(fullpath)
		return "", s.tooLarge()
	}

	return path.Join(s.URLPrefix, filename), nil
}

// Remove deletes a file previously returned by Save. References outside the
// upload prefix and files that are already gone are ignored.
func (s *ImageStore) Remove(ref string) error {
	if !strings.HasPrefix(ref, s.URLPrefix+"/") {
		return nil
	}
	name := strings.TrimPrefix(ref, s.URLPrefix+"/")
	if name == "" || name != path.Base(name) || name == ".." {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// removeQuietly is for cleanup paths where a failure must not fail the request.
func removeQuietly(images ImageStorage, ref string) {
	if ref == "" {
		return
	}
	if err := images.Remove(ref); err != nil {
		slog.Warn("failed to remove image", "image", ref, "error", err)
	}
}

// ImageStorage is the part of ImageStore the content services need.
type ImageStorage interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(ref string) error
}
