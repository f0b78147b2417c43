package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/hirementis/hirementis/pkg/errors"
)

// ErrUnsupportedType rejects uploads outside the image allow-list.
var ErrUnsupportedType = errors.NewBadRequest("File type is not supported")

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// Store saves and removes uploaded avatar files.
type Store interface {
	Save(file *multipart.FileHeader) (url string, key string, err error)
	Remove(key string) error
}

// DiskStore keeps avatars on the local filesystem and serves them under a
// static URL prefix.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore ensures the target directory exists and returns a DiskStore.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}

	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes the uploaded file to disk under a random key.
func (s *DiskStore) Save(file *multipart.FileHeader) (string, string, error) {
	if file == nil {
		return "", "", fmt.Errorf("storage: file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", "", ErrUnsupportedType
	}

	key := uuid.NewString() + ext

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", "", fmt.Errorf("storage: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(filepath.Join(s.dir, key))
		return "", "", fmt.Errorf("storage: write file: %w", err)
	}

	return s.baseURL + "/" + key, key, nil
}

// Remove deletes a previously saved file. A missing file is not an error.
func (s *DiskStore) Remove(key string) error {
	if key == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove file: %w", err)
	}
	return nil
}
