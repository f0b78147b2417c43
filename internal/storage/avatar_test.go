package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["image"][0]
}

func TestDiskStoreSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/uploads")
	require.NoError(t, err)

	url, key, err := store.Save(uploadHeader(t, "avatar.png", "fake-png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/"))
	require.True(t, strings.HasSuffix(key, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	require.Equal(t, "fake-png-bytes", string(data))

	require.NoError(t, store.Remove(key))
	_, err = os.Stat(filepath.Join(dir, key))
	require.True(t, os.IsNotExist(err))

	// removing twice is fine
	require.NoError(t, store.Remove(key))
}

func TestDiskStoreRejectsUnsupportedExtension(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, _, err = store.Save(uploadHeader(t, "payload.exe", "nope"))
	require.ErrorIs(t, err, ErrUnsupportedType)
}
