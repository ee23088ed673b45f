package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/helphub/internal/pkg/apperrors"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 64)...)
)

// fileHeader builds a real multipart file header the way an HTTP upload would
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("avatar", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["avatar"][0]
}

func TestSaveImage(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base, "/uploads", 0)
	require.NoError(t, err)

	url, err := ls.SaveImage(fileHeader(t, "me.bin", pngBytes), "avatars")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/avatars/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), "extension follows the sniffed type, not the file name")

	stored, err := os.ReadFile(filepath.Join(base, "avatars", filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	url, err = ls.SaveImage(fileHeader(t, "photo.jpg", jpegBytes), "avatars")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".jpg"), url)
}

func TestSaveImage_RejectsNonImages(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "/uploads", 0)
	require.NoError(t, err)

	_, err = ls.SaveImage(fileHeader(t, "evil.png", []byte("#!/bin/sh\necho hi\n")), "avatars")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFileType)
}

func TestSaveImage_RejectsLargeFiles(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "/uploads", 16)
	require.NoError(t, err)

	_, err = ls.SaveImage(fileHeader(t, "big.png", pngBytes), "avatars")
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
}

func TestDeleteFile(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base, "uploads", 0)
	require.NoError(t, err)

	url, err := ls.SaveImage(fileHeader(t, "a.png", pngBytes), "avatars")
	require.NoError(t, err)
	physical := filepath.Join(base, "avatars", filepath.Base(url))
	require.FileExists(t, physical)

	require.NoError(t, ls.DeleteFile(url))
	assert.NoFileExists(t, physical)

	assert.NoError(t, ls.DeleteFile(url), "deleting twice is not an error")
	assert.NoError(t, ls.DeleteFile("https://cdn.example.com/avatar.png"))
	assert.NoError(t, ls.DeleteFile(""))

	outside := filepath.Join(filepath.Dir(base), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))
	t.Cleanup(func() { _ = os.Remove(outside) })
	assert.NoError(t, ls.DeleteFile("/uploads/../keep.txt"))
	assert.FileExists(t, outside)
}
