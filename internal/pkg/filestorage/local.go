package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/logger"
)

// DefaultMaxImageBytes caps image uploads when no limit is configured
const DefaultMaxImageBytes int64 = 5 * 1024 * 1024

// DefaultURLPrefix is the public path uploads are served under
const DefaultURLPrefix = "/uploads"

// AllowedImageTypes lists the MIME types accepted for image uploads
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// FileStorage stores uploaded files and maps them to public URLs
type FileStorage interface {
	SaveImage(fileHeader *multipart.FileHeader, subPath string) (string, error)
	DeleteFile(fileURL string) error
	URLPrefix() string
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath  string // root directory on disk
	urlPrefix string // public prefix the directory is served under, e.g. /uploads
	maxBytes  int64
}

// NewLocalStorage creates the base directory if needed
func NewLocalStorage(basePath, urlPrefix string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}

	return &LocalStorage{
		basePath:  basePath,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxBytes:  maxBytes,
	}, nil
}

// BasePath is the directory that must be served under the URL prefix
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// URLPrefix is the public path the stored files are reachable under
func (ls *LocalStorage) URLPrefix() string {
	return ls.urlPrefix
}

// SaveImage validates the upload by content sniffing and stores it under subPath.
// The returned URL is relative to the server root.
func (ls *LocalStorage) SaveImage(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}
	if fileHeader.Size > ls.maxBytes {
		return "", apperrors.NewCustomError(apperrors.ErrFileTooLarge,
			fmt.Sprintf("File too large, the limit is %d MB", ls.maxBytes/(1024*1024)))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}
	if !mimetype.EqualsAny(mtype.String(), AllowedImageTypes...) {
		return "", apperrors.NewCustomError(apperrors.ErrUnsupportedFileType,
			"Only JPEG, PNG and WEBP images are allowed")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	subPath = strings.Trim(path.Clean("/"+filepath.ToSlash(subPath)), "/")
	dir := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.New().String() + mtype.Extension()
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	// one byte past the limit is enough to notice a lying Size header
	written, err := io.Copy(dst, io.LimitReader(file, ls.maxBytes+1))
	if err == nil && written > ls.maxBytes {
		err = apperrors.ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(dstPath)
		if apperrors.Is(err, apperrors.ErrFileTooLarge) {
			return "", apperrors.NewCustomError(apperrors.ErrFileTooLarge, "File too large")
		}
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	url := path.Join(ls.urlPrefix, subPath, name)
	logger.Info().Str("filename", fileHeader.Filename).Str("url", url).Str("mime", mtype.String()).Msg("File saved successfully")
	return url, nil
}

// DeleteFile removes a file previously returned by SaveImage. URLs outside the
// storage prefix (for example external avatar links) are ignored.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	physicalPath, ok := ls.resolve(fileURL)
	if !ok {
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// resolve maps a public URL to a path inside basePath
func (ls *LocalStorage) resolve(fileURL string) (string, bool) {
	if fileURL == "" || !strings.HasPrefix(fileURL, ls.urlPrefix+"/") {
		return "", false
	}
	rel := strings.TrimPrefix(path.Clean(fileURL), ls.urlPrefix+"/")
	if rel == "" || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(rel)), true
}
