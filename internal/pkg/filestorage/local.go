package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/yigit/scholarship/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath  string // directory where files are written
	urlPrefix string // public prefix the files are served under, e.g. /uploads
	now       func() time.Time
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is the directory on the server, urlPrefix the path stored in the database.
func NewLocalStorage(basePath, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}

	return &LocalStorage{
		basePath:  basePath,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		now:       time.Now,
	}, nil
}

// uniqueName builds <prefix>-<unix millis>-<random>.<ext>
func (ls *LocalStorage) uniqueName(prefix, originalName string) string {
	suffix := uuid.New().ID() % 1_000_000_000
	return fmt.Sprintf("%s-%d-%d%s", prefix, ls.now().UnixMilli(), suffix, filepath.Ext(originalName))
}

// SaveWithPrefix writes the upload into basePath and returns its public path.
func (ls *LocalStorage) SaveWithPrefix(fileHeader *multipart.FileHeader, prefix string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// The directory may have been removed since startup.
	if err := os.MkdirAll(ls.basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", ls.basePath).Msg("Failed to create storage directory")
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	filename := ls.uniqueName(prefix, fileHeader.Filename)
	dstPath := filepath.Join(ls.basePath, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		dst.Close()
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to flush file content: %w", err)
	}

	publicPath := path.Join(ls.urlPrefix, filename)
	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", filename).Str("public_path", publicPath).Msg("File saved successfully")
	return publicPath, nil
}

// DeleteFile removes a file from the storage filesystem.
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) DeleteFile(publicPath string) error {
	if publicPath == "" {
		return nil
	}

	physicalPath := ls.GetFullPath(publicPath)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", publicPath)
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

// GetFullPath returns the filesystem path for a public path. Only the base
// name is honoured so a crafted path cannot escape basePath.
func (ls *LocalStorage) GetFullPath(publicPath string) string {
	filename := path.Base(publicPath)
	if filename == "" || filename == "." || filename == "/" || filename == ".." {
		return ""
	}
	return filepath.Join(ls.basePath, filename)
}

// DetectType sniffs the content of an upload.
func DetectType(fileHeader *multipart.FileHeader) (DetectedType, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return DetectedType{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return DetectedType{}, fmt.Errorf("failed to detect file type: %w", err)
	}
	// mimetype may append parameters such as "; charset=utf-8"
	base := strings.TrimSpace(strings.SplitN(mt.String(), ";", 2)[0])
	return DetectedType{MimeType: base, Extension: mt.Extension()}, nil
}
