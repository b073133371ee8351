package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the storage operations used for uploaded documents
type FileStorage interface {
	// SaveWithPrefix stores the upload under a generated, collision-resistant
	// name starting with prefix and returns its public path (e.g. /uploads/x.pdf)
	SaveWithPrefix(fileHeader *multipart.FileHeader, prefix string) (string, error)

	// DeleteFile removes a previously stored file given its public path
	DeleteFile(publicPath string) error

	// GetFullPath returns the filesystem path for a public path
	GetFullPath(publicPath string) string
}

// DetectedType describes the sniffed content of an upload
type DetectedType struct {
	MimeType  string
	Extension string
}
