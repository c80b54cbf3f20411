package utils

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var (
	ErrInvalidFileType = errors.New("invalid file type, only documents, images, videos, audio and archives are allowed")
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
)

// StoredFile describes a stored object. StoredName is the locator used for
// Delete/Open/URLFor; the descriptor persisted in the database is built
// from it.
type StoredFile struct {
	OriginalName string
	StoredName   string
	Size         int64
	MimeType     string
	URL          string
}

// FileStore abstracts where uploaded material bytes live. Material
// descriptors in the database only hold locators; the bytes go through
// this contract so a cloud provider can replace the local disk one.
type FileStore interface {
	Store(file *multipart.FileHeader) (*StoredFile, error)
	Delete(storedName string) error
	Open(storedName string) (io.ReadCloser, error)
	URLFor(storedName string) string
}

// Files is the global file store instance
var Files FileStore

// allowedMimeTypes is the upload whitelist
var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"text/plain":                   true,
	"image/jpeg":                   true,
	"image/png":                    true,
	"image/gif":                    true,
	"video/mp4":                    true,
	"video/avi":                    true,
	"video/quicktime":              true,
	"audio/mpeg":                   true,
	"audio/wav":                    true,
	"application/zip":              true,
	"application/x-rar-compressed": true,
}

// LocalFileStore stores uploaded files on the local filesystem
type LocalFileStore struct {
	Dir     string
	MaxSize int64 // bytes, 0 = unlimited
}

// NewLocalFileStore creates the upload directory if it doesn't exist
func NewLocalFileStore(dir string, maxSize int64) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &LocalFileStore{Dir: dir, MaxSize: maxSize}, nil
}

func (s *LocalFileStore) Store(file *multipart.FileHeader) (*StoredFile, error) {
	mimeType := file.Header.Get("Content-Type")
	if !allowedMimeTypes[mimeType] {
		return nil, ErrInvalidFileType
	}
	if s.MaxSize > 0 && file.Size > s.MaxSize {
		return nil, ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(s.Dir, storedName))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	return &StoredFile{
		OriginalName: file.Filename,
		StoredName:   storedName,
		Size:         file.Size,
		MimeType:     mimeType,
		URL:          s.URLFor(storedName),
	}, nil
}

func (s *LocalFileStore) Delete(storedName string) error {
	return os.Remove(filepath.Join(s.Dir, storedName))
}

func (s *LocalFileStore) Open(storedName string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.Dir, storedName))
}

func (s *LocalFileStore) URLFor(storedName string) string {
	if storedName == "" {
		return ""
	}
	return "/uploads/materials/" + storedName
}
