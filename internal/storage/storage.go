//go:generate go run go.uber.org/mock/mockgen -source=storage.go -destination=../mocks/mock_uploader.go -package=mocks
package storage

import (
	"context"
	"errors"

	"airwaves/messaging-service/internal/models"
)

// Uploader stores a media attachment and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file models.MediaFile) (string, error)
}

var (
	ErrFileTooLarge     = errors.New("storage: file exceeds the size limit")
	ErrUnsupportedMedia = errors.New("storage: unsupported media type")
	ErrEmptyFile        = errors.New("storage: file is empty")
	ErrNotConfigured    = errors.New("storage: bucket is not configured")
)
