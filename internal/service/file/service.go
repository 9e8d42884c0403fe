package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

// Service handles selfie uploads for clock events. The engine stores only
// the returned reference; the bytes are never decoded here.
type Service interface {
	UploadSelfie(ctx context.Context, userID string, takenAt time.Time, file io.Reader, filename string) (string, error)
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type serviceImpl struct {
	storage storage.FileStorage
}

func NewService(storage storage.FileStorage) Service {
	return &serviceImpl{storage: storage}
}

// UploadSelfie stores a clock-event selfie and returns its storage reference.
func (s *serviceImpl) UploadSelfie(ctx context.Context, userID string, takenAt time.Time, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png allowed")
	}

	contentType := "image/jpeg"
	if ext == ".png" {
		contentType = "image/png"
	}

	newFilename := fmt.Sprintf("%s-%s%s", takenAt.Format("20060102-150405"), uuid.New().String(), ext)
	path := filepath.Join("selfies", userID, takenAt.Format("2006-01"), newFilename)

	ref, err := s.storage.Upload(ctx, file, path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload selfie: %w", err)
	}

	return ref, nil
}

func (s *serviceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *serviceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}
