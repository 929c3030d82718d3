package uploads

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"movieshelf/proj/internal/lib/imageref"
	"movieshelf/proj/internal/storage/blob"
)

// MaxFileSize is the upload size ceiling.
const MaxFileSize = 5 << 20 // 5 MiB

var allowedTypes = []string{"jpg", "jpeg", "png", "gif", "webp"}

type UploadService struct {
	log   *slog.Logger
	blobs blob.Storage
}

func New(log *slog.Logger, blobs blob.Storage) *UploadService {
	return &UploadService{log: log, blobs: blobs}
}

type Result struct {
	ImageURL string `json:"image_url"`
	Filename string `json:"filename"`
}

// UploadImage validates the file and stores it under images/<filename>.
// There is no local-disk fallback: a storage failure fails the upload.
func (s *UploadService) UploadImage(ctx context.Context, file io.Reader, originalName, contentType string, size int64) (*Result, error) {
	const op = "uploads.UploadService.UploadImage"
	log := s.log.With("op", op, "name", originalName, "size", size)

	if size > MaxFileSize {
		log.Info("file too large")
		return nil, ErrFileTooLarge
	}
	if !isAllowedType(contentType) {
		log.Info("unsupported content type", "content_type", contentType)
		return nil, ErrUnsupportedType
	}

	filename := generateFilename(originalName)
	key := imageref.KeyPrefix + filename
	res, err := s.blobs.Put(ctx, key, file, contentType)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	log.Info("image uploaded", "key", res.Key, "url", res.URL)
	return &Result{ImageURL: res.URL, Filename: filename}, nil
}

func isAllowedType(contentType string) bool {
	for _, t := range allowedTypes {
		if strings.HasSuffix(contentType, "/"+t) {
			return true
		}
	}
	return false
}

// generateFilename builds a collision-resistant name as
// <millisecond-timestamp>-<random-integer><original-extension>.
func generateFilename(originalName string) string {
	suffix := fmt.Sprintf("%d-%d", time.Now().UnixMilli(), rand.Intn(1_000_000_000))
	return suffix + filepath.Ext(originalName)
}
