package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ineffable/agency-server/internal/config"
	apperrors "github.com/ineffable/agency-server/internal/errors"
)

// ObjectStorage stores a blob and returns the public URL it is served from.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// Sniffed content type to stored extension. SVG is excluded since it can carry script.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UploadService struct {
	storage ObjectStorage
	now     func() time.Time
}

func NewUploadService(storage ObjectStorage) *UploadService {
	return &UploadService{
		storage: storage,
		now:     time.Now,
	}
}

type pendingUpload struct {
	header      *multipart.FileHeader
	contentType string
	ext         string
}

// Upload validates every file before storing any of them, so a bad file in
// the batch leaves nothing behind.
func (s *UploadService) Upload(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if s.storage == nil {
		return nil, apperrors.Internal("Image uploads are not configured")
	}
	if len(files) == 0 {
		return nil, apperrors.ValidationError("No files uploaded")
	}
	if len(files) > config.MaxUploadFiles {
		return nil, apperrors.ValidationError(fmt.Sprintf("At most %d files per upload", config.MaxUploadFiles))
	}

	pending := make([]pendingUpload, 0, len(files))
	for _, fh := range files {
		if fh.Size > config.MaxUploadFileSize {
			return nil, apperrors.ValidationError(fmt.Sprintf("%s exceeds the 5MB limit", fh.Filename))
		}
		contentType, err := sniff(fh)
		if err != nil {
			return nil, apperrors.ValidationError("Unreadable file").WithCause(err)
		}
		ext, ok := imageExtensions[contentType]
		if !ok {
			return nil, apperrors.ValidationError("Only image files are allowed")
		}
		pending = append(pending, pendingUpload{header: fh, contentType: contentType, ext: ext})
	}

	urls := make([]string, 0, len(pending))
	for _, p := range pending {
		url, err := s.store(ctx, p)
		if err != nil {
			return nil, apperrors.External("object storage", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *UploadService) store(ctx context.Context, p pendingUpload) (string, error) {
	f, err := p.header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return s.storage.Put(ctx, s.objectKey(p.ext), p.contentType, f, p.header.Size)
}

func (s *UploadService) objectKey(ext string) string {
	now := s.now().UTC()
	return fmt.Sprintf("uploads/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), ext)
}

func sniff(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
