// Package storage turns uploaded résumé files into text and optionally keeps
// the uploaded file in object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumematcher/internal/apperr"
	"github.com/muhammadolammi/resumematcher/internal/database"
	"github.com/muhammadolammi/resumematcher/internal/logger"
	"github.com/muhammadolammi/resumematcher/internal/metrics"
)

const (
	MaxUploadBytes = 5 << 20
	uploadAttempts = 3

	StatusStored = "stored"
	StatusParsed = "parsed"
)

type Uploader interface {
	Provider() string
	Upload(ctx context.Context, key, mime string, data []byte) error
}

type UploadStore interface {
	CreateResumeUpload(ctx context.Context, arg database.CreateResumeUploadParams) (database.ResumeUpload, error)
}

type Service struct {
	uploader Uploader
	store    UploadStore
	log      logger.Logger
}

// NewService accepts a nil uploader; files are then parsed but not kept.
func NewService(uploader Uploader, store UploadStore, log logger.Logger) *Service {
	return &Service{uploader: uploader, store: store, log: log.With(map[string]interface{}{"component": "storage"})}
}

type Upload struct {
	Filename string
	Mime     string
	Data     []byte
}

// Ingest extracts the résumé text from an upload. Storage failures are logged
// and do not block the extracted text from being returned.
func (s *Service) Ingest(ctx context.Context, userID uuid.UUID, up Upload) (string, error) {
	mime := DetectMime(up.Filename, up.Mime)
	if len(up.Data) == 0 {
		metrics.UploadsTotal.WithLabelValues(mimeLabel(mime), metrics.OutcomeInvalid).Inc()
		return "", apperr.Validation("The uploaded file is empty.")
	}
	if len(up.Data) > MaxUploadBytes {
		metrics.UploadsTotal.WithLabelValues(mimeLabel(mime), metrics.OutcomeInvalid).Inc()
		return "", apperr.Validation("File is too large. The limit is 5 MB.")
	}

	text, err := ExtractResumeText(mime, up.Data)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(mimeLabel(mime), metrics.OutcomeInvalid).Inc()
		if errors.Is(err, ErrUnsupportedType) {
			return "", apperr.Validation("Unsupported file type. Upload a PDF, DOCX or plain text file.")
		}
		return "", apperr.Validation("We couldn't read that file. Try pasting the text instead.")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.UploadsTotal.WithLabelValues(mimeLabel(mime), metrics.OutcomeInvalid).Inc()
		return "", apperr.Validation("No text could be found in that file.")
	}

	s.record(ctx, userID, mime, up)
	metrics.UploadsTotal.WithLabelValues(mimeLabel(mime), metrics.OutcomeSuccess).Inc()
	return text, nil
}

// mimeLabel keeps the metric label set bounded to the supported types.
func mimeLabel(mime string) string {
	switch mime {
	case MimeText, MimePDF, MimeDocx:
		return mime
	}
	return "other"
}

func (s *Service) record(ctx context.Context, userID uuid.UUID, mime string, up Upload) {
	id := uuid.New()
	key := fmt.Sprintf("resumes/%s/%s%s", userID, id, strings.ToLower(filepath.Ext(up.Filename)))
	provider, status := "none", StatusParsed

	if s.uploader != nil {
		_, err := retry(ctx, uploadAttempts, func() (struct{}, error) {
			return struct{}{}, s.uploader.Upload(ctx, key, mime, up.Data)
		})
		if err != nil {
			s.log.WithError(err).Warn("failed to store resume upload", map[string]interface{}{"key": key})
		} else {
			provider, status = s.uploader.Provider(), StatusStored
		}
	}
	if provider == "none" {
		key = ""
	}

	_, err := s.store.CreateResumeUpload(ctx, database.CreateResumeUploadParams{
		ID:               id,
		UserID:           userID,
		OriginalFilename: up.Filename,
		Mime:             mime,
		SizeBytes:        int64(len(up.Data)),
		StorageProvider:  provider,
		ObjectKey:        key,
		UploadStatus:     status,
	})
	if err != nil {
		s.log.WithError(err).Warn("failed to record resume upload", map[string]interface{}{"upload_id": id.String()})
	}
}
