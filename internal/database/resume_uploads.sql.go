package database

import (
	"context"

	"github.com/google/uuid"
)

const createResumeUpload = `-- name: CreateResumeUpload :one
INSERT INTO resume_uploads (id, user_id, original_filename, mime, size_bytes, storage_provider, object_key, upload_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, user_id, original_filename, mime, size_bytes, storage_provider, object_key, upload_status, created_at
`

type CreateResumeUploadParams struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	OriginalFilename string
	Mime             string
	SizeBytes        int64
	StorageProvider  string
	ObjectKey        string
	UploadStatus     string
}

func (q *Queries) CreateResumeUpload(ctx context.Context, arg CreateResumeUploadParams) (ResumeUpload, error) {
	row := q.db.QueryRowContext(ctx, createResumeUpload,
		arg.ID,
		arg.UserID,
		arg.OriginalFilename,
		arg.Mime,
		arg.SizeBytes,
		arg.StorageProvider,
		arg.ObjectKey,
		arg.UploadStatus,
	)
	var i ResumeUpload
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.OriginalFilename,
		&i.Mime,
		&i.SizeBytes,
		&i.StorageProvider,
		&i.ObjectKey,
		&i.UploadStatus,
		&i.CreatedAt,
	)
	return i, err
}
