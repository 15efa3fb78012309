package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Rating    int32
	Comment   string
	CreatedAt time.Time
}

type ResumeUpload struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	OriginalFilename string
	Mime             string
	SizeBytes        int64
	StorageProvider  string
	ObjectKey        string
	UploadStatus     string
	CreatedAt        time.Time
}

type Score struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Score     float64
	JobTitle  string
	CreatedAt time.Time
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash sql.NullString
	Provider     string
	ProviderID   sql.NullString
	CreatedAt    time.Time
}
