package database

import (
	"context"

	"github.com/google/uuid"
)

const createFeedback = `-- name: CreateFeedback :exec
INSERT INTO feedback (id, user_id, rating, comment)
VALUES ($1, $2, $3, $4)
`

type CreateFeedbackParams struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	Rating  int32
	Comment string
}

func (q *Queries) CreateFeedback(ctx context.Context, arg CreateFeedbackParams) error {
	_, err := q.db.ExecContext(ctx, createFeedback,
		arg.ID,
		arg.UserID,
		arg.Rating,
		arg.Comment,
	)
	return err
}
