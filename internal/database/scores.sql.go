package database

import (
	"context"

	"github.com/google/uuid"
)

const createScore = `-- name: CreateScore :one
INSERT INTO scores (id, user_id, score, job_title)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, score, job_title, created_at
`

type CreateScoreParams struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Score    float64
	JobTitle string
}

func (q *Queries) CreateScore(ctx context.Context, arg CreateScoreParams) (Score, error) {
	row := q.db.QueryRowContext(ctx, createScore,
		arg.ID,
		arg.UserID,
		arg.Score,
		arg.JobTitle,
	)
	var i Score
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Score,
		&i.JobTitle,
		&i.CreatedAt,
	)
	return i, err
}

const getScoresByUser = `-- name: GetScoresByUser :many
SELECT id, user_id, score, job_title, created_at FROM scores WHERE user_id=$1 ORDER BY created_at DESC
`

func (q *Queries) GetScoresByUser(ctx context.Context, userID uuid.UUID) ([]Score, error) {
	rows, err := q.db.QueryContext(ctx, getScoresByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Score
	for rows.Next() {
		var i Score
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Score,
			&i.JobTitle,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
