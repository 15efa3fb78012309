package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreEvent_RoutingKeyAndPayload(t *testing.T) {
	user := uuid.MustParse("8f14e45f-ceea-467f-a0e6-0a2b3c4d5e6f")
	ev := ScoreEvent{
		ScoreID:   uuid.New(),
		UserID:    user,
		Score:     72,
		JobTitle:  "Platform Engineer",
		Timestamp: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "score.8f14e45f-ceea-467f-a0e6-0a2b3c4d5e6f", ev.RoutingKey())

	body, err := json.Marshal(ev)
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, user.String(), payload["user_id"])
	assert.Equal(t, "Platform Engineer", payload["job_title"])
	assert.Contains(t, payload, "score_id")
	assert.Contains(t, payload, "timestamp")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishScore(context.Background(), ScoreEvent{}))
}
