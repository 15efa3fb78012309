package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/adk/session"

	"github.com/muhammadolammi/resumematcher/internal/logger"
)

type fakeDeleter struct {
	err error
	req *session.DeleteRequest
}

func (f *fakeDeleter) Delete(_ context.Context, req *session.DeleteRequest) error {
	f.req = req
	return f.err
}

func TestDeleteSession_LogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewZapAdapter(zap.New(core))
	req := &session.DeleteRequest{AppName: "resume_bot", UserID: "u-1", SessionID: "s-1"}

	deleter := &fakeDeleter{err: errors.New("session not found")}
	deleteSession(context.Background(), deleter, req, log)

	assert.Same(t, req, deleter.req)
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "failed to delete agent session", entries[0].Message)
	assert.Equal(t, "s-1", entries[0].ContextMap()["session_id"])
	assert.Equal(t, "session not found", entries[0].ContextMap()["error"])
}

func TestDeleteSession_SilentOnSuccess(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	deleteSession(context.Background(), &fakeDeleter{}, &session.DeleteRequest{SessionID: "s-2"}, logger.NewZapAdapter(zap.New(core)))
	assert.Empty(t, logs.All())
}
