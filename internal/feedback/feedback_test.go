package feedback

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumematcher/internal/apperr"
	"github.com/muhammadolammi/resumematcher/internal/database"
	"github.com/muhammadolammi/resumematcher/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	saved []database.CreateFeedbackParams
	err   error
}

func (f *fakeStore) CreateFeedback(_ context.Context, arg database.CreateFeedbackParams) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, arg)
	return nil
}

func TestValidate(t *testing.T) {
	assert.Equal(t, "Please select a star rating before submitting.", apperr.Message(Validate(0, "")))
	assert.Error(t, Validate(6, ""))
	assert.NoError(t, Validate(1, ""))
	assert.NoError(t, Validate(5, strings.Repeat("a", 2000)))
	assert.Error(t, Validate(5, strings.Repeat("a", 2001)))
}

func TestSubmit(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, logger.NewNoOpLogger())
	user := uuid.New()

	require.NoError(t, svc.Submit(context.Background(), user, 4, "  Very helpful  "))
	require.Len(t, store.saved, 1)
	assert.Equal(t, int32(4), store.saved[0].Rating)
	assert.Equal(t, "Very helpful", store.saved[0].Comment)
	assert.Equal(t, user, store.saved[0].UserID)

	err := svc.Submit(context.Background(), user, 0, "no stars")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Len(t, store.saved, 1)

	store.err = errors.New("db down")
	err = svc.Submit(context.Background(), user, 3, "")
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
