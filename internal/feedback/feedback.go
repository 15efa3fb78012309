package feedback

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumematcher/internal/apperr"
	"github.com/muhammadolammi/resumematcher/internal/database"
	"github.com/muhammadolammi/resumematcher/internal/logger"
)

const MaxCommentLength = 2000

type Store interface {
	CreateFeedback(ctx context.Context, arg database.CreateFeedbackParams) error
}

func Validate(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return apperr.Validation("Please select a star rating before submitting.")
	}
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return apperr.Validation("Feedback cannot exceed 2000 characters.")
	}
	return nil
}

type Service struct {
	store Store
	log   logger.Logger
}

func NewService(store Store, log logger.Logger) *Service {
	return &Service{store: store, log: log.With(map[string]interface{}{"component": "feedback"})}
}

func (s *Service) Submit(ctx context.Context, userID uuid.UUID, rating int, comment string) error {
	comment = strings.TrimSpace(comment)
	if err := Validate(rating, comment); err != nil {
		return err
	}
	err := s.store.CreateFeedback(ctx, database.CreateFeedbackParams{
		ID:      uuid.New(),
		UserID:  userID,
		Rating:  int32(rating),
		Comment: comment,
	})
	if err != nil {
		s.log.WithError(err).Error("failed to save feedback", map[string]interface{}{"user_id": userID.String()})
		return apperr.Internal("Could not submit feedback. Please try again.", err)
	}
	s.log.Info("feedback received", map[string]interface{}{"user_id": userID.String(), "rating": rating})
	return nil
}
