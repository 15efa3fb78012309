package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumematcher/internal/apperr"
	"github.com/muhammadolammi/resumematcher/internal/database"
	"github.com/muhammadolammi/resumematcher/internal/events"
	"github.com/muhammadolammi/resumematcher/internal/logger"
	"github.com/muhammadolammi/resumematcher/internal/metrics"
)

const DateLayout = "Jan 2, 2006"

// Matcher runs the prompt pipeline for one input.
type Matcher interface {
	Analyze(ctx context.Context, in Input) (*Output, error)
}

type ScoreStore interface {
	CreateScore(ctx context.Context, arg database.CreateScoreParams) (database.Score, error)
	GetScoresByUser(ctx context.Context, userID uuid.UUID) ([]database.Score, error)
}

type ScoreRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Score     float64   `json:"score"`
	JobTitle  string    `json:"jobTitle"`
	CreatedAt time.Time `json:"createdAt"`
	Date      string    `json:"date"`
}

type HistoryEntry struct {
	ScoreRecord
	Trend Trend  `json:"trend"`
	Badge string `json:"badge"`
}

type Service struct {
	matcher   Matcher
	store     ScoreStore
	publisher events.Publisher
	log       logger.Logger
	now       func() time.Time
}

func NewService(matcher Matcher, store ScoreStore, publisher events.Publisher, log logger.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		matcher:   matcher,
		store:     store,
		publisher: publisher,
		log:       log.With(map[string]interface{}{"component": "analysis"}),
		now:       time.Now,
	}
}

// PerformMatch validates the input, runs the pipeline and appends one score
// record. Every failure after validation surfaces as "Analysis failed: ...".
func (s *Service) PerformMatch(ctx context.Context, userID uuid.UUID, in Input) (*Output, error) {
	if err := ValidateInput(in); err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	out, err := s.match(ctx, userID, in)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.log.WithError(err).Error("analysis failed", map[string]interface{}{"user_id": userID.String()})
		return nil, apperr.Upstream("Analysis failed: "+failureText(err), err)
	}
	metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return out, nil
}

func (s *Service) match(ctx context.Context, userID uuid.UUID, in Input) (*Output, error) {
	out, err := s.matcher.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}
	if out == nil || strings.TrimSpace(out.JobTitle) == "" {
		return nil, apperr.Upstream("The AI model failed to return a valid analysis.", nil)
	}

	score, err := s.store.CreateScore(ctx, database.CreateScoreParams{
		ID:       uuid.New(),
		UserID:   userID,
		Score:    out.SimilarityScore,
		JobTitle: out.JobTitle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save score: %w", err)
	}

	s.log.Info("analysis completed", map[string]interface{}{
		"user_id":   userID.String(),
		"score_id":  score.ID.String(),
		"score":     out.SimilarityScore,
		"job_title": out.JobTitle,
	})

	ev := events.ScoreEvent{
		ScoreID:   score.ID,
		UserID:    userID,
		Score:     score.Score,
		JobTitle:  score.JobTitle,
		Timestamp: s.now(),
	}
	if err := s.publisher.PublishScore(ctx, ev); err != nil {
		metrics.ScoreEventsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.log.WithError(err).Warn("failed to publish score event", map[string]interface{}{"score_id": score.ID.String()})
	} else {
		metrics.ScoreEventsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	}
	return out, nil
}

// ScoreHistory returns the user's records newest first with trend markers.
func (s *Service) ScoreHistory(ctx context.Context, userID uuid.UUID) ([]HistoryEntry, error) {
	rows, err := s.store.GetScoresByUser(ctx, userID)
	if err != nil {
		s.log.WithError(err).Error("error fetching score history", map[string]interface{}{"user_id": userID.String()})
		return nil, apperr.Internal("Failed to fetch score history.", err)
	}

	records := make([]ScoreRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, ScoreRecord{
			ID:        r.ID,
			UserID:    r.UserID,
			Score:     r.Score,
			JobTitle:  r.JobTitle,
			CreatedAt: r.CreatedAt,
			Date:      r.CreatedAt.Format(DateLayout),
		})
	}

	trends := Trends(records)
	entries := make([]HistoryEntry, len(records))
	for i, rec := range records {
		entries[i] = HistoryEntry{ScoreRecord: rec, Trend: trends[i], Badge: BadgeVariant(rec.Score)}
	}
	return entries, nil
}

func failureText(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
