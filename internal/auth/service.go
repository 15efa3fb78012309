// Package auth handles password and Google sign-in, and the Redis-backed
// sessions that carry a signed-in user between requests.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/muhammadolammi/resumematcher/internal/apperr"
	"github.com/muhammadolammi/resumematcher/internal/database"
	"github.com/muhammadolammi/resumematcher/internal/logger"
	"github.com/muhammadolammi/resumematcher/internal/metrics"
	"golang.org/x/crypto/bcrypt"
)

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"

	MinPasswordLength = 6

	msgInvalidEmail  = "Please enter a valid email address."
	msgWeakPassword  = "Password should be at least 6 characters."
	msgEmailInUse    = "An account with this email already exists."
	msgBadCredential = "Invalid email or password."
)

type UserStore interface {
	CreateUser(ctx context.Context, arg database.CreateUserParams) (database.User, error)
	GetUserByEmail(ctx context.Context, email string) (database.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUser(u database.User) *User {
	return &User{ID: u.ID, Email: u.Email, Provider: u.Provider, CreatedAt: u.CreatedAt}
}

type Service struct {
	store  UserStore
	google *GoogleProvider
	log    logger.Logger
	cost   int
}

// NewService builds the auth service. google may be nil, in which case
// federated sign-in is reported as unavailable.
func NewService(store UserStore, google *GoogleProvider, log logger.Logger) *Service {
	return &Service{
		store:  store,
		google: google,
		log:    log.With(map[string]interface{}{"component": "auth"}),
		cost:   bcrypt.DefaultCost,
	}
}

func (s *Service) GoogleEnabled() bool {
	return s.google != nil
}

// GoogleAuthURL returns the consent page URL, or "" when Google sign-in is
// not configured.
func (s *Service) GoogleAuthURL(state string) string {
	if s.google == nil {
		return ""
	}
	return s.google.AuthCodeURL(state)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.Validation(msgInvalidEmail)
	}
	return email, nil
}

func (s *Service) SignUp(ctx context.Context, email, password string) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues(ProviderPassword, metrics.OutcomeInvalid).Inc()
		return nil, err
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		metrics.SignInsTotal.WithLabelValues(ProviderPassword, metrics.OutcomeInvalid).Inc()
		return nil, apperr.Validation(msgWeakPassword)
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, apperr.Validation(msgEmailInUse)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Internal("Could not create your account. Please try again.", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperr.Internal("Could not create your account. Please try again.", err)
	}

	u, err := s.store.CreateUser(ctx, database.CreateUserParams{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: sql.NullString{String: string(hash), Valid: true},
		Provider:     ProviderPassword,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Validation(msgEmailInUse)
		}
		return nil, apperr.Internal("Could not create your account. Please try again.", err)
	}
	metrics.SignInsTotal.WithLabelValues(ProviderPassword, metrics.OutcomeSuccess).Inc()
	s.log.Info("user signed up", map[string]interface{}{"user_id": u.ID.String()})
	return toUser(u), nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues(ProviderPassword, metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues(ProviderPassword, metrics.OutcomeFailure).Inc()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Auth(msgBadCredential, err)
		}
		return nil, apperr.Internal("Could not sign you in. Please try again.", err)
	}
	if !u.PasswordHash.Valid {
		metrics.SignInsTotal.WithLabelValues(ProviderPassword, metrics.OutcomeFailure).Inc()
		return nil, apperr.Auth(msgBadCredential, errors.New("account has no password"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash.String), []byte(password)); err != nil {
		metrics.SignInsTotal.WithLabelValues(ProviderPassword, metrics.OutcomeFailure).Inc()
		return nil, apperr.Auth(msgBadCredential, err)
	}
	metrics.SignInsTotal.WithLabelValues(ProviderPassword, metrics.OutcomeSuccess).Inc()
	return toUser(u), nil
}

// SignInWithGoogle exchanges an authorization code and finds or creates the
// matching user.
func (s *Service) SignInWithGoogle(ctx context.Context, code string) (*User, error) {
	if s.google == nil {
		return nil, apperr.Auth("Google sign-in is not available.", nil)
	}
	profile, err := s.google.Profile(ctx, code)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues(ProviderGoogle, metrics.OutcomeFailure).Inc()
		return nil, apperr.Auth("Google sign-in failed. Please try again.", err)
	}
	if !profile.VerifiedEmail {
		metrics.SignInsTotal.WithLabelValues(ProviderGoogle, metrics.OutcomeInvalid).Inc()
		return nil, apperr.Auth("Your Google account email is not verified.", nil)
	}
	email, err := normalizeEmail(profile.Email)
	if err != nil {
		return nil, err
	}

	u, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		u, err = s.store.CreateUser(ctx, database.CreateUserParams{
			ID:         uuid.New(),
			Email:      email,
			Provider:   ProviderGoogle,
			ProviderID: sql.NullString{String: profile.ID, Valid: profile.ID != ""},
		})
		if err != nil {
			return nil, apperr.Internal("Could not sign you in. Please try again.", err)
		}
		s.log.Info("user signed up", map[string]interface{}{"user_id": u.ID.String(), "provider": ProviderGoogle})
	default:
		return nil, apperr.Internal("Could not sign you in. Please try again.", err)
	}
	metrics.SignInsTotal.WithLabelValues(ProviderGoogle, metrics.OutcomeSuccess).Inc()
	return toUser(u), nil
}

func (s *Service) User(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("User not found.")
		}
		return nil, apperr.Internal("Could not load your account.", err)
	}
	return toUser(u), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
