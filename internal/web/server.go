package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muhammadolammi/resumematcher/internal/analysis"
	"github.com/muhammadolammi/resumematcher/internal/apperr"
	"github.com/muhammadolammi/resumematcher/internal/auth"
	"github.com/muhammadolammi/resumematcher/internal/chat"
	"github.com/muhammadolammi/resumematcher/internal/logger"
	"github.com/muhammadolammi/resumematcher/internal/storage"
)

type Analyzer interface {
	PerformMatch(ctx context.Context, userID uuid.UUID, in analysis.Input) (*analysis.Output, error)
	ScoreHistory(ctx context.Context, userID uuid.UUID) ([]analysis.HistoryEntry, error)
}

type Chatter interface {
	Reply(ctx context.Context, userID string, history []chat.Message, message string) (string, error)
}

type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*auth.User, error)
	SignIn(ctx context.Context, email, password string) (*auth.User, error)
	SignInWithGoogle(ctx context.Context, code string) (*auth.User, error)
	GoogleEnabled() bool
	GoogleAuthURL(state string) string
	User(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

type Sessions interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Lookup(ctx context.Context, token string) (uuid.UUID, error)
	Destroy(ctx context.Context, token string) error
	TTL() time.Duration
}

type ResumeIngester interface {
	Ingest(ctx context.Context, userID uuid.UUID, up storage.Upload) (string, error)
}

type FeedbackSubmitter interface {
	Submit(ctx context.Context, userID uuid.UUID, rating int, comment string) error
}

type Deps struct {
	Analysis       Analyzer
	Chat           Chatter
	Auth           Authenticator
	Sessions       Sessions
	Uploads        ResumeIngester
	Feedback       FeedbackSubmitter
	Log            logger.Logger
	AllowedOrigins []string
	SecureCookies  bool
	// Ready reports whether backing services are reachable; nil means always.
	Ready func(ctx context.Context) error
}

type Server struct {
	router *chi.Mux
	deps   Deps
	pages  pages
	log    logger.Logger
}

func NewServer(deps Deps) (*Server, error) {
	p, err := parsePages()
	if err != nil {
		return nil, err
	}
	s := &Server{
		router: chi.NewRouter(),
		deps:   deps,
		pages:  p,
		log:    deps.Log.With(map[string]interface{}{"component": "web"}),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	origins := s.deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(accessLog(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Handle("/static/*", http.FileServer(http.FS(staticFS())))

	s.router.Group(func(r chi.Router) {
		r.Use(auth.LoadSession(s.deps.Sessions, s.log))

		r.Group(func(r chi.Router) {
			r.Use(auth.RedirectIfUser)
			r.Get("/", s.handleLanding)
			r.Get("/auth", s.handleAuthPage)
		})

		r.Post("/auth/signin", s.handleSignIn)
		r.Post("/auth/signup", s.handleSignUp)
		r.Get("/auth/google", s.handleGoogleStart)
		r.Get("/auth/google/callback", s.handleGoogleCallback)
		r.Post("/auth/signout", s.handleSignOut)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/matcher", s.handleMatcher)
			r.Post("/matcher", s.handleMatcherSubmit)
			r.Post("/matcher/resume", s.handleResumeUpload)

			r.Route("/api", func(r chi.Router) {
				r.Get("/scores", s.handleScores)
				r.Post("/analyze", s.handleAnalyze)
				r.Post("/chat", s.handleChat)
				r.Post("/feedback", s.handleFeedback)
			})
		})
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		if err := s.deps.Ready(r.Context()); err != nil {
			s.log.WithError(err).Warn("health check failed", nil)
			respondError(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondAppError(w http.ResponseWriter, err error) {
	respondError(w, apperr.HTTPStatus(apperr.KindOf(err)), apperr.Message(err))
}

// accessLog writes one structured line per request.
func accessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request", map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			})
		})
	}
}
