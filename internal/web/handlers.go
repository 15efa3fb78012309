package web

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadolammi/resumematcher/internal/analysis"
	"github.com/muhammadolammi/resumematcher/internal/apperr"
	"github.com/muhammadolammi/resumematcher/internal/auth"
	"github.com/muhammadolammi/resumematcher/internal/chat"
	"github.com/muhammadolammi/resumematcher/internal/storage"
)

const (
	oauthStateCookie = "rm_oauth_state"
	dashboardScores  = 5
	maxJSONBody      = 1 << 20
)

type pageData struct {
	SignedIn             bool
	Email                string
	Error                string
	GoogleEnabled        bool
	Input                analysis.Input
	Output               *analysis.Output
	History              []analysis.HistoryEntry
	HistoryError         string
	MissingSkillsMessage string
	Stars                []int
	Samples              []analysis.Sample
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, pageLanding, pageData{})
}

func (s *Server) handleAuthPage(w http.ResponseWriter, r *http.Request) {
	s.renderAuth(w, http.StatusOK, "", "")
}

func (s *Server) renderAuth(w http.ResponseWriter, status int, email, message string) {
	s.render(w, status, pageAuth, pageData{
		Email:         email,
		Error:         message,
		GoogleEnabled: s.deps.Auth.GoogleEnabled(),
	})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	s.passwordAuth(w, r, s.deps.Auth.SignIn)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	s.passwordAuth(w, r, s.deps.Auth.SignUp)
}

func (s *Server) passwordAuth(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, email, password string) (*auth.User, error)) {
	if err := r.ParseForm(); err != nil {
		s.renderAuth(w, http.StatusBadRequest, "", "Invalid form submission.")
		return
	}
	email := r.PostForm.Get("email")
	user, err := fn(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		s.renderAuth(w, apperr.HTTPStatus(apperr.KindOf(err)), email, apperr.Message(err))
		return
	}
	s.startSession(w, r, user.ID)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	token, err := s.deps.Sessions.Create(r.Context(), userID)
	if err != nil {
		s.log.WithError(err).Error("failed to create session", map[string]interface{}{"user_id": userID.String()})
		s.renderAuth(w, http.StatusInternalServerError, "", "Could not sign you in. Please try again.")
		return
	}
	auth.SetSessionCookie(w, token, s.deps.Sessions.TTL(), s.deps.SecureCookies)
	http.Redirect(w, r, auth.PathDashboard, http.StatusSeeOther)
}

func (s *Server) handleGoogleStart(w http.ResponseWriter, r *http.Request) {
	if !s.deps.Auth.GoogleEnabled() {
		s.renderAuth(w, http.StatusNotFound, "", "Google sign-in is not available.")
		return
	}
	state := rand.Text()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   s.deps.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.deps.Auth.GoogleAuthURL(state), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/auth/google", MaxAge: -1})

	q := r.URL.Query()
	c, err := r.Cookie(oauthStateCookie)
	if err != nil || q.Get("error") != "" || q.Get("code") == "" ||
		subtle.ConstantTimeCompare([]byte(c.Value), []byte(q.Get("state"))) != 1 {
		s.renderAuth(w, http.StatusUnauthorized, "", "Google sign-in failed. Please try again.")
		return
	}

	user, err := s.deps.Auth.SignInWithGoogle(r.Context(), q.Get("code"))
	if err != nil {
		s.log.WithError(err).Warn("google sign-in failed", nil)
		s.renderAuth(w, apperr.HTTPStatus(apperr.KindOf(err)), "", apperr.Message(err))
		return
	}
	s.startSession(w, r, user.ID)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(auth.SessionCookie); err == nil {
		if err := s.deps.Sessions.Destroy(r.Context(), c.Value); err != nil {
			s.log.WithError(err).Warn("failed to destroy session", nil)
		}
	}
	auth.ClearSessionCookie(w, s.deps.SecureCookies)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) userPage(r *http.Request) (uuid.UUID, pageData) {
	userID, _ := auth.UserIDFrom(r.Context())
	data := pageData{
		SignedIn:             true,
		MissingSkillsMessage: analysis.MissingSkillsMessage,
		Stars:                []int{1, 2, 3, 4, 5},
		Samples:              analysis.Samples,
	}
	history, err := s.deps.Analysis.ScoreHistory(r.Context(), userID)
	if err != nil {
		data.HistoryError = apperr.Message(err)
	} else {
		data.History = history
	}
	return userID, data
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, data := s.userPage(r)
	if u, err := s.deps.Auth.User(r.Context(), userID); err == nil {
		data.Email = u.Email
	}
	if len(data.History) > dashboardScores {
		data.History = data.History[:dashboardScores]
	}
	s.render(w, http.StatusOK, pageDashboard, data)
}

// handleMatcher prefills the form when ?sample names a known sample pair.
func (s *Server) handleMatcher(w http.ResponseWriter, r *http.Request) {
	_, data := s.userPage(r)
	if sample, ok := analysis.SampleByID(r.URL.Query().Get("sample")); ok {
		data.Input = analysis.Input{JobDescription: sample.JobDescription, Resume: sample.Resume}
	}
	s.render(w, http.StatusOK, pageMatcher, data)
}

func (s *Server) handleMatcherSubmit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		_, data := s.userPage(r)
		data.Error = "Invalid form submission."
		s.render(w, http.StatusBadRequest, pageMatcher, data)
		return
	}
	in := analysis.Input{
		JobDescription: r.PostForm.Get("jobDescription"),
		Resume:         r.PostForm.Get("resume"),
	}

	out, err := s.deps.Analysis.PerformMatch(r.Context(), userID, in)
	_, data := s.userPage(r)
	data.Input = in
	if err != nil {
		data.Error = apperr.Message(err)
		s.render(w, apperr.HTTPStatus(apperr.KindOf(err)), pageMatcher, data)
		return
	}
	data.Output = out
	s.render(w, http.StatusOK, pageMatcher, data)
}

func (s *Server) handleResumeUpload(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(storage.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "File is too large. The limit is 5 MB.")
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid upload.")
		return
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Choose a file to upload.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid upload.")
		return
	}
	text, err := s.deps.Uploads.Ingest(r.Context(), userID, storage.Upload{
		Filename: header.Filename,
		Mime:     header.Header.Get("Content-Type"),
		Data:     data,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())
	history, err := s.deps.Analysis.ScoreHistory(r.Context(), userID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	if history == nil {
		history = []analysis.HistoryEntry{}
	}
	respondJSON(w, http.StatusOK, history)
}

type analyzeResponse struct {
	*analysis.Output
	Category analysis.Category `json:"category"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())
	var in analysis.Input
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	out, err := s.deps.Analysis.PerformMatch(r.Context(), userID, in)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, analyzeResponse{Output: out, Category: analysis.CategoryFor(out.SimilarityScore)})
}

type chatRequest struct {
	History []chat.Message `json:"history"`
	Message string         `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	reply, err := s.deps.Chat.Reply(r.Context(), userID.String(), req.History, req.Message)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

type feedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())
	var req feedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := s.deps.Feedback.Submit(r.Context(), userID, req.Rating, req.Comment); err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "received"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	return json.NewDecoder(r.Body).Decode(v)
}
