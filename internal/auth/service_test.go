package auth

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/muhammadolammi/resumematcher/internal/apperr"
	"github.com/muhammadolammi/resumematcher/internal/database"
	"github.com/muhammadolammi/resumematcher/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

type memUsers struct {
	byEmail   map[string]database.User
	createErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]database.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, arg database.CreateUserParams) (database.User, error) {
	if m.createErr != nil {
		return database.User{}, m.createErr
	}
	u := database.User{
		ID:           arg.ID,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		Provider:     arg.Provider,
		ProviderID:   arg.ProviderID,
		CreatedAt:    time.Now(),
	}
	m.byEmail[arg.Email] = u
	return u, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (database.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return database.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *memUsers) GetUserByID(_ context.Context, id uuid.UUID) (database.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return database.User{}, sql.ErrNoRows
}

func newTestService(store UserStore, google *GoogleProvider) *Service {
	s := NewService(store, google, logger.NewNoOpLogger())
	s.cost = bcrypt.MinCost
	return s
}

func TestSignUpAndSignIn(t *testing.T) {
	users := newMemUsers()
	svc := newTestService(users, nil)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "  Ada@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, ProviderPassword, u.Provider)
	assert.NotEqual(t, "secret1", users.byEmail["ada@example.com"].PasswordHash.String)

	got, err := svc.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.SignIn(ctx, "ada@example.com", "wrong-pass")
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	assert.Equal(t, "Invalid email or password.", apperr.Message(err))

	_, err = svc.SignIn(ctx, "nobody@example.com", "secret1")
	assert.Equal(t, "Invalid email or password.", apperr.Message(err))
}

func TestSignUp_Validation(t *testing.T) {
	users := newMemUsers()
	svc := newTestService(users, nil)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "not-an-email", "secret1")
	assert.Equal(t, "Please enter a valid email address.", apperr.Message(err))

	_, err = svc.SignUp(ctx, "a@b.co", "12345")
	assert.Equal(t, "Password should be at least 6 characters.", apperr.Message(err))

	_, err = svc.SignUp(ctx, "a@b.co", "123456")
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, "A@B.co", "123456")
	assert.Equal(t, "An account with this email already exists.", apperr.Message(err))
}

func TestSignUp_PasswordLengthCountsCharacters(t *testing.T) {
	svc := newTestService(newMemUsers(), nil)
	ctx := context.Background()

	// 3 characters, 9 bytes.
	_, err := svc.SignUp(ctx, "kana@example.com", "日本語")
	assert.Equal(t, "Password should be at least 6 characters.", apperr.Message(err))

	_, err = svc.SignUp(ctx, "kana@example.com", "日本語パスワ")
	require.NoError(t, err)
}

func TestSignUp_UniqueViolationRace(t *testing.T) {
	users := newMemUsers()
	users.createErr = &pq.Error{Code: "23505"}
	_, err := newTestService(users, nil).SignUp(context.Background(), "a@b.co", "123456")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "An account with this email already exists.", apperr.Message(err))
}

func TestSignIn_GoogleAccountHasNoPassword(t *testing.T) {
	users := newMemUsers()
	users.byEmail["g@b.co"] = database.User{ID: uuid.New(), Email: "g@b.co", Provider: ProviderGoogle}
	_, err := newTestService(users, nil).SignIn(context.Background(), "g@b.co", "anything")
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func fakeGoogle(t *testing.T, verified bool) *GoogleProvider {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at-123","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"g-42","email":"Grace@Example.com","verified_email":%t,"name":"Grace"}`, verified)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	g := NewGoogleProvider("client", "secret", "http://localhost/auth/google/callback")
	g.config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	g.userInfoURL = srv.URL + "/userinfo"
	return g
}

func TestSignInWithGoogle(t *testing.T) {
	users := newMemUsers()
	svc := newTestService(users, fakeGoogle(t, true))
	ctx := context.Background()

	u, err := svc.SignInWithGoogle(ctx, "good-code")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", u.Email)
	assert.Equal(t, ProviderGoogle, u.Provider)
	assert.Equal(t, "g-42", users.byEmail["grace@example.com"].ProviderID.String)

	again, err := svc.SignInWithGoogle(ctx, "good-code")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Len(t, users.byEmail, 1)

	_, err = svc.SignInWithGoogle(ctx, "bad-code")
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestSignInWithGoogle_Unverified(t *testing.T) {
	svc := newTestService(newMemUsers(), fakeGoogle(t, false))
	_, err := svc.SignInWithGoogle(context.Background(), "good-code")
	assert.Equal(t, "Your Google account email is not verified.", apperr.Message(err))
}

func TestSignInWithGoogle_Disabled(t *testing.T) {
	svc := newTestService(newMemUsers(), nil)
	assert.False(t, svc.GoogleEnabled())
	_, err := svc.SignInWithGoogle(context.Background(), "x")
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestGoogleAuthCodeURL(t *testing.T) {
	g := NewGoogleProvider("client-id", "secret", "http://localhost:8080/auth/google/callback")
	u := g.AuthCodeURL("state-1")
	assert.Contains(t, u, "client_id=client-id")
	assert.Contains(t, u, "state=state-1")
}

func TestService_GoogleAuthURL(t *testing.T) {
	assert.Empty(t, newTestService(newMemUsers(), nil).GoogleAuthURL("s"))
	g := NewGoogleProvider("cid", "secret", "http://localhost/cb")
	assert.Contains(t, newTestService(newMemUsers(), g).GoogleAuthURL("s"), "state=s")
}
