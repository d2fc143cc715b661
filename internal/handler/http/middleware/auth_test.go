package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authapp "comicforge/internal/app/auth"
	"comicforge/internal/domain"
	"comicforge/internal/session"
	"comicforge/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUserRepo struct{}

func (stubUserRepo) CreateTx(context.Context, domain.Querier, *domain.User) (int64, error) {
	return 0, domain.ErrUserAlreadyExists
}
func (stubUserRepo) GetByEmailTx(context.Context, domain.Querier, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (stubUserRepo) GetByIDTx(context.Context, domain.Querier, int64) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (stubUserRepo) GrantCreditsTx(context.Context, domain.Querier, int64, int, int) error {
	return nil
}

func newTestGuard() (*Guard, *token.Manager, session.Store) {
	tokens := token.NewManager("test-secret", time.Hour)
	sessions := session.NewMemoryStore(time.Hour)
	auth := authapp.NewAuthService(nil, stubUserRepo{}, tokens, sessions, nil, zap.NewNop())
	return NewGuard(auth, tokens, zap.NewNop()), tokens, sessions
}

func echoIdentity(t *testing.T, got *domain.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		*got = identity
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireTokenNoCredential(t *testing.T) {
	guard, _, _ := newTestGuard()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/create-order", nil)
	guard.RequireToken(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireTokenInvalidToken(t *testing.T) {
	guard, _, _ := newTestGuard()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/create-order", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	guard.RequireToken(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireTokenFromHeader(t *testing.T) {
	guard, tokens, _ := newTestGuard()
	raw, err := tokens.Issue(5)
	require.NoError(t, err)

	var got domain.Identity
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/create-order", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	guard.RequireToken(echoIdentity(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), got.UserID)
}

func TestRequireTokenHeaderOutranksCookie(t *testing.T) {
	guard, tokens, _ := newTestGuard()
	headerTok, err := tokens.Issue(5)
	require.NoError(t, err)
	cookieTok, err := tokens.Issue(6)
	require.NoError(t, err)

	var got domain.Identity
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/create-order", nil)
	req.Header.Set("Authorization", "Bearer "+headerTok)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: cookieTok})
	guard.RequireToken(echoIdentity(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), got.UserID)
}

func TestRequireTokenAcceptsUserIDZero(t *testing.T) {
	guard, tokens, _ := newTestGuard()
	raw, err := tokens.Issue(0)
	require.NoError(t, err)

	var got domain.Identity
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/create-order", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: raw})
	guard.RequireToken(echoIdentity(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "an explicit user id of 0 is a valid identity")
	assert.Equal(t, int64(0), got.UserID)
}

func TestRequireUserNoCredential(t *testing.T) {
	guard, _, _ := newTestGuard()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user/images", nil)
	guard.RequireUser(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUserWithSession(t *testing.T) {
	guard, _, sessions := newTestGuard()
	id, err := sessions.Create(context.Background(), domain.Identity{UserID: 9})
	require.NoError(t, err)

	var got domain.Identity
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user/images", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})
	guard.RequireUser(echoIdentity(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), got.UserID)
}

func TestRequireUserWithToken(t *testing.T) {
	guard, tokens, _ := newTestGuard()
	raw, err := tokens.Issue(9)
	require.NoError(t, err)

	var got domain.Identity
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user/images", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: raw})
	guard.RequireUser(echoIdentity(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), got.UserID)
}

func TestOptionalIdentityPassesThrough(t *testing.T) {
	guard, _, _ := newTestGuard()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	guard.OptionalIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := IdentityFromContext(r.Context())
		assert.False(t, ok)
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
