package auth

import (
	"context"
	"testing"
	"time"

	"comicforge/internal/domain"
	"comicforge/internal/session"
	"comicforge/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int64
	// when set, the first insert reports a unique violation to simulate a
	// concurrent first login
	raceOnce bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) CreateTx(_ context.Context, _ domain.Querier, user *domain.User) (int64, error) {
	if r.raceOnce {
		r.raceOnce = false
		r.byEmail[user.Email] = &domain.User{ID: r.nextID, Email: user.Email, Username: "winner"}
		r.nextID++
		return 0, domain.ErrUserAlreadyExists
	}
	if _, exists := r.byEmail[user.Email]; exists {
		return 0, domain.ErrUserAlreadyExists
	}
	created := *user
	created.ID = r.nextID
	r.nextID++
	r.byEmail[user.Email] = &created
	return created.ID, nil
}

func (r *fakeUserRepo) GetByEmailTx(_ context.Context, _ domain.Querier, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByIDTx(_ context.Context, _ domain.Querier, id int64) (*domain.User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GrantCreditsTx(_ context.Context, _ domain.Querier, _ int64, _, _ int) error {
	return nil
}

func newTestService(repo *fakeUserRepo) (AuthService, *token.Manager, session.Store) {
	tokens := token.NewManager("test-secret", time.Hour)
	sessions := session.NewMemoryStore(time.Hour)
	service := NewAuthService(nil, repo, tokens, sessions, nil, zap.NewNop())
	return service, tokens, sessions
}

func TestResolveOrCreateUserCreates(t *testing.T) {
	repo := newFakeUserRepo()
	service, _, _ := newTestService(repo)

	user, err := service.ResolveOrCreateUser(context.Background(), "a@x.com", "Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, 0, user.Credits)
	assert.Equal(t, domain.DefaultSceneLimit, user.SceneLimit)
}

func TestResolveOrCreateUserIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	service, _, _ := newTestService(repo)

	first, err := service.ResolveOrCreateUser(context.Background(), "a@x.com", "Alice")
	require.NoError(t, err)

	second, err := service.ResolveOrCreateUser(context.Background(), "a@x.com", "Alice Again")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.byEmail, 1)
}

func TestResolveOrCreateUserInsertRace(t *testing.T) {
	repo := newFakeUserRepo()
	repo.raceOnce = true
	service, _, _ := newTestService(repo)

	user, err := service.ResolveOrCreateUser(context.Background(), "a@x.com", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "winner", user.Username, "loser of the insert race reads the winner's row")
}

func TestAuthStatusNoCredential(t *testing.T) {
	service, _, _ := newTestService(newFakeUserRepo())

	status := service.AuthStatus(context.Background(), nil)
	assert.False(t, status.IsAuthenticated)
	assert.Nil(t, status.Identity)
}

func TestAuthStatusInvalidToken(t *testing.T) {
	service, _, _ := newTestService(newFakeUserRepo())

	status := service.AuthStatus(context.Background(), domain.TokenCredential{Raw: "garbage"})
	assert.False(t, status.IsAuthenticated)
	assert.Nil(t, status.Identity)
}

func TestAuthStatusExpiredToken(t *testing.T) {
	repo := newFakeUserRepo()
	expired := token.NewManager("test-secret", -time.Minute)
	sessions := session.NewMemoryStore(time.Hour)
	service := NewAuthService(nil, repo, token.NewManager("test-secret", time.Hour), sessions, nil, zap.NewNop())

	raw, err := expired.Issue(1)
	require.NoError(t, err)

	status := service.AuthStatus(context.Background(), domain.TokenCredential{Raw: raw})
	assert.False(t, status.IsAuthenticated)
}

func TestAuthStatusValidToken(t *testing.T) {
	service, tokens, _ := newTestService(newFakeUserRepo())

	raw, err := tokens.Issue(42)
	require.NoError(t, err)

	status := service.AuthStatus(context.Background(), domain.TokenCredential{Raw: raw})
	require.True(t, status.IsAuthenticated)
	require.NotNil(t, status.Identity)
	assert.Equal(t, int64(42), status.Identity.UserID)
}

func TestAuthStatusSessionCredential(t *testing.T) {
	service, _, sessions := newTestService(newFakeUserRepo())

	id, err := sessions.Create(context.Background(), domain.Identity{UserID: 7})
	require.NoError(t, err)

	status := service.AuthStatus(context.Background(), domain.SessionCredential{ID: id})
	require.True(t, status.IsAuthenticated)
	assert.Equal(t, int64(7), status.Identity.UserID)
}

func TestLogoutDestroysSession(t *testing.T) {
	service, _, sessions := newTestService(newFakeUserRepo())

	id, err := sessions.Create(context.Background(), domain.Identity{UserID: 7})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), id))

	status := service.AuthStatus(context.Background(), domain.SessionCredential{ID: id})
	assert.False(t, status.IsAuthenticated)
}
