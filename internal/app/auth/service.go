package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"comicforge/internal/domain"
	"comicforge/internal/oauth"
	"comicforge/internal/repository/users_repo"
	"comicforge/internal/session"
	"comicforge/internal/token"

	"go.uber.org/zap"
)

type AuthService interface {
	ResolveOrCreateUser(ctx context.Context, email, username string) (*domain.User, error)
	IssueToken(userID int64) (string, error)
	Resolve(ctx context.Context, cred domain.Credential) (domain.Identity, error)
	AuthStatus(ctx context.Context, cred domain.Credential) domain.AuthStatus
	CreateSession(ctx context.Context, identity domain.Identity) (string, error)
	Logout(ctx context.Context, sessionID string) error
	CompleteGoogleLogin(ctx context.Context, code string) (*domain.User, error)
}

type authService struct {
	db       *sql.DB
	userRepo users_repo.UserRepository
	tokens   *token.Manager
	sessions session.Store
	google   *oauth.GoogleClient
	logger   *zap.Logger
}

func NewAuthService(
	db *sql.DB,
	userRepo users_repo.UserRepository,
	tokens *token.Manager,
	sessions session.Store,
	google *oauth.GoogleClient,
	logger *zap.Logger,
) AuthService {
	return &authService{
		db:       db,
		userRepo: userRepo,
		tokens:   tokens,
		sessions: sessions,
		google:   google,
		logger:   logger,
	}
}

// ResolveOrCreateUser maps an OAuth profile onto a durable user row. The email
// uniqueness constraint makes this idempotent: a concurrent first login loses
// the insert race and falls back to re-reading the winner's row.
func (s *authService) ResolveOrCreateUser(ctx context.Context, email, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmailTx(ctx, s.db, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	now := time.Now()
	newUser := &domain.User{
		Email:      email,
		Username:   username,
		Credits:    0,
		SceneLimit: domain.DefaultSceneLimit,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	id, err := s.userRepo.CreateTx(ctx, s.db, newUser)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return s.userRepo.GetByEmailTx(ctx, s.db, email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	newUser.ID = id

	s.logger.Info("New user created", zap.Int64("user_id", id), zap.String("email", email))
	return newUser, nil
}

func (s *authService) IssueToken(userID int64) (string, error) {
	return s.tokens.Issue(userID)
}

// Resolve maps a credential to a canonical identity. It is the single place
// where the session and token variants converge.
func (s *authService) Resolve(ctx context.Context, cred domain.Credential) (domain.Identity, error) {
	switch c := cred.(type) {
	case domain.TokenCredential:
		claims, err := s.tokens.Verify(c.Raw)
		if err != nil {
			return domain.Identity{}, domain.ErrUnauthorized
		}
		return domain.Identity{UserID: *claims.UserID}, nil
	case domain.SessionCredential:
		identity, err := s.sessions.Get(ctx, c.ID)
		if err != nil {
			return domain.Identity{}, domain.ErrUnauthorized
		}
		return identity, nil
	default:
		return domain.Identity{}, domain.ErrUnauthorized
	}
}

// AuthStatus never fails on bad input; an invalid or missing credential is an
// unauthenticated status, not an error.
func (s *authService) AuthStatus(ctx context.Context, cred domain.Credential) domain.AuthStatus {
	if cred == nil {
		return domain.AuthStatus{IsAuthenticated: false}
	}
	identity, err := s.Resolve(ctx, cred)
	if err != nil {
		return domain.AuthStatus{IsAuthenticated: false}
	}
	return domain.AuthStatus{IsAuthenticated: true, Identity: &identity}
}

func (s *authService) CreateSession(ctx context.Context, identity domain.Identity) (string, error) {
	return s.sessions.Create(ctx, identity)
}

// Logout destroys the server-side session. Clearing the token cookie is the
// transport layer's job.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// CompleteGoogleLogin exchanges the provider's authorization code and lands
// the profile on a user row.
func (s *authService) CompleteGoogleLogin(ctx context.Context, code string) (*domain.User, error) {
	profile, err := s.google.FetchProfile(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google login failed: %w", err)
	}
	return s.ResolveOrCreateUser(ctx, profile.Email, profile.Name)
}
