package generation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"comicforge/internal/delegate"
	"comicforge/internal/domain"
	"comicforge/internal/profanity"
	"comicforge/internal/repository/images_repo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxThemeLength = 300

// Delegate is the slice of the ML pipeline client the service needs.
type Delegate interface {
	Generate(ctx context.Context, req delegate.GenerateRequest) (*delegate.GenerateResponse, error)
}

type GenerateInput struct {
	UserTheme   string
	Genre       string
	Style       string
	DontInclude string
}

type GenerateResult struct {
	UUID     string
	ImageURL string
	MCQs     string
}

type GenerationService interface {
	Generate(ctx context.Context, input GenerateInput, identity *domain.Identity) (*GenerateResult, error)
	ListImages(ctx context.Context, userID int64) ([]domain.UserImage, error)
}

type generationService struct {
	db        *sql.DB
	imageRepo images_repo.ImageRepository
	delegate  Delegate
	filter    *profanity.Filter
	logger    *zap.Logger
}

func NewGenerationService(
	db *sql.DB,
	imageRepo images_repo.ImageRepository,
	del Delegate,
	filter *profanity.Filter,
	logger *zap.Logger,
) GenerationService {
	return &generationService{
		db:        db,
		imageRepo: imageRepo,
		delegate:  del,
		filter:    filter,
		logger:    logger,
	}
}

// Generate validates and moderates the prompt, delegates rendering, and saves
// the result to the caller's history when an identity is present. A history
// save failure is logged but never fails the generation itself.
func (s *generationService) Generate(ctx context.Context, input GenerateInput, identity *domain.Identity) (*GenerateResult, error) {
	input.UserTheme = strings.TrimSpace(input.UserTheme)
	input.Genre = strings.TrimSpace(input.Genre)
	input.Style = strings.TrimSpace(input.Style)
	input.DontInclude = strings.TrimSpace(input.DontInclude)

	if input.UserTheme == "" {
		return nil, fmt.Errorf("%w: theme is required", domain.ErrInvalidInput)
	}
	if len(input.UserTheme) > maxThemeLength {
		return nil, fmt.Errorf("%w: theme too long", domain.ErrInvalidInput)
	}
	if s.filter.AnyProfane(input.UserTheme, input.Genre, input.Style, input.DontInclude) {
		return nil, domain.ErrProfaneInput
	}

	requestID := uuid.NewString()
	resp, err := s.delegate.Generate(ctx, delegate.GenerateRequest{
		UserTheme:   input.UserTheme,
		Genre:       input.Genre,
		Style:       input.Style,
		DontInclude: input.DontInclude,
		UUID:        requestID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDelegateFailure, err)
	}

	if identity != nil {
		if err := s.imageRepo.SaveTx(ctx, s.db, identity.UserID, resp.ImageURL); err != nil {
			s.logger.Error("Failed to save image to user history",
				zap.Int64("user_id", identity.UserID),
				zap.Error(err))
		}
	}

	return &GenerateResult{
		UUID:     requestID,
		ImageURL: resp.ImageURL,
		MCQs:     resp.MCQs,
	}, nil
}

func (s *generationService) ListImages(ctx context.Context, userID int64) ([]domain.UserImage, error) {
	images, err := s.imageRepo.ListByUserTx(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images for user %d: %w", userID, err)
	}
	return images, nil
}
