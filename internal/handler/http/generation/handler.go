package generation_http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"comicforge/internal/app/generation"
	"comicforge/internal/domain"
	"comicforge/internal/handler/http/middleware"
	"comicforge/internal/handler/http/render"

	"go.uber.org/zap"
)

type GenerationHandler struct {
	service generation.GenerationService
	logger  *zap.Logger
}

func NewGenerationHandler(s generation.GenerationService, l *zap.Logger) *GenerationHandler {
	return &GenerationHandler{service: s, logger: l}
}

type GenerateRequest struct {
	UserTheme   string `json:"user_theme"`
	Genre       string `json:"genre"`
	Style       string `json:"style"`
	DontInclude string `json:"dont_include"`
}

type GenerateResponse struct {
	UUID     string `json:"uuid"`
	ImageURL string `json:"image_url"`
	MCQs     string `json:"mcqs,omitempty"`
}

type UserImageResponse struct {
	ImageURL  string `json:"image_url"`
	CreatedAt string `json:"created_at"`
}

type ListImagesResponse struct {
	Success bool                `json:"success"`
	Images  []UserImageResponse `json:"images"`
}

func (h *GenerationHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var identity *domain.Identity
	if id, ok := middleware.IdentityFromContext(r.Context()); ok {
		identity = &id
	}

	result, err := h.service.Generate(r.Context(), generation.GenerateInput{
		UserTheme:   req.UserTheme,
		Genre:       req.Genre,
		Style:       req.Style,
		DontInclude: req.DontInclude,
	}, identity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			render.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrProfaneInput):
			render.Error(w, http.StatusBadRequest, "Input contains inappropriate language")
		default:
			h.logger.Error("Image generation failed", zap.Error(err))
			render.Error(w, http.StatusBadGateway, "Error processing image")
		}
		return
	}

	render.JSON(w, http.StatusOK, GenerateResponse{
		UUID:     result.UUID,
		ImageURL: result.ImageURL,
		MCQs:     result.MCQs,
	})
}

func (h *GenerationHandler) ListImagesHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	images, err := h.service.ListImages(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("Failed to fetch user images", zap.Int64("user_id", identity.UserID), zap.Error(err))
		render.Error(w, http.StatusInternalServerError, "Failed to fetch images")
		return
	}

	resp := ListImagesResponse{Success: true, Images: []UserImageResponse{}}
	for _, img := range images {
		resp.Images = append(resp.Images, UserImageResponse{
			ImageURL:  img.ImageURL,
			CreatedAt: img.CreatedAt.Format(time.RFC3339),
		})
	}
	render.JSON(w, http.StatusOK, resp)
}
