package generation_http

import (
	"comicforge/internal/app/generation"
	"comicforge/internal/handler/http/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func RegisterRoutes(r chi.Router, s generation.GenerationService, guard *middleware.Guard, l *zap.Logger) {
	handler := NewGenerationHandler(s, l.With(zap.String("component", "GenerationHTTPHandler")))

	r.With(guard.OptionalIdentity).Post("/generate", handler.GenerateHandler)
	r.With(guard.RequireUser).Get("/user/images", handler.ListImagesHandler)
}
