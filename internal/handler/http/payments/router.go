package payments_http

import (
	"comicforge/internal/app/payments"
	"comicforge/internal/handler/http/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func RegisterRoutes(r chi.Router, s payments.PaymentService, guard *middleware.Guard, l *zap.Logger) {
	handler := NewPaymentHandler(s, l.With(zap.String("component", "PaymentHTTPHandler")))

	r.Route("/payments", func(r chi.Router) {
		r.Use(guard.RequireToken)
		r.Post("/create-order", handler.CreateOrderHandler)
		r.Post("/verify-payment", handler.VerifyPaymentHandler)
	})
}
