package payments_http

import (
	"encoding/json"
	"errors"
	"net/http"

	"comicforge/internal/app/payments"
	"comicforge/internal/domain"
	"comicforge/internal/handler/http/middleware"
	"comicforge/internal/handler/http/render"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	service payments.PaymentService
	logger  *zap.Logger
}

func NewPaymentHandler(s payments.PaymentService, l *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: s, logger: l}
}

type CreateOrderRequest struct {
	PlanType string `json:"planType"`
}

type CreateOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Credits int    `json:"credits"`
}

func (h *PaymentHandler) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateOrderRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	quote, err := h.service.CreateOrder(r.Context(), identity.UserID, req.PlanType)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPlan):
			render.Error(w, http.StatusBadRequest, "Invalid plan type")
		case errors.Is(err, domain.ErrGatewayNotConfigured):
			render.Error(w, http.StatusInternalServerError, "Payment gateway not configured")
		default:
			h.logger.Error("Order creation failed", zap.Int64("user_id", identity.UserID), zap.Error(err))
			render.Error(w, http.StatusInternalServerError, "Failed to create order")
		}
		return
	}

	render.JSON(w, http.StatusOK, CreateOrderResponse{
		OrderID:  quote.OrderID,
		Amount:   quote.Amount,
		Currency: quote.Currency,
		KeyID:    quote.KeyID,
	})
}

func (h *PaymentHandler) VerifyPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	credits, err := h.service.VerifyPayment(r.Context(), req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingParameters):
			render.Error(w, http.StatusBadRequest, "Missing payment verification parameters")
		case errors.Is(err, domain.ErrInvalidSignature):
			render.Error(w, http.StatusBadRequest, "Invalid signature")
		case errors.Is(err, domain.ErrOrderNotFound):
			render.Error(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, domain.ErrOrderAlreadyProcessed):
			render.Error(w, http.StatusConflict, "Order already processed")
		default:
			h.logger.Error("Payment verification failed", zap.String("order_id", req.RazorpayOrderID), zap.Error(err))
			render.Error(w, http.StatusInternalServerError, "Failed to verify payment")
		}
		return
	}

	render.JSON(w, http.StatusOK, VerifyPaymentResponse{
		Success: true,
		Message: "Payment verified successfully",
		Credits: credits,
	})
}
