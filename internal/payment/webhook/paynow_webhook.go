package webhook

import (
	"io"
	"net/http"

	"wyzar-be/internal/logger"
	"wyzar-be/internal/order"
	"wyzar-be/internal/payment"

	"go.uber.org/zap"
)

// Handler receives Paynow status updates on the result URL.
type Handler struct {
	OrderSvc order.Service
	Gateway  payment.Gateway
}

func NewHandler(orderSvc order.Service, gateway payment.Gateway) *Handler {
	return &Handler{
		OrderSvc: orderSvc,
		Gateway:  gateway,
	}
}

// ServeCallback always acknowledges with 200: a non-success response makes
// the gateway retry, and every failure mode here either needs no retry
// (bad hash, unknown order) or will be caught by the pending-order
// sweeper.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warn("callback: failed to read body", zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}
	defer r.Body.Close()

	if err := h.Gateway.VerifyCallback(body); err != nil {
		log.Warn("callback: integrity check failed", zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	payload, err := payment.ParseCallback(body)
	if err != nil {
		log.Warn("callback: malformed payload", zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	log.Info("payment callback received",
		zap.String("reference", payload.Reference),
		zap.String("paynow_reference", payload.PaynowReference),
		zap.String("status", payload.Status),
	)

	if err := h.OrderSvc.HandleCallback(r.Context(), payload); err != nil {
		log.Error("callback: failed to update order",
			zap.String("reference", payload.Reference),
			zap.Error(err),
		)
	}

	w.WriteHeader(http.StatusOK)
}
