package handlers

import (
	"errors"
	"net/http"

	"wyzar-be/internal/order"
	"wyzar-be/internal/utils"
)

type OrderHandler struct {
	Svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{Svc: svc}
}

type createOrderRequest struct {
	CartItems       []order.CartItem      `json:"cart_items"`
	ShippingAddress order.ShippingAddress `json:"shipping_address"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, _ := utils.GetUserIDFromContext(r.Context())
	email := utils.GetUserEmailFromContext(r.Context())

	o, redirectURL, err := h.Svc.Create(r.Context(), userID, email, req.CartItems, req.ShippingAddress)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrProductNotFound):
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, order.ErrInsufficientStock),
			errors.Is(err, order.ErrInvalidQuantity),
			errors.Is(err, order.ErrEmptyCart):
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, order.ErrPaymentInit):
			utils.WriteJSONError(w, err.Error(), http.StatusBadGateway)
		default:
			utils.WriteJSONError(w, "Server Error", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"order_id":            o.ID,
		"paynow_redirect_url": redirectURL,
	})
}

func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orders, err := h.Svc.ListForUser(r.Context(), userID)
	if err != nil {
		utils.WriteJSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if orders == nil {
		orders = []order.Order{}
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	o, err := h.Svc.Get(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			utils.WriteJSONError(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, order.ErrNotOwner):
			utils.WriteJSONError(w, "Not authorized", http.StatusUnauthorized)
		default:
			utils.WriteJSONError(w, "Server Error", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}
