package handlers

import (
	"net/http"

	"wyzar-be/internal/middleware"
	"wyzar-be/internal/payment/webhook"
)

// NewRouter wires the REST surface. Callers wrap the returned handler in
// the middleware chain (request id, logging, rate limit, auth).
func NewRouter(auth *AuthHandler, products *ProductHandler, orders *OrderHandler, paynow *webhook.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", auth.Register)
	mux.HandleFunc("POST /api/auth/login", auth.Login)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))
	mux.HandleFunc("POST /api/auth/verify-otp", auth.VerifyOTP)
	mux.HandleFunc("POST /api/auth/forgot-password", auth.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", auth.ResetPassword)

	mux.HandleFunc("GET /api/products", products.List)
	mux.HandleFunc("GET /api/products/{id}", products.Get)
	mux.HandleFunc("POST /api/products", middleware.RequireAuth(products.Create))

	mux.HandleFunc("POST /api/orders/create", middleware.RequireAuth(orders.Create))
	mux.HandleFunc("POST /api/orders/paynow/callback", paynow.ServeCallback)
	mux.HandleFunc("GET /api/orders/myorders", middleware.RequireAuth(orders.MyOrders))
	mux.HandleFunc("GET /api/orders/{id}", middleware.RequireAuth(orders.Get))

	return mux
}
