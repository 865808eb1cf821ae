package handlers

import (
	"errors"
	"net/http"
	"strings"

	"wyzar-be/internal/user"
	"wyzar-be/internal/utils"
)

type AuthHandler struct {
	Svc user.Service
}

func NewAuthHandler(svc user.Service) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsSeller bool   `json:"is_seller"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.WriteJSONError(w, "a valid email is required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 6 {
		utils.WriteJSONError(w, "password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	u, err := h.Svc.Register(r.Context(), req.Email, req.Password, req.IsSeller)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			utils.WriteJSONError(w, "User already exists", http.StatusBadRequest)
			return
		}
		utils.WriteJSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"msg":  "User registered successfully",
		"user": u,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, _, err := h.Svc.Login(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			// Same message for unknown email and wrong password.
			utils.WriteJSONError(w, "Invalid Credentials", http.StatusBadRequest)
			return
		}
		utils.WriteJSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	u, err := h.Svc.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			utils.WriteJSONError(w, "User not found", http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, u)
}

type otpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.Svc.VerifyOTP(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)), req.Code)
	if err != nil {
		writeCodeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"msg": "Account verified"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Responds identically for known and unknown emails.
	if err := h.Svc.RequestPasswordReset(r.Context(), strings.TrimSpace(strings.ToLower(req.Email))); err != nil {
		utils.WriteJSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"msg": "If that email is registered, a reset code has been sent",
	})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.NewPassword) < 6 {
		utils.WriteJSONError(w, "password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	err := h.Svc.ResetPassword(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)), req.Code, req.NewPassword)
	if err != nil {
		writeCodeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"msg": "Password updated"})
}

func writeCodeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrCodeExpired):
		utils.WriteJSONError(w, "Verification code expired", http.StatusBadRequest)
	case errors.Is(err, user.ErrInvalidCode):
		utils.WriteJSONError(w, "Invalid verification code", http.StatusBadRequest)
	default:
		utils.WriteJSONError(w, "Server Error", http.StatusInternalServerError)
	}
}
