package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokens, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Login failed", "username", loginReq.Username, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User logged in", "username", tokens.Username, "role", tokens.Role)
	response.SuccessWithMessage(w, "Login successful", tokens)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	token := jwtauth.TokenFromHeader(r)

	if err := a.authService.Logout(r.Context(), token); err != nil {
		slog.Error("Logout service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logout successful", nil)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	response.Success(w, auth.MeResponse{
		Username:  username,
		Role:      role,
		ExpiresAt: token.Expiration().Unix(),
	})
}

// Register implements AuthHandler.
func (a *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq auth.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := a.authService.Register(r.Context(), registerReq)
	if err != nil {
		slog.Error("Register service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User registered", "username", created.Username, "role", created.Role)
	response.Created(w, "User registered successfully", created)
}
