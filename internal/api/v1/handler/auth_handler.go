package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"boardinghouse/internal/api/v1/dto"
	"boardinghouse/internal/service"
)

// AuthHandler handles sign-in and the current user
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewAuthHandler(authService service.AuthService, userService service.UserService, validate *validator.Validate, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, validate: validate, logger: logger}
}

// RegisterRoutes mounts auth routes. Sign-in is the only public route.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /auth/google", h.signInWithGoogle)
	mux.Handle("GET /me", authMw(http.HandlerFunc(h.getMe)))
}

// signInWithGoogle godoc
// @Summary Sign in with Google
// @Description Exchanges a Google ID token for a session token. Only whitelisted, active accounts may sign in.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.GoogleSignInDTO true "Google ID token"
// @Success 200 {object} service.Session
// @Failure 400 {object} dto.ErrorDTO
// @Failure 401 {object} dto.ErrorDTO "Invalid Google token"
// @Failure 403 {object} dto.ErrorDTO "Email not whitelisted or account inactive"
// @Router /auth/google [post]
func (h *AuthHandler) signInWithGoogle(w http.ResponseWriter, r *http.Request) {
	var req dto.GoogleSignInDTO
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	session, err := h.authService.SignInWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// getMe godoc
// @Summary Get the current user
// @Tags auth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} dto.ErrorDTO
// @Router /me [get]
func (h *AuthHandler) getMe(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	u, err := h.userService.Get(r.Context(), p.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
