package handler

import (
	"net/http"
	"time"

	"github.com/templui/jobtracker/internal/ctxkeys"
	"github.com/templui/jobtracker/internal/middleware"
	"github.com/templui/jobtracker/internal/model"
	"github.com/templui/jobtracker/internal/render"
	"github.com/templui/jobtracker/internal/service"
)

type AuthHandler struct {
	authService   *service.AuthService
	secureCookies bool
}

func NewAuthHandler(authService *service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

type authResponse struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.issueToken(w, r, user, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	err := decodeJSON(w, r, &in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.issueToken(w, r, user, http.StatusOK)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w)
	render.NoContent(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.User(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	err := h.authService.DeleteAccount(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.clearCookie(w)
	render.NoContent(w)
}

// issueToken returns the token in the body for API clients and as an HttpOnly
// cookie for browsers.
func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, user *model.User, status int) {
	token, expiresAt, err := h.authService.GenerateJWT(user)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Expires:  expiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	render.JSON(w, status, authResponse{User: user, Token: token, ExpiresAt: expiresAt})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
