package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/alunodb/roster-be/internal/auth"
	"github.com/alunodb/roster-be/internal/services"
	"github.com/alunodb/roster-be/internal/web"
)

// AuthHandler serves login, logout and account creation.
type AuthHandler struct {
	users    services.UserServiceProvider
	sessions *auth.Sessions
	render   *web.Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, sessions *auth.Sessions, render *web.Renderer) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, render: render}
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "login.html", principalPtr(r), nil)
}

// Login handles POST /login. On success it issues the session cookie and
// redirects home; on failure the form is shown again with a flash.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")

	user, err := h.users.Authenticate(username, r.PostFormValue("password"))
	if errors.Is(err, services.ErrInvalidCredentials) {
		log.Warn().Str("username", username).Msg("failed authentication attempt")
		web.SetFlash(w, "Credenciais inválidas!")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("authentication failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue session token")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.sessions.SetCookie(w, token)
	log.Info().Str("username", user.Username).Msg("user logged in")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles GET /logout. Clearing an absent cookie is a no-op, so
// the operation is idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignupForm handles GET /criar-conta.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "criar_conta.html", principalPtr(r), nil)
}

// Signup handles POST /criar-conta. Self-service accounts are always
// non-admin: the original application accepted an is_admin form field
// here with no authorization check, which let anyone mint an admin.
// Admin accounts come only from the startup bootstrap.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")

	_, err := h.users.CreateAccount(username, r.PostFormValue("password"), false)
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		web.SetFlash(w, "Usuário já existe!")
		http.Redirect(w, r, "/criar-conta", http.StatusSeeOther)
		return
	case errors.Is(err, services.ErrValidation):
		web.SetFlash(w, "Usuário e senha são obrigatórios!")
		http.Redirect(w, r, "/criar-conta", http.StatusSeeOther)
		return
	case err != nil:
		log.Error().Err(err).Str("username", username).Msg("failed to create account")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Info().Str("username", username).Msg("account created")
	web.SetFlash(w, "Conta criada com sucesso!")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
