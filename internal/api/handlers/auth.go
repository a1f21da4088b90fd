package handlers

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rohits-web03/evently/internal/api/middleware"
	"github.com/rohits-web03/evently/internal/api/services"
	"github.com/rohits-web03/evently/internal/config"
	"github.com/rohits-web03/evently/internal/logging"
	"github.com/rohits-web03/evently/internal/utils"
)

const (
	TokenCookie      = middleware.SessionCookie
	OAuthStateCookie = "oauth_state"

	oauthStateTTL = 10 * time.Minute
)

type AuthHandler struct {
	auth        *services.AuthService
	google      *services.GoogleAuth
	frontendURL string
	production  bool
	log         logging.Logger
}

// NewAuthHandler builds the auth endpoints. google may be nil when social
// login is not configured.
func NewAuthHandler(auth *services.AuthService, google *services.GoogleAuth, cfg config.Config, log logging.Logger) *AuthHandler {
	return &AuthHandler{
		auth:        auth,
		google:      google,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		production:  cfg.IsProduction(),
		log:         log,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "Account details"
// @Success 201 {object} utils.Payload{data=models.UserSummary}
// @Failure 400 {object} utils.Payload
// @Failure 409 {object} utils.Payload
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input registerRequest
	if err := decodeJSON(r, &input, false); err != nil {
		badJSON(w)
		return
	}

	user, err := h.auth.Register(r.Context(), services.RegisterInput(input))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusCreated, "User registered successfully", user)
}

// Login godoc
// @Summary Log in with email and password
// @Description Returns a bearer token valid for 24 hours and also sets it as the "token" cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} utils.Payload{data=services.LoginResult}
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := decodeJSON(r, &input, false); err != nil {
		badJSON(w)
		return
	}

	result, err := h.auth.Login(r.Context(), services.LoginInput{
		Email:     input.Email,
		Password:  input.Password,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	h.setTokenCookie(w, result.Token, result.ExpiresAt)
	utils.Success(w, http.StatusOK, "Login successful", result)
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.production,
		HttpOnly: true,
		SameSite: h.sameSite(),
	})
	utils.Success(w, http.StatusOK, "Logged out successfully", nil)
}

// GoogleLogin godoc
// @Summary Start Google sign-in
// @Tags Auth
// @Param redirect query string false "login or register"
// @Success 307
// @Failure 503 {object} utils.Payload
// @Router /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	target, state, err := h.google.AuthCodeURL(r.URL.Query().Get("redirect"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	h.setStateCookie(w, state, int(oauthStateTTL.Seconds()))
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// GoogleCallback godoc
// @Summary Finish Google sign-in and redirect to the frontend
// @Tags Auth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 307
// @Failure 400 {object} utils.Payload
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.FormValue("state")
	cookie, err := r.Cookie(OAuthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != state {
		utils.Error(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	h.setStateCookie(w, "", -1)

	result, flow, err := h.google.Callback(r.Context(), state, r.FormValue("code"))
	switch {
	case err == nil:
	case errors.Is(err, services.ErrEmailTaken):
		h.redirectFrontend(w, r, "/login", "error", "user_already_exists")
		return
	case errors.Is(err, services.ErrUserNotFound):
		h.redirectFrontend(w, r, "/register", "error", "user_not_found")
		return
	case errors.Is(err, services.ErrAccountDeactivated):
		h.redirectFrontend(w, r, "/login", "error", "account_deactivated")
		return
	default:
		writeServiceError(w, r, h.log, err)
		return
	}

	h.setTokenCookie(w, result.Token, result.ExpiresAt)
	status := "success_login"
	if flow == services.FlowRegister {
		status = "success_register"
	}
	h.redirectFrontend(w, r, "/events", "status", status)
}

func (h *AuthHandler) redirectFrontend(w http.ResponseWriter, r *http.Request, path, key, value string) {
	q := url.Values{}
	q.Set(key, value)
	http.Redirect(w, r, h.frontendURL+path+"?"+q.Encode(), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) sameSite() http.SameSite {
	if h.production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// setStateCookie stores the OAuth state for the callback. Lax SameSite lets
// it ride along on the top-level redirect back from Google.
func (h *AuthHandler) setStateCookie(w http.ResponseWriter, state string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     OAuthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   maxAge,
		Secure:   h.production,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Secure:   h.production,
		HttpOnly: true,
		SameSite: h.sameSite(),
	})
}

// clientIP prefers the first X-Forwarded-For hop, then the peer address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
