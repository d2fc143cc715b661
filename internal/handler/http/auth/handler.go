package auth_http

import (
	"net/http"
	"time"

	authapp "comicforge/internal/app/auth"
	"comicforge/internal/domain"
	"comicforge/internal/handler/http/middleware"
	"comicforge/internal/handler/http/render"
	"comicforge/internal/oauth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const stateCookieName = "oauth_state"
const stateCookieTTL = 10 * time.Minute

// CookieConfig controls how credential cookies are written. Secure and Domain
// depend on the deployment environment.
type CookieConfig struct {
	Domain     string
	Secure     bool
	TokenTTL   time.Duration
	SessionTTL time.Duration
}

type AuthHandler struct {
	service     authapp.AuthService
	google      *oauth.GoogleClient
	cookies     CookieConfig
	frontendURL string
	logger      *zap.Logger
}

func NewAuthHandler(service authapp.AuthService, google *oauth.GoogleClient, cookies CookieConfig, frontendURL string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:     service,
		google:      google,
		cookies:     cookies,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

func (h *AuthHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	cred := middleware.CredentialFromRequest(r)
	status := h.service.AuthStatus(r.Context(), cred)
	render.JSON(w, http.StatusOK, status)
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Error("Session destroy failed", zap.Error(err))
			render.Error(w, http.StatusInternalServerError, "Logout failed")
			return
		}
	}

	h.clearCookie(w, middleware.TokenCookieName)
	h.clearCookie(w, middleware.SessionCookieName)

	render.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out successfully"})
}

func (h *AuthHandler) GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(stateCookieTTL.Seconds()),
	})
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

func (h *AuthHandler) GoogleRedirectHandler(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.logger.Warn("OAuth callback with bad state")
		h.redirectToFailure(w, r)
		return
	}
	h.clearCookie(w, stateCookieName)

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectToFailure(w, r)
		return
	}

	user, err := h.service.CompleteGoogleLogin(r.Context(), code)
	if err != nil {
		h.logger.Error("Google login failed", zap.Error(err))
		h.redirectToFailure(w, r)
		return
	}

	signed, err := h.service.IssueToken(user.ID)
	if err != nil {
		h.logger.Error("Token issue failed", zap.Int64("user_id", user.ID), zap.Error(err))
		h.redirectToFailure(w, r)
		return
	}

	sessionID, err := h.service.CreateSession(r.Context(), domain.Identity{UserID: user.ID})
	if err != nil {
		h.logger.Error("Session creation failed", zap.Int64("user_id", user.ID), zap.Error(err))
		h.redirectToFailure(w, r)
		return
	}

	h.setCookie(w, middleware.TokenCookieName, signed, h.cookies.TokenTTL)
	h.setCookie(w, middleware.SessionCookieName, sessionID, h.cookies.SessionTTL)

	http.Redirect(w, r, h.frontendURL, http.StatusFound)
}

func (h *AuthHandler) redirectToFailure(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.frontendURL+"/?login=failed", http.StatusFound)
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	sameSite := http.SameSiteLaxMode
	if h.cookies.Secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookies.Domain,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: sameSite,
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.cookies.Domain,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		MaxAge:   -1,
	})
}
