package middleware

import (
	"context"
	"net/http"
	"strings"

	authapp "comicforge/internal/app/auth"
	"comicforge/internal/domain"
	"comicforge/internal/handler/http/render"
	"comicforge/internal/token"

	"go.uber.org/zap"
)

const TokenCookieName = "token"
const SessionCookieName = "session_id"

type ctxKey int

const identityKey ctxKey = iota

// IdentityFromContext returns the identity attached by a guard. The second
// return is false on routes that ran no guard.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

func withIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// Guard gates protected routes. The lenient policy accepts any resolvable
// credential; the strict policy accepts signed tokens only.
type Guard struct {
	auth   authapp.AuthService
	tokens *token.Manager
	logger *zap.Logger
}

func NewGuard(auth authapp.AuthService, tokens *token.Manager, logger *zap.Logger) *Guard {
	return &Guard{auth: auth, tokens: tokens, logger: logger}
}

// CredentialFromRequest extracts the request's credential. A bearer header
// outranks the token cookie, which outranks the session cookie.
func CredentialFromRequest(r *http.Request) domain.Credential {
	if raw := bearerToken(r); raw != "" {
		return domain.TokenCredential{Raw: raw}
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return domain.TokenCredential{Raw: cookie.Value}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return domain.SessionCredential{ID: cookie.Value}
	}
	return nil
}

// RequireUser is the lenient policy: a valid signed token or a live session.
func (g *Guard) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred := CredentialFromRequest(r)
		if cred == nil {
			render.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		identity, err := g.auth.Resolve(r.Context(), cred)
		if err != nil {
			render.Error(w, http.StatusUnauthorized, "Invalid credential")
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

// RequireToken is the strict policy used by payment routes: a signed token in
// the Authorization header (precedence) or the token cookie. The token must
// parse and must carry a user_id claim; an explicit user id of 0 is valid.
func (g *Guard) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			if cookie, err := r.Cookie(TokenCookieName); err == nil {
				raw = cookie.Value
			}
		}
		if raw == "" {
			g.logger.Debug("Strict guard rejected request, no token present", zap.String("path", r.URL.Path))
			render.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := g.tokens.Verify(raw)
		if err != nil {
			g.logger.Debug("Strict guard rejected token", zap.String("path", r.URL.Path), zap.Error(err))
			render.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		identity := domain.Identity{UserID: *claims.UserID}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

// OptionalIdentity attaches an identity when a valid credential is present and
// passes the request through untouched otherwise.
func (g *Guard) OptionalIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cred := CredentialFromRequest(r); cred != nil {
			if identity, err := g.auth.Resolve(r.Context(), cred); err == nil {
				r = r.WithContext(withIdentity(r.Context(), identity))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
