package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/ineffable/agency-server/internal/audit"
	apperrors "github.com/ineffable/agency-server/internal/errors"
	"github.com/ineffable/agency-server/internal/httputil"
	"github.com/ineffable/agency-server/internal/model"
	"github.com/ineffable/agency-server/internal/token"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

// GetIdentity returns the identity established by AuthMiddleware, if any.
func GetIdentity(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(model.Identity)
	return identity, ok
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, accountID string, issuedAt time.Time) (bool, error)
}

// AuthMiddleware turns a bearer session token into a request identity.
// Missing, malformed, expired and revoked tokens all get the same 401.
type AuthMiddleware struct {
	tokens      TokenVerifier
	revocations RevocationChecker
}

func NewAuthMiddleware(tokens TokenVerifier, revocations RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revocations: revocations}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractToken(r)
		if raw == "" {
			reject(w, r, "missing token")
			return
		}

		claims, err := m.tokens.Verify(raw)
		if err != nil {
			reject(w, r, err.Error())
			return
		}
		identity := claims.Identity()

		revoked, err := m.revocations.IsRevoked(r.Context(), identity.AccountID, identity.IssuedAt)
		if err != nil {
			log.Error().Err(err).Str("accountId", identity.AccountID).Msg("auth middleware: revocation check failed")
			httputil.WriteError(w, apperrors.Internal("Authentication failed").WithCause(err))
			return
		}
		if revoked {
			reject(w, r, "token revoked")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func reject(w http.ResponseWriter, r *http.Request, reason string) {
	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventAuthFailure,
		Details: map[string]interface{}{"reason": reason, "path": r.URL.Path},
	})
	httputil.WriteError(w, apperrors.Unauthorized())
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// RequireRole admits only identities holding one of roles.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				httputil.WriteError(w, apperrors.Unauthorized())
				return
			}
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventForbidden,
				ActorID: identity.AccountID,
				Details: map[string]interface{}{"role": string(identity.Role), "path": r.URL.Path},
			})
			httputil.WriteError(w, apperrors.Forbidden("Insufficient role"))
		})
	}
}

// SelfGuard refuses requests whose {param} URL parameter names the acting
// account. message is returned to the client as is.
func SelfGuard(param, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				httputil.WriteError(w, apperrors.Unauthorized())
				return
			}
			target := model.CanonicalID(chi.URLParam(r, param))
			if target != "" && target == model.CanonicalID(identity.AccountID) {
				audit.LogFromRequest(r, audit.Event{
					Type:     audit.EventSelfActionDenied,
					ActorID:  identity.AccountID,
					TargetID: identity.AccountID,
					Details:  map[string]interface{}{"method": r.Method, "path": r.URL.Path},
				})
				httputil.WriteError(w, apperrors.SelfActionDenied(message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
