package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"loksangam/internal/logger"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID int64
	Role   string
}

// Middleware returns a chi-compatible middleware that requires a valid
// bearer token. When a session cache is supplied, the token must also
// still have a live session entry.
func Middleware(secret string, cache *SessionCache, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := ExtractBearer(r)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, err.Error())
				return
			}

			claims, err := ParseToken(secret, tokenString)
			if err != nil {
				if log != nil {
					log.Warn("AUTH", "Rejected token: "+err.Error())
				}
				writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			identity := Identity{Role: claims.Role}
			if _, err := json.Number(claims.Subject).Int64(); err == nil {
				identity.UserID, _ = json.Number(claims.Subject).Int64()
			}

			if cache != nil {
				session, err := cache.Get(r.Context(), claims.ID)
				if err != nil {
					if log != nil {
						log.Error("AUTH", "Session lookup failed: "+err.Error())
					}
					writeDetail(w, http.StatusInternalServerError, "Session lookup failed")
					return
				}
				if session == nil {
					writeDetail(w, http.StatusUnauthorized, "Session has expired")
					return
				}
				identity.UserID = session.UserID
				identity.Role = session.Role
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// ContextWithIdentity attaches an identity to the context. Handlers read
// it back with FromContext.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// FromContext returns the authenticated identity, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
