package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/quillhaven/quill/pkg/jwtx"
	"github.com/quillhaven/quill/pkg/slogx"
)

// AccessCookieName is the http-only cookie the access token travels in for
// browser clients that cannot set an Authorization header.
const AccessCookieName = "accessToken"

// AccessVerifier validates a raw access token and returns its claims.
type AccessVerifier interface {
	VerifyAccess(raw string) (jwtx.AccessClaims, error)
}

// AuthnMiddleware guards a handler behind access-token verification. The
// token is read from the Authorization header first, falling back to the
// accessToken cookie. Requests that carry no token, or a token that fails
// verification for any reason, are rejected with 401 before the handler runs.
func AuthnMiddleware(v AccessVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := bearerToken(r)
			if raw == "" {
				writeBearerError(w, "missing access token")
				return
			}

			claims, err := v.VerifyAccess(raw)
			if err != nil {
				log.Warn("access token rejected", "err", err)
				writeBearerError(w, "access token verification failed")
				return
			}

			// Inject into context for downstream handlers.
			ctx = contextWithAuth(ctx, &claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the raw access token from the Authorization header,
// or from the accessToken cookie when no header is present.
func bearerToken(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
	}
	if c, err := r.Cookie(AccessCookieName); err == nil {
		return c.Value
	}
	return ""
}

func contextWithAuth(ctx context.Context, c *jwtx.AccessClaims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyIdentityID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// RFC 6750-compliant error response for bearer auth, wrapped in the
// standard envelope so clients can treat it like any other failure.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, desc)
}
