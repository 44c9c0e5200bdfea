package httpx

import (
	"context"

	"github.com/quillhaven/quill/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyIdentityID ctxKey = "identity_id"
	CtxKeyRole       ctxKey = "role"
	CtxKeyClaims     ctxKey = "claims"
)

// ClaimsFromContext returns the verified access claims attached by
// AuthnMiddleware, or nil when the request is anonymous.
func ClaimsFromContext(ctx context.Context) *jwtx.AccessClaims {
	if c, ok := ctx.Value(CtxKeyClaims).(*jwtx.AccessClaims); ok {
		return c
	}
	return nil
}

// IdentityIDFromContext returns the authenticated identity ID, or the empty
// string when the request is anonymous.
func IdentityIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(CtxKeyIdentityID).(string); ok {
		return id
	}
	return ""
}

func roleFromCtx(ctx context.Context) string {
	if r, ok := ctx.Value(CtxKeyRole).(string); ok {
		return r
	}
	return ""
}
