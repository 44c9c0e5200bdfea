package http

import (
	"net/http"

	"github.com/quillhaven/quill/internal/session/service"
	"github.com/quillhaven/quill/pkg/httpx"
)

type LogoutHandler struct {
	Tokens *service.TokenService
}

// ServeHTTP handles POST /logout. The route is authn-guarded, so by the
// time this runs the caller has proven who they are; revocation then clears
// the session record and expires both cookies. Idempotent: logging out an
// already-cleared session still succeeds.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identityID := httpx.IdentityIDFromContext(ctx)
	if identityID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "missing access token")
		return
	}

	if err := h.Tokens.Revoke(ctx, identityID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	clearSessionCookies(w)
	httpx.WriteSuccess(w, http.StatusOK, nil)
}
