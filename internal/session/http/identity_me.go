package http

import (
	"net/http"

	"github.com/quillhaven/quill/internal/session/store"
	"github.com/quillhaven/quill/pkg/httpx"
	"github.com/quillhaven/quill/pkg/slogx"
)

type MeHandler struct {
	Identities store.Identities
}

// ServeHTTP handles GET /me, the guarded identity probe.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identityID := httpx.IdentityIDFromContext(ctx)
	if identityID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "missing access token")
		return
	}

	ident, err := h.Identities.GetByID(ctx, identityID)
	if err != nil {
		log.Warn("failed to load identity", "identity_id", identityID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, newIdentityPayload(ident))
}
