package http

import (
	"net/http"

	"github.com/quillhaven/quill/internal/session/store"
	"github.com/quillhaven/quill/pkg/httpx"
	"github.com/quillhaven/quill/pkg/slogx"
)

type AdminIdentitiesHandler struct {
	Identities store.Identities
}

// ServeHTTP handles GET /admin/identities. The route is guarded by
// RequireRole(administrator); this handler only formats the listing.
func (h *AdminIdentitiesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identities, err := h.Identities.List(ctx)
	if err != nil {
		log.Error("failed to list identities", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	payload := make([]identityPayload, 0, len(identities))
	for _, ident := range identities {
		payload = append(payload, newIdentityPayload(ident))
	}
	httpx.WriteSuccess(w, http.StatusOK, payload)
}
