package http

import (
	"encoding/json"
	"net/http"

	"github.com/quillhaven/quill/internal/session/service"
	"github.com/quillhaven/quill/pkg/httpx"
)

type RefreshHandler struct {
	Tokens *service.TokenService
}

// ServeHTTP handles POST /refresh. The refresh token comes from the
// refreshToken cookie or, failing that, the JSON body. Rotation consumes
// the presented token: on success a new pair replaces it, and the old
// refresh token is dead either way.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := refreshTokenFromRequest(r)
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "refresh token is required")
		return
	}

	pair, ident, err := h.Tokens.Rotate(ctx, token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	setSessionCookies(w, pair, h.Tokens.RefreshTTL)
	httpx.WriteSuccess(w, http.StatusOK, newAuthPayload(pair, ident))
}

func refreshTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(RefreshCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return ""
	}
	return body.RefreshToken
}
