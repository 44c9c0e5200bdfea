package http

import (
	"encoding/json"
	"net/http"

	"github.com/quillhaven/quill/internal/session/service"
	"github.com/quillhaven/quill/pkg/httpx"
)

type LoginHandler struct {
	Accounts *service.AccountService
	Tokens   *service.TokenService
}

// ServeHTTP handles POST /login. A successful login issues a fresh token
// pair, which invalidates any refresh token a previous login left behind.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ident, err := h.Accounts.Login(ctx, body.Username, body.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	issueSession(w, r, h.Tokens, ident.ID)
}

// issueSession mints a token pair for the identity and delivers it both as
// cookies and in the response body. Shared by login, register, and
// federated login.
func issueSession(w http.ResponseWriter, r *http.Request, tokens *service.TokenService, identityID string) {
	pair, ident, err := tokens.Issue(r.Context(), identityID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	setSessionCookies(w, pair, tokens.RefreshTTL)
	httpx.WriteSuccess(w, http.StatusOK, newAuthPayload(pair, ident))
}
