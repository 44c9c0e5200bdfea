package http

import (
	"encoding/json"
	"net/http"

	"github.com/quillhaven/quill/internal/session/service"
	"github.com/quillhaven/quill/pkg/httpx"
	"github.com/quillhaven/quill/pkg/slogx"
)

type FederatedLoginHandler struct {
	Accounts *service.AccountService
	Tokens   *service.TokenService
	Verifier service.FederatedVerifier
}

// ServeHTTP handles POST /federated-login. The caller presents either an
// OIDC ID token from the external provider or an authorization code to
// exchange; the verified external identity is mapped to a local account by
// email, created on first sight.
func (h *FederatedLoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if h.Verifier == nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, "federated login is not configured")
		return
	}

	var body struct {
		IDToken string `json:"idToken"`
		Code    string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		ext service.ExternalIdentity
		err error
	)
	switch {
	case body.IDToken != "":
		ext, err = h.Verifier.VerifyIDToken(ctx, body.IDToken)
	case body.Code != "":
		ext, err = h.Verifier.ExchangeCode(ctx, body.Code)
	default:
		httpx.WriteError(w, http.StatusBadRequest, "idToken or code is required")
		return
	}
	if err != nil {
		log.Warn("federated verification failed", "err", err)
		httpx.WriteError(w, http.StatusUnauthorized, "federated identity verification failed")
		return
	}

	ident, err := h.Accounts.FederatedLogin(ctx, ext)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	issueSession(w, r, h.Tokens, ident.ID)
}
