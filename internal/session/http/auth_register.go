package http

import (
	"encoding/json"
	"net/http"

	"github.com/quillhaven/quill/internal/session/service"
	"github.com/quillhaven/quill/pkg/httpx"
)

type RegisterHandler struct {
	Accounts *service.AccountService
	Tokens   *service.TokenService
}

// ServeHTTP handles POST /register. New accounts start with the reader role
// and are logged in immediately.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ident, err := h.Accounts.Register(ctx, service.RegisterParams{
		Username:    body.Username,
		Email:       body.Email,
		DisplayName: body.DisplayName,
		Password:    body.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	issueSession(w, r, h.Tokens, ident.ID)
}
