package http

import (
	"github.com/quillhaven/quill/internal/session/domain"
)

// identityPayload is the caller-visible projection of an identity.
type identityPayload struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// authPayload is the data portion of every successful credential response.
type authPayload struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	TokenType    string          `json:"tokenType"`
	ExpiresIn    int64           `json:"expiresIn"`
	Identity     identityPayload `json:"identity"`
}

func newIdentityPayload(ident domain.Identity) identityPayload {
	return identityPayload{
		ID:          ident.ID,
		Username:    ident.Username,
		Email:       ident.Email,
		DisplayName: ident.DisplayName,
		Role:        ident.Role.String(),
	}
}

func newAuthPayload(pair domain.TokenPair, ident domain.Identity) authPayload {
	return authPayload{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
		Identity:     newIdentityPayload(ident),
	}
}
