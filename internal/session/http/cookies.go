package http

import (
	"net/http"
	"time"

	"github.com/quillhaven/quill/internal/session/domain"
	"github.com/quillhaven/quill/pkg/httpx"
)

// RefreshCookieName is the http-only cookie carrying the refresh token for
// browser clients. The access cookie name lives in httpx so the guard can
// read it.
const RefreshCookieName = "refreshToken"

// setSessionCookies delivers the token pair as http-only secure cookies,
// alongside the JSON body. Browser clients rely on the cookies; programmatic
// clients read the body. Both carry the same tokens.
func setSessionCookies(w http.ResponseWriter, pair domain.TokenPair, refreshTTL time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.AccessCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(pair.ExpiresIn.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookies expires both session cookies.
func clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{httpx.AccessCookieName, RefreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
