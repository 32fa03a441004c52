// Copyright (c) 2026 Rokto. All rights reserved.

package sec

import (
	"net/http"
	"time"

	"github.com/roktoapp/rokto/internal/platform/constants"
)

// CookieTransport attaches and clears the identity token cookie.
//
// # Flags
//
// The cookie is always HTTP-only and scoped to "/". In production the
// frontend is served from a different origin, so the cookie must be
// Secure with SameSite=None; in development it stays SameSite=Strict
// over plain HTTP.
type CookieTransport struct {
	production bool
	lifetime   time.Duration
}

// NewCookieTransport builds the transport for the given environment.
// The lifetime must equal the token lifetime so the cookie and the
// token expire together.
func NewCookieTransport(production bool, lifetime time.Duration) *CookieTransport {
	return &CookieTransport{production: production, lifetime: lifetime}
}

// Attach writes the token cookie to the response.
func (t *CookieTransport) Attach(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, t.cookie(token, int(t.lifetime.Seconds())))
}

// Clear expires the token cookie. The security flags must match the ones
// used by Attach or browsers will refuse to drop the cookie.
func (t *CookieTransport) Clear(writer http.ResponseWriter) {
	http.SetCookie(writer, t.cookie("", 0))
}

func (t *CookieTransport) cookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteStrictMode
	if t.production {
		sameSite = http.SameSiteNoneMode
	}
	cookie := &http.Cookie{
		Name:     constants.TokenCookieName,
		Value:    value,
		Path:     constants.TokenCookiePath,
		MaxAge:   maxAge,
		Secure:   t.production,
		HttpOnly: true,
		SameSite: sameSite,
	}
	// MaxAge 0 means "expire now" on the wire, but Go omits the attribute
	// entirely for 0. Force an explicit immediate expiry.
	if maxAge == 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	}
	return cookie
}
