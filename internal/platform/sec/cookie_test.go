// Copyright (c) 2026 Rokto. All rights reserved.

package sec_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roktoapp/rokto/internal/platform/sec"
)

func recordedCookie(t *testing.T, write func(http.ResponseWriter)) *http.Cookie {
	t.Helper()
	recorder := httptest.NewRecorder()
	write(recorder)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

/*
TestCookieTransport_AttachProduction checks the cross-origin flags: in
production the frontend is on another origin, so the cookie must be Secure
with SameSite=None.
*/
func TestCookieTransport_AttachProduction(t *testing.T) {
	transport := sec.NewCookieTransport(true, 24*time.Hour)

	cookie := recordedCookie(t, func(w http.ResponseWriter) {
		transport.Attach(w, "token-value")
	})

	assert.Equal(t, "token", cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, int((24 * time.Hour).Seconds()), cookie.MaxAge)
}

/*
TestCookieTransport_AttachDevelopment checks that development stays strict
over plain HTTP.
*/
func TestCookieTransport_AttachDevelopment(t *testing.T) {
	transport := sec.NewCookieTransport(false, time.Hour)

	cookie := recordedCookie(t, func(w http.ResponseWriter) {
		transport.Attach(w, "token-value")
	})

	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

/*
TestCookieTransport_Clear verifies that logout produces an immediately
expiring cookie with matching security flags.
*/
func TestCookieTransport_Clear(t *testing.T) {
	transport := sec.NewCookieTransport(true, time.Hour)

	cookie := recordedCookie(t, func(w http.ResponseWriter) {
		transport.Clear(w)
	})

	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.True(t, cookie.Expires.Before(time.Now()))
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
}
