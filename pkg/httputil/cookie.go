package httputil

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const SpectatorCookieName = "spectator_token"

var ErrNoToken = errors.New("no spectator token found in header, cookie or query")

// SetSpectatorCookie stores a spectator token for browsers that cannot set
// headers on a WebSocket upgrade.
func SetSpectatorCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	cookie := &http.Cookie{
		Name:     SpectatorCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
	}

	// SameSite=None requires Secure=true
	if secure {
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, cookie)
}

// TokenFromRequest looks for a spectator token in the Authorization header,
// then the cookie, then the "token" query parameter.
func TokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer "), nil
		}
		return authHeader, nil
	}

	if cookie, err := r.Cookie(SpectatorCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}

	return "", ErrNoToken
}
