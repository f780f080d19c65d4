package auth

import (
	"net/http"
	"strings"
)

// ExtractBearerTokenFromHeader extracts the token from an Authorization header value,
// accepting either "Bearer" or "bearer".
func ExtractBearerTokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	const bearerPrefix = "bearer "
	if strings.HasPrefix(strings.ToLower(header), bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return ""
}

// ExtractSessionToken looks for the session token in the cookie first, then the
// Authorization header, then the "token" query parameter.
func ExtractSessionToken(r *http.Request, cookieName string) string {
	if r == nil {
		return ""
	}
	if cookieName != "" {
		if cookie, err := r.Cookie(cookieName); err == nil {
			if v := strings.TrimSpace(cookie.Value); v != "" {
				return v
			}
		}
	}
	if token := ExtractBearerTokenFromHeader(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if r.URL == nil {
		return ""
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
