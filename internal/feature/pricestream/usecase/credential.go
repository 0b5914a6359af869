package usecase

import "strings"

// Carriers holds every place a connection may present its bearer token.
type Carriers struct {
	// Explicit is the token supplied as a dedicated field when the connection is opened.
	Explicit string
	// Authorization is the raw Authorization header.
	Authorization string
	// Cookie is the value of the access token cookie.
	Cookie string
}

// ExtractCredential returns the first non-empty token in priority order:
// explicit field, then Authorization bearer header, then cookie.
func ExtractCredential(c Carriers) (string, error) {
	if token := strings.TrimSpace(c.Explicit); token != "" {
		return token, nil
	}
	if token := bearerToken(c.Authorization); token != "" {
		return token, nil
	}
	if token := strings.TrimSpace(c.Cookie); token != "" {
		return token, nil
	}
	return "", ErrNoCredential
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
