package cli

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenInfo is what can be read from a session token without the
// backend's key. None of it is verified.
type tokenInfo struct {
	Subject   string
	Email     string
	Name      string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

func (t *tokenInfo) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !t.ExpiresAt.After(now)
}

// inspectToken decodes the claims of a JWT session token. Tokens that are
// not JWTs are fine to hold, they just have nothing to show.
func inspectToken(raw string) (*tokenInfo, error) {
	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("session token is not a JWT: %w", err)
	}

	info := &tokenInfo{}
	info.Subject, _ = claims.GetSubject()

	for _, key := range []string{"email", "userEmail"} {
		if email, ok := claims[key].(string); ok && len(email) > 0 {
			info.Email = email
			break
		}
	}
	if name, ok := claims["name"].(string); ok {
		info.Name = name
	}
	if len(info.Subject) == 0 {
		for _, key := range []string{"id", "userId", "user_id"} {
			switch v := claims[key].(type) {
			case string:
				info.Subject = v
			case float64:
				info.Subject = fmt.Sprintf("%.0f", v)
			}
			if len(info.Subject) > 0 {
				break
			}
		}
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		info.IssuedAt = &t
	}

	return info, nil
}
