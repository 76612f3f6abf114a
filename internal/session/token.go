package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// cookieSigner signs the session id into a compact JWT so the cookie cannot
// be forged or have its id swapped.
type cookieSigner struct {
	secret []byte
}

func newCookieSigner(secret string) *cookieSigner {
	return &cookieSigner{secret: []byte(secret)}
}

func (s *cookieSigner) sign(sessionID string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *cookieSigner) verify(value string) (string, error) {
	token, err := jwt.Parse(value, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type")
	}
	sessionID, ok := claims["sid"].(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("session id claim missing")
	}
	return sessionID, nil
}
