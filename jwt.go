package seoshop

import (
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"time"
)

// SessionToken issues an HS256 token naming sess, signed with the app secret.
func (a *App) SessionToken(sess *Session) (string, error) {
	if sess == nil || sess.ID == "" {
		return "", errors.New("session without id")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    a.HostURL,
		Subject:   sess.ID,
		Audience:  jwt.ClaimStrings{a.AppKey},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.AppSecret))
}

func (a *App) parseSessionToken(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithAudience(a.AppKey),
		jwt.WithExpirationRequired(),
	}
	if a.HostURL != "" {
		opts = append(opts, jwt.WithIssuer(a.HostURL))
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(_ *jwt.Token) (interface{}, error) {
		return []byte(a.AppSecret), nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to parse jwt: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
