package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "go-storefront"

// Tokens signs and verifies the storefront session cookie. The cookie only
// carries the session id; everything else lives in the Store.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if secret == "" {
		panic("session secret cannot be empty")
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func NewID() string {
	return uuid.NewString()
}

func (t *Tokens) Issue(sessionID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse returns the session id of a valid token, or ErrInvalidSession.
func (t *Tokens) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return t.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidSession
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}
