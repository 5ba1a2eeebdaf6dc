// Package auth issues and validates application session tokens. The token
// only ties an HTTP bearer credential to the verified identity; durable
// phone-ownership proof lives with the verification gateway.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yaduvivaah/agent-portal-api/internal/config"
)

// SessionClaims are the claims carried by an application session token.
type SessionClaims struct {
	IdentityToken string `json:"identity_token"`
	jwt.RegisteredClaims
}

// TokenIssuer creates and validates HS256 session tokens.
type TokenIssuer struct {
	secret    string
	issuer    string
	expiresIn time.Duration
}

// NewTokenIssuer creates a TokenIssuer from session configuration.
func NewTokenIssuer(cfg config.SessionConfig) TokenIssuer {
	return TokenIssuer{
		secret:    cfg.TokenSecret,
		issuer:    cfg.Issuer,
		expiresIn: cfg.TokenExpiresIn,
	}
}

// Issue generates a session token for the given identity and returns the
// token string together with its unique session ID.
func (i TokenIssuer) Issue(identityToken string) (token, sessionID string, err error) {
	now := time.Now()
	sessionID = uuid.NewString()

	claims := SessionClaims{
		IdentityToken: identityToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   identityToken,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiresIn)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.issuer},
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.secret))
	if err != nil {
		return "", "", err
	}

	return token, sessionID, nil
}

// Validate parses and verifies a session token and returns its claims.
func (i TokenIssuer) Validate(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(i.secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithAudience(i.issuer),
		jwt.WithIssuer(i.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
