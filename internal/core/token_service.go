package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type jwtTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns an HS256 TokenService. now defaults to time.Now.
func NewTokenService(secret string, ttl time.Duration, now func() time.Time) TokenService {
	if now == nil {
		now = time.Now
	}
	return &jwtTokenService{secret: []byte(secret), ttl: ttl, now: now}
}

// Issue copies claims into the token and overwrites iat and exp.
func (s *jwtTokenService) Issue(claims map[string]interface{}) (string, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return "", fmt.Errorf("%w: token claims must carry an email", ErrInvalidInput)
	}

	mapClaims := jwt.MapClaims{}
	for k, v := range claims {
		mapClaims[k] = v
	}
	issuedAt := s.now()
	mapClaims["iat"] = jwt.NewNumericDate(issuedAt)
	mapClaims["exp"] = jwt.NewNumericDate(issuedAt.Add(s.ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify accepts a token until its exp.
func (s *jwtTokenService) Verify(token string) (*Identity, error) {
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrUnauthorized)
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, errors.New("token has no email claim"))
	}
	return &Identity{Email: email}, nil
}
