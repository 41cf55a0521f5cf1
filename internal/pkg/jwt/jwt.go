// Package jwt verifies the bearer credential sent with every request and
// resolves it to the identity claims used for authorization.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrDomainNotAllowed = errors.New("email domain not allowed")
)

type Claims struct {
	Email        string `json:"email"`
	HostedDomain string `json:"hd,omitempty"`
	jwtlib.RegisteredClaims
}

// NetID is the local part of the email, used as the student's institutional id.
func (c *Claims) NetID() string {
	at := strings.IndexByte(c.Email, '@')
	if at <= 0 {
		return ""
	}
	return strings.ToLower(c.Email[:at])
}

type Options struct {
	Secret        string
	Issuer        string
	Audience      string
	AllowedDomain string
	TTL           time.Duration
}

type Service struct {
	secret        []byte
	issuer        string
	audience      string
	allowedDomain string
	ttl           time.Duration
}

func New(opts Options) *Service {
	return &Service{
		secret:        []byte(opts.Secret),
		issuer:        opts.Issuer,
		audience:      opts.Audience,
		allowedDomain: strings.ToLower(strings.TrimSpace(opts.AllowedDomain)),
		ttl:           opts.TTL,
	}
}

// GenerateToken issues a credential for the given email. Used by the seed tool and tests.
func (s *Service) GenerateToken(email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:        email,
		HostedDomain: domainOf(email),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   email,
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	if s.audience != "" {
		claims.Audience = jwtlib.ClaimStrings{s.audience}
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates the signature and registered claims, then checks that the
// email belongs to the allowed organizational domain.
func (s *Service) Verify(_ context.Context, tokenStr string) (*Claims, error) {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwtlib.WithAudience(s.audience))
	}

	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Email == "" || claims.NetID() == "" {
		return nil, ErrInvalidToken
	}

	if s.allowedDomain != "" {
		hd := strings.ToLower(claims.HostedDomain)
		if hd != s.allowedDomain || domainOf(claims.Email) != s.allowedDomain {
			return nil, ErrDomainNotAllowed
		}
	}

	return claims, nil
}

func domainOf(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
