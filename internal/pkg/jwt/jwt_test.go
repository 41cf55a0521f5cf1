package jwt

import (
	"context"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return New(Options{
		Secret:        "test-secret-123",
		Issuer:        "accounts.test",
		Audience:      "coursereviews",
		AllowedDomain: "cornell.edu",
		TTL:           time.Hour,
	})
}

func TestVerify_ValidToken(t *testing.T) {
	s := newTestService()
	token, err := s.GenerateToken("dti1@cornell.edu")
	require.NoError(t, err)

	claims, err := s.Verify(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "dti1@cornell.edu", claims.Email)
	assert.Equal(t, "cornell.edu", claims.HostedDomain)
	assert.Equal(t, "dti1", claims.NetID())
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := newTestService().GenerateToken("dti1@cornell.edu")
	require.NoError(t, err)

	other := New(Options{Secret: "other", Issuer: "accounts.test", Audience: "coursereviews", TTL: time.Hour})
	_, err = other.Verify(context.Background(), token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := newTestService().Verify(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	s := New(Options{Secret: "s", AllowedDomain: "cornell.edu", TTL: -time.Minute})
	token, err := s.GenerateToken("dti1@cornell.edu")
	require.NoError(t, err)

	_, err = s.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_ForeignDomain(t *testing.T) {
	s := newTestService()
	token, err := s.GenerateToken("someone@gmail.com")
	require.NoError(t, err)

	_, err = s.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrDomainNotAllowed)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		Email:        "dti1@cornell.edu",
		HostedDomain: "cornell.edu",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	s := New(Options{Secret: "s", AllowedDomain: "cornell.edu", TTL: time.Hour})
	_, err = s.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_NetIDMissingAt(t *testing.T) {
	c := &Claims{Email: "nobody"}
	assert.Equal(t, "", c.NetID())
}
