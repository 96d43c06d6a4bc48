package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogsite/app/models"
	"blogsite/app/repositories/mock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func newAuth(t *testing.T) (*AuthService, *FixedClock) {
	t.Helper()
	clock := &FixedClock{T: epoch}
	return NewAuthService(mock.NewUserRepository(), testSecret, time.Hour, clock), clock
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuth(t)

	user, err := auth.Register(ctx, "  admin ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.NotEmpty(t, user.PasswordHash)
	assert.Equal(t, epoch, user.CreatedDate)

	var ve *models.ValidationError
	_, err = auth.Register(ctx, "admin", "another password")
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "username")

	_, err = auth.Register(ctx, "ab", "correct horse")
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "username")

	_, err = auth.Register(ctx, "editor", "short")
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "password")
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuth(t)
	_, err := auth.Register(ctx, "admin", "correct horse")
	require.NoError(t, err)

	user, err := auth.Authenticate(ctx, "admin", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	_, err = auth.Authenticate(ctx, "admin", "wrong horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Authenticate(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Tokens(t *testing.T) {
	auth, clock := newAuth(t)
	user := &models.User{ID: 4, Username: "admin"}

	token, expires, err := auth.IssueToken(user)
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(time.Hour), expires)

	parsed, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, 4, parsed.ID)
	assert.Equal(t, "admin", parsed.Username)
	assert.Empty(t, parsed.PasswordHash)

	t.Run("expired", func(t *testing.T) {
		clock.Advance(2 * time.Hour)
		defer func() { clock.T = epoch }()
		_, err := auth.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(mock.NewUserRepository(), "a-different-secret", time.Hour, clock)
		_, err := other.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.ParseToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := Claims{Username: "admin", RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "4",
			ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour)),
		}}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = auth.ParseToken(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
