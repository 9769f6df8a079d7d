package services

import (
	"testing"
	"time"

	"kanban-board/config"
	"kanban-board/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestJWTService(secret string) *JWTService {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.JWTSecret = secret
	return NewJWTService(cfg)
}

func testUser() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Name: "A", Email: "a@x.com"}
}

func TestGenerateAndValidate_Success(t *testing.T) {
	t.Parallel()

	s := newTestJWTService("super-secret")
	user := testUser()

	tok, err := s.GenerateToken(user)
	require.NoError(t, err)

	claims, err := s.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.ID)
	assert.Equal(t, "A", claims.Name)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()

	issuer := newTestJWTService("secret")
	issuer.now = func() time.Time { return time.Now().Add(-61 * time.Minute) }

	tok, err := issuer.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = newTestJWTService("secret").ValidateToken(tok)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newTestJWTService("right-secret").GenerateToken(testUser())
	require.NoError(t, err)

	_, err = newTestJWTService("wrong-secret").ValidateToken(tok)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestValidateToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := newTestJWTService("k").ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		ID: primitive.NewObjectID().Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = newTestJWTService("k").ValidateToken(tok)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestValidateToken_RequiresExpiry(t *testing.T) {
	t.Parallel()

	claims := &Claims{ID: primitive.NewObjectID().Hex()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = newTestJWTService("k").ValidateToken(tok)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestGenerateToken_LifetimeIsFixed(t *testing.T) {
	t.Setenv("TOKEN_TTL", "48h")

	cfg, err := config.Load("", "")
	require.NoError(t, err)
	s := NewJWTService(cfg)
	issued := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	tok, err := s.GenerateToken(testUser())
	require.NoError(t, err)

	parsed := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, parsed)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(time.Hour), parsed.ExpiresAt.Time.UTC())

	s.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = s.ValidateToken(tok)
	assert.NoError(t, err)

	s.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = s.ValidateToken(tok)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}
