package services

import (
	"context"
	"errors"
	"testing"

	"kanban-board/config"
	"kanban-board/models"
	"kanban-board/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type failingUserRepo struct {
	err error
}

func (f failingUserRepo) Create(context.Context, *models.User) (*models.User, error) {
	return nil, f.err
}

func (f failingUserRepo) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, f.err
}

func newUserService(t *testing.T, repo repositories.UserRepository) (*UserService, *JWTService) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	jwtService := NewJWTService(cfg)
	return NewUserService(repo, jwtService, cfg), jwtService
}

func TestRegisterThenLogin(t *testing.T) {
	repo := repositories.NewMemoryUserRepo()
	s, jwtService := newUserService(t, repo)
	ctx := context.Background()

	regToken, err := s.RegisterUser(ctx, "A", "a@x.com", "secret1")
	require.NoError(t, err)

	stored, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)

	loginToken, err := s.LoginUser(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	regClaims, err := jwtService.ValidateToken(regToken)
	require.NoError(t, err)
	loginClaims, err := jwtService.ValidateToken(loginToken)
	require.NoError(t, err)

	assert.Equal(t, stored.ID.Hex(), regClaims.ID)
	assert.Equal(t, regClaims.ID, loginClaims.ID)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	s, _ := newUserService(t, repositories.NewMemoryUserRepo())
	ctx := context.Background()

	_, err := s.RegisterUser(ctx, "A", "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = s.RegisterUser(ctx, "Somebody Else", "a@x.com", "different-password")
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestLoginUser_InvalidCredentials(t *testing.T) {
	s, _ := newUserService(t, repositories.NewMemoryUserRepo())
	ctx := context.Background()

	_, err := s.RegisterUser(ctx, "A", "a@x.com", "secret1")
	require.NoError(t, err)

	_, unknownErr := s.LoginUser(ctx, "nobody@x.com", "secret1")
	_, wrongErr := s.LoginUser(ctx, "a@x.com", "secret2")

	assert.ErrorIs(t, unknownErr, models.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, models.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginUser_StoreFailurePassesThrough(t *testing.T) {
	boom := errors.New("server selection timeout")
	s, _ := newUserService(t, failingUserRepo{err: boom})

	_, err := s.LoginUser(context.Background(), "a@x.com", "secret1")
	assert.ErrorIs(t, err, boom)
}
