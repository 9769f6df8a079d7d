package services

import (
	"context"
	"errors"
	"fmt"

	"kanban-board/config"
	"kanban-board/logging"
	"kanban-board/models"
	"kanban-board/repositories"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users      repositories.UserRepository
	jwt        *JWTService
	bcryptCost int
}

func NewUserService(users repositories.UserRepository, jwtService *JWTService, cfg *config.Config) *UserService {
	return &UserService{
		users:      users,
		jwt:        jwtService,
		bcryptCost: cfg.BcryptCost,
	}
}

// RegisterUser stores a new user with a hashed password and returns a token
// for it.
func (s *UserService) RegisterUser(ctx context.Context, name, email, password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			logging.Logger.Warnf("Event ID: USER_REGISTER_DUPLICATE, Description: Registration rejected, email already in use")
		}
		return "", err
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered", user.ID.Hex())
	return s.jwt.GenerateToken(user)
}

// LoginUser checks the credentials and returns a fresh token. An unknown
// email and a wrong password both yield models.ErrInvalidCredentials.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			logging.Logger.Warnf("Event ID: USER_LOGIN_FAILED, Description: Login failed, unknown email")
			return "", models.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logging.Logger.Warnf("Event ID: USER_LOGIN_FAILED, Description: Login failed for user %s, wrong password", user.ID.Hex())
		return "", models.ErrInvalidCredentials
	}

	logging.Logger.Infof("Event ID: USER_LOGGED_IN, Description: User %s logged in", user.ID.Hex())
	return s.jwt.GenerateToken(user)
}
