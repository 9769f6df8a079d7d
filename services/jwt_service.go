package services

import (
	"time"

	"kanban-board/config"
	"kanban-board/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried by an access token.
type Claims struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenTTL is how long an issued token stays valid. It is fixed and tokens
// cannot be refreshed.
const TokenTTL = time.Hour

// JWTService issues and verifies HS256 tokens. It keeps no server-side state,
// so a token stays valid until it expires.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

func NewJWTService(cfg *config.Config) *JWTService {
	return &JWTService{
		secret: []byte(cfg.JWTSecret),
		now:    time.Now,
	}
}

// GenerateToken signs a token for user that expires after TokenTTL.
func (s *JWTService) GenerateToken(user *models.User) (string, error) {
	issued := s.now()
	claims := &Claims{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken returns the claims of a well-formed, correctly signed,
// unexpired token. Every failure is reported as models.ErrInvalidToken.
func (s *JWTService) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.ID == "" {
		return nil, models.ErrInvalidToken
	}
	return claims, nil
}
