package service

import (
	"context"
	"errors"
	"time"

	"github.com/emirhanunsal/MovieSuggest/internal/errs"
	"github.com/emirhanunsal/MovieSuggest/internal/models"
	"github.com/emirhanunsal/MovieSuggest/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users     UserStore
	jwtSecret []byte
}

func NewAuthService(users UserStore, secret string) *AuthService {
	return &AuthService{users: users, jwtSecret: []byte(secret)}
}

// Register crea un usuario nuevo. El UserID lo elige el usuario y es único.
func (s *AuthService) Register(ctx context.Context, userID, email, password string) (*models.UserDoc, error) {
	if userID == "" || email == "" || password == "" {
		return nil, errs.Validation("missing_fields", "UserID, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Internal(err)
	}

	u := &models.UserDoc{
		UserID:       userID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, errs.Internal(err)
	}
	return u, nil
}

// Login valida credenciales y emite un JWT HS256 de 24 horas con el
// UserID en sub.
func (s *AuthService) Login(ctx context.Context, userID, password string) (string, *models.UserDoc, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", nil, errs.Internal(err)
	}
	if u == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": u.UserID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	sToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, errs.Internal(err)
	}
	return sToken, u, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.UserDoc, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
