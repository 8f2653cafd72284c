package services

import (
	"context"
	"fmt"

	"paytrack-backend/internal/auth"
	"paytrack-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// UserReader reads users by identity
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type UserService struct {
	Users UserReader
	JWT   *auth.JWTManager
}

func NewUserService(users UserReader, jwt *auth.JWTManager) *UserService {
	return &UserService{Users: users, JWT: jwt}
}

// Login verifies credentials and issues a JWT
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid username or password")
	}

	token, err := s.JWT.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.LoginResponse{Token: token, User: *user}, nil
}
