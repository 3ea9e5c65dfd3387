package service

import (
	"context"
	"strings"
	"time"

	"github.com/hr-compliance-api/internal/auth"
	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/repository"
)

// AuthService проверяет учётные данные и выпускает сессионные токены
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	sessionSecret string
	tokenTTL      time.Duration
}

// NewAuthService создаёт новый экземпляр сервиса
func NewAuthService(userRepo repository.UserRepository, sessionSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		userRepo:      userRepo,
		sessionSecret: sessionSecret,
		tokenTTL:      tokenTTL,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := auth.SignToken(s.sessionSecret, user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
