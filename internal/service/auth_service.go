package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/listtra/listtra/internal/auth"
	"github.com/listtra/listtra/internal/model"
	"github.com/listtra/listtra/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid_credentials")
var ErrEmailTaken = errors.New("email_taken")

type TokenPair struct {
	Access  string
	Refresh string
}

type AuthService interface {
	Register(ctx context.Context, email, password, nickname string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Profile(ctx context.Context, uid string) (*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.Manager
}

func NewAuthService(users repository.UserRepository, tokens *auth.Manager) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, email, password, nickname string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	nickname = strings.TrimSpace(nickname)
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("invalid email")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if nickname == "" {
		return nil, errors.New("nickname is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Nickname:     nickname,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}
	access, err := s.tokens.NewAccessToken(u.UID)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.tokens.NewRefreshToken()
	if err != nil {
		return nil, nil, err
	}
	if err := s.users.UpdateRefreshToken(ctx, u.UID, refresh); err != nil {
		return nil, nil, err
	}
	return u, &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrInvalidCredentials
	}
	u, err := s.users.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	return s.tokens.NewAccessToken(u.UID)
}

func (s *authService) Profile(ctx context.Context, uid string) (*model.User, error) {
	u, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
