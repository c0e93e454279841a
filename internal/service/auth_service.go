package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"catalog/internal/auth"
	"catalog/internal/errors"
	"catalog/internal/model"
	"catalog/internal/repository"
)

const bcryptCost = 10

// AuthService handles registration, login and the authenticated user lookup.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	UserInfo(ctx context.Context, username string) (*model.User, error)
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	log        *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, log *zap.Logger) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		log:        log,
	}
}

// Register creates a new user with a hashed password and role "user".
func (s *authService) Register(ctx context.Context, username, password string) (*model.User, error) {
	existing, err := s.users.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, errors.ErrUsernameTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username: username,
		Password: string(hashed),
		Role:     model.RoleUser,
		Active:   true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", zap.String("username", username))
	return user, nil
}

// Login verifies credentials, stamps last_login and issues a bearer token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.Username)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.users.Save(ctx, user); err != nil {
		// last-login is bookkeeping; a failed write must not fail the login
		s.log.Warn("update last login", zap.String("username", username), zap.Error(err))
	}

	return token, user, nil
}

// UserInfo returns the stored record for the authenticated user, or nil if
// the record has gone away since the token was issued.
func (s *authService) UserInfo(ctx context.Context, username string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
