package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"catalog/internal/auth"
	"catalog/internal/errors"
	"catalog/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "alice",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "username already exists",
			username: "bob",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "bob").Return(&model.User{Username: "bob"}, nil)
			},
			expectedError: errors.ErrUsernameTaken,
		},
		{
			name:     "lost a concurrent registration race",
			username: "carol",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "carol").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: errors.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", 0)
			svc := NewAuthService(mockRepo, jwtService, zap.NewNop())

			user, err := svc.Register(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.username, user.Username)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.True(t, user.Active)
				// stored hash, not the plaintext
				assert.NotEqual(t, tt.password, user.Password)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(tt.password)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "alice",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID:       1,
					Username: "alice",
					Password: string(hashed),
					Role:     model.RoleUser,
					Active:   true,
				}, nil)
				m.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown username",
			username: "nobody",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID:       1,
					Username: "alice",
					Password: string(hashed),
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", 0)
			svc := NewAuthService(mockRepo, jwtService, zap.NewNop())

			token, user, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				// the token round-trips back to the original username
				claims, ok := jwtService.Verify(token)
				assert.True(t, ok)
				assert.Equal(t, tt.username, claims.Subject)
				// last login stamped and persisted
				assert.NotNil(t, user.LastLogin)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService("test-secret", 0)
	svc := NewAuthService(mockRepo, jwtService, zap.NewNop())

	mockRepo.On("FindByUsername", mock.Anything, "dave").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	registered, err := svc.Register(context.Background(), "dave", "password123")
	assert.NoError(t, err)

	mockRepo.On("FindByUsername", mock.Anything, "dave").Return(registered, nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	token, user, err := svc.Login(context.Background(), "dave", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "dave", user.Username)

	claims, ok := jwtService.Verify(token)
	assert.True(t, ok)
	assert.Equal(t, "dave", claims.Subject)
}

func TestAuthService_UserInfo(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret", 0), zap.NewNop())

	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(&model.User{Username: "alice"}, nil)
	user, err := svc.UserInfo(context.Background(), "alice")
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	mockRepo.On("FindByUsername", mock.Anything, "gone").Return(nil, gorm.ErrRecordNotFound)
	user, err = svc.UserInfo(context.Background(), "gone")
	assert.NoError(t, err)
	assert.Nil(t, user)
}
