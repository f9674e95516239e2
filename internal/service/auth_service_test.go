package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/loyalty-api/internal/domain/entity"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
	"github.com/yourusername/loyalty-api/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T, mockUsers *MockUserRepository, mockTypes *MockUserTypeRepository) *AuthService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)
	svc, err := NewAuthService(mockUsers, mockTypes, jwtService)
	require.NoError(t, err)
	return svc
}

func TestAuthService_RegisterUser_Success(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTypes := new(MockUserTypeRepository)

	mockUsers.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
	mockUsers.On("GetByPhone", "+1234567890").Return(nil, apperrors.ErrNotFound)
	mockTypes.On("GetByHash", "abc123").Return(&entity.UserType{ID: 2, Name: "Student", TypeHash: "abc123", Active: true}, nil)
	mockUsers.On("Create", mock.AnythingOfType("*entity.User")).Return(nil)

	svc := newTestAuthService(t, mockUsers, mockTypes)

	user, err := svc.RegisterUser("New User", "new@example.com", "+1234567890", "Password1", "abc123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "new@example.com", user.Email)
	require.NotNil(t, user.UserTypeID)
	assert.Equal(t, uint(2), *user.UserTypeID)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_RegisterUser_DuplicateEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTypes := new(MockUserTypeRepository)

	mockUsers.On("GetByEmail", "taken@example.com").Return(&entity.User{ID: 1, Email: "taken@example.com"}, nil)

	svc := newTestAuthService(t, mockUsers, mockTypes)

	user, err := svc.RegisterUser("New User", "taken@example.com", "", "Password1", "")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
	mockUsers.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_RegisterUser_DuplicatePhone(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTypes := new(MockUserTypeRepository)

	mockUsers.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
	mockUsers.On("GetByPhone", "+1234567890").Return(&entity.User{ID: 1, Phone: "+1234567890"}, nil)

	svc := newTestAuthService(t, mockUsers, mockTypes)

	user, err := svc.RegisterUser("New User", "new@example.com", "+1234567890", "Password1", "")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrPhoneAlreadyRegistered)
}

func TestAuthService_RegisterUser_WeakPassword(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTypes := new(MockUserTypeRepository)

	svc := newTestAuthService(t, mockUsers, mockTypes)

	user, err := svc.RegisterUser("New User", "new@example.com", "", "weak", "")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	mockUsers.AssertNotCalled(t, "GetByEmail", mock.Anything)
}

func TestAuthService_ResolveUserType_KnownHash(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTypes := new(MockUserTypeRepository)

	mockTypes.On("GetByHash", "abc123").Return(&entity.UserType{ID: 2, Name: "Student", TypeHash: "abc123"}, nil)

	svc := newTestAuthService(t, mockUsers, mockTypes)

	resolution, err := svc.ResolveUserType("abc123")
	require.NoError(t, err)
	assert.False(t, resolution.Defaulted)
	assert.Equal(t, "Student", resolution.UserType.Name)
}

func TestAuthService_ResolveUserType_UnknownHashDefaults(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTypes := new(MockUserTypeRepository)

	mockTypes.On("GetByHash", "bogus").Return(nil, apperrors.ErrNotFound)
	mockTypes.On("GetDefault").Return(&entity.UserType{ID: 1, Name: "General"}, nil)

	svc := newTestAuthService(t, mockUsers, mockTypes)

	// Неизвестный хеш дает общую категорию с зафиксированной причиной
	resolution, err := svc.ResolveUserType("bogus")
	require.NoError(t, err)
	assert.True(t, resolution.Defaulted)
	assert.Equal(t, "unknown type hash", resolution.Reason)
	assert.Equal(t, "General", resolution.UserType.Name)
}

func TestAuthService_ResolveUserType_EmptyHashDefaults(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTypes := new(MockUserTypeRepository)

	mockTypes.On("GetDefault").Return(&entity.UserType{ID: 1, Name: "General"}, nil)

	svc := newTestAuthService(t, mockUsers, mockTypes)

	resolution, err := svc.ResolveUserType("")
	require.NoError(t, err)
	assert.True(t, resolution.Defaulted)
	assert.Equal(t, "no type hash provided", resolution.Reason)
	mockTypes.AssertNotCalled(t, "GetByHash", mock.Anything)
}

func TestAuthService_AuthenticateUser_ValidCredentials(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTypes := new(MockUserTypeRepository)

	hashed, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	require.NoError(t, err)

	mockUsers.On("GetByEmail", "user@example.com").Return(&entity.User{
		ID:       5,
		Email:    "user@example.com",
		Password: string(hashed),
	}, nil)

	svc := newTestAuthService(t, mockUsers, mockTypes)

	user, token, err := svc.AuthenticateUser("user@example.com", "Password1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)
}

func TestAuthService_AuthenticateUser_WrongPassword(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTypes := new(MockUserTypeRepository)

	hashed, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	require.NoError(t, err)

	mockUsers.On("GetByEmail", "user@example.com").Return(&entity.User{
		ID:       5,
		Email:    "user@example.com",
		Password: string(hashed),
	}, nil)

	svc := newTestAuthService(t, mockUsers, mockTypes)

	user, token, err := svc.AuthenticateUser("user@example.com", "WrongPassword1")
	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_AuthenticateUser_UnknownEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTypes := new(MockUserTypeRepository)

	mockUsers.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	svc := newTestAuthService(t, mockUsers, mockTypes)

	// Несуществующий email и неверный пароль дают один и тот же ответ
	user, token, err := svc.AuthenticateUser("ghost@example.com", "Password1")
	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
