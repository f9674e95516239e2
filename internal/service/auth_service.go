package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/loyalty-api/internal/domain/entity"
	"github.com/yourusername/loyalty-api/internal/domain/repository"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
	"github.com/yourusername/loyalty-api/pkg/auth"
)

// UserTypeResolution — результат подбора категории пользователя.
// Defaulted=true означает, что категория по хешу не нашлась и была взята
// общая; причина сохраняется, чтобы деградация была видимой, а не тихой.
type UserTypeResolution struct {
	UserType  *entity.UserType
	Defaulted bool
	Reason    string
}

// AuthService отвечает за регистрацию и вход пользователей
type AuthService struct {
	userRepo     repository.UserRepository
	userTypeRepo repository.UserTypeRepository
	jwtService   *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	userRepo repository.UserRepository,
	userTypeRepo repository.UserTypeRepository,
	jwtService *auth.JWTService,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if userTypeRepo == nil {
		return nil, fmt.Errorf("user type repository is required")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWT service is required")
	}
	return &AuthService{
		userRepo:     userRepo,
		userTypeRepo: userTypeRepo,
		jwtService:   jwtService,
	}, nil
}

// ResolveUserType подбирает категорию пользователя по хешу. Пустой или
// неизвестный хеш дает общую категорию с зафиксированной причиной.
func (s *AuthService) ResolveUserType(typeHash string) (*UserTypeResolution, error) {
	if typeHash == "" {
		return s.defaultResolution("no type hash provided")
	}

	userType, err := s.userTypeRepo.GetByHash(typeHash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.defaultResolution("unknown type hash")
		}
		return nil, fmt.Errorf("%w: failed to look up user type: %v", apperrors.ErrDependency, err)
	}
	return &UserTypeResolution{UserType: userType}, nil
}

func (s *AuthService) defaultResolution(reason string) (*UserTypeResolution, error) {
	defaultType, err := s.userTypeRepo.GetDefault()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load default user type: %v", apperrors.ErrDependency, err)
	}
	log.Printf("[Auth] Категория пользователя взята по умолчанию (%s): %s", reason, defaultType.Name)
	return &UserTypeResolution{UserType: defaultType, Defaulted: true, Reason: reason}, nil
}

// RegisterUser регистрирует нового пользователя.
// Email и телефон должны быть свободны, пароль — пройти проверку сложности.
func (s *AuthService) RegisterUser(name, email, phone, password, typeHash string) (*entity.User, error) {
	if err := ValidatePasswordStrength(password); err != nil {
		return nil, err
	}

	if email != "" {
		if _, err := s.userRepo.GetByEmail(email); err == nil {
			return nil, ErrEmailAlreadyRegistered
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: failed to check email: %v", apperrors.ErrDependency, err)
		}
	}
	if phone != "" {
		if _, err := s.userRepo.GetByPhone(phone); err == nil {
			return nil, ErrPhoneAlreadyRegistered
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: failed to check phone: %v", apperrors.ErrDependency, err)
		}
	}

	resolution, err := s.ResolveUserType(typeHash)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:       name,
		Email:      email,
		Phone:      phone,
		Password:   password, // хешируется в BeforeSave
		UserTypeID: &resolution.UserType.ID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("%w: failed to create user: %v", apperrors.ErrDependency, err)
	}

	log.Printf("[Auth] Пользователь ID=%d (%s) зарегистрирован, категория=%s defaulted=%t",
		user.ID, user.Email, resolution.UserType.Name, resolution.Defaulted)
	return user, nil
}

// AuthenticateUser проверяет учетные данные и выдает токен доступа.
// Несуществующий email и неверный пароль дают одинаковый ответ.
func (s *AuthService) AuthenticateUser(email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%w: failed to look up user: %v", apperrors.ErrDependency, err)
	}

	if !user.CheckPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to generate token: %v", apperrors.ErrInternal, err)
	}
	return user, token, nil
}
