package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"unicode"

	"github.com/google/uuid"
	"github.com/yourusername/loyalty-api/internal/domain/entity"
	"github.com/yourusername/loyalty-api/internal/domain/repository"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
)

// PasswordResetService — поток восстановления пароля. Владеет пространством
// имен NamespaceReset. Код проверяется дважды: первый раз на шаге verify
// (обратная связь для клиента, без удаления), второй раз — как
// авторитетная проверка непосредственно перед записью нового пароля.
// Удаляется код только после авторитетной проверки.
type PasswordResetService struct {
	otc          *OTCService
	userRepo     repository.UserRepository
	emailService EmailService
}

// NewPasswordResetService создает сервис восстановления пароля
func NewPasswordResetService(otc *OTCService, userRepo repository.UserRepository, emailService EmailService) (*PasswordResetService, error) {
	if otc == nil {
		return nil, fmt.Errorf("OTC service is required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if emailService == nil {
		return nil, fmt.Errorf("email service is required")
	}
	return &PasswordResetService{
		otc:          otc,
		userRepo:     userRepo,
		emailService: emailService,
	}, nil
}

func (s *PasswordResetService) identity(email string) entity.OTCIdentity {
	return entity.OTCIdentity{Namespace: entity.NamespaceReset, Email: email}
}

// RequestReset генерирует и отправляет код восстановления.
// Код создается и для незарегистрированного адреса — ответ не должен
// раскрывать, существует ли пользователь. Сброс пароля для такого
// адреса все равно не пройдет авторитетную проверку.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	code, err := s.otc.GenerateCode()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	if err := s.otc.Create(ctx, s.identity(email), code); err != nil {
		return err
	}

	idempotencyKey := fmt.Sprintf("reset-otc:%s", uuid.NewString())
	if err := s.emailService.SendPasswordResetCode(ctx, email, code, idempotencyKey); err != nil {
		return fmt.Errorf("%w: failed to send reset email: %v", apperrors.ErrDependency, err)
	}

	log.Printf("[PasswordReset] Код восстановления отправлен на %s", email)
	return nil
}

// VerifyCode — промежуточная проверка кода для обратной связи клиенту.
// Код НЕ удаляется: он понадобится авторитетной проверке в ResetPassword.
func (s *PasswordResetService) VerifyCode(ctx context.Context, email, code string) error {
	ok, err := s.otc.Verify(ctx, s.identity(email), code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}
	return nil
}

// ResetPassword выполняет авторитетную проверку кода и записывает новый
// пароль. Только после успешной записи код удаляется.
func (s *PasswordResetService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	ok, err := s.otc.Verify(ctx, s.identity(email), code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Код был выдан на незарегистрированный адрес. Отвечаем так же,
			// как на неверный код, чтобы не раскрывать отсутствие аккаунта.
			return ErrInvalidCode
		}
		return fmt.Errorf("%w: failed to look up user: %v", apperrors.ErrDependency, err)
	}

	if err := s.userRepo.UpdatePassword(user.ID, newPassword); err != nil {
		return fmt.Errorf("%w: failed to update password: %v", apperrors.ErrDependency, err)
	}

	if err := s.otc.Delete(ctx, s.identity(email)); err != nil {
		// Пароль уже обновлен; код истечет сам, но оставляем след в логе
		log.Printf("[PasswordReset] Не удалось удалить код после сброса пароля для %s: %v", email, err)
	}

	log.Printf("[PasswordReset] Пароль обновлен для user_id=%d", user.ID)
	return nil
}

// ValidatePasswordStrength проверяет минимальные требования к паролю:
// не короче 8 символов, хотя бы одна заглавная и строчная буквы и цифра
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("%w: password must contain an uppercase letter", apperrors.ErrValidation)
	}
	if !hasLower {
		return fmt.Errorf("%w: password must contain a lowercase letter", apperrors.ErrValidation)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must contain a digit", apperrors.ErrValidation)
	}
	return nil
}
