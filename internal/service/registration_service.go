package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/loyalty-api/internal/domain/entity"
	"github.com/yourusername/loyalty-api/internal/domain/repository"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
)

// RegistrationOTCService — поток подтверждения email при регистрации.
// Владеет пространством имен NamespaceRegistration целиком: каждый вызов
// хранилища кодов идет через типизированный identity этого пространства.
type RegistrationOTCService struct {
	otc          *OTCService
	userRepo     repository.UserRepository
	emailService EmailService
}

// NewRegistrationOTCService создает сервис подтверждения регистрации
func NewRegistrationOTCService(otc *OTCService, userRepo repository.UserRepository, emailService EmailService) (*RegistrationOTCService, error) {
	if otc == nil {
		return nil, fmt.Errorf("OTC service is required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if emailService == nil {
		return nil, fmt.Errorf("email service is required")
	}
	return &RegistrationOTCService{
		otc:          otc,
		userRepo:     userRepo,
		emailService: emailService,
	}, nil
}

func (s *RegistrationOTCService) identity(email string) entity.OTCIdentity {
	return entity.OTCIdentity{Namespace: entity.NamespaceRegistration, Email: email}
}

// SendCode генерирует код, сохраняет его и отправляет письмо.
// Существование пользователя с этим email намеренно не проверяется —
// успешный ответ не должен раскрывать, занят ли адрес.
// Ошибка отправки письма прерывает поток: код без письма бесполезен.
func (s *RegistrationOTCService) SendCode(ctx context.Context, email string) error {
	code, err := s.otc.GenerateCode()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	if err := s.otc.Create(ctx, s.identity(email), code); err != nil {
		return err
	}

	idempotencyKey := fmt.Sprintf("reg-otc:%s", uuid.NewString())
	if err := s.emailService.SendVerificationCode(ctx, email, code, idempotencyKey); err != nil {
		return fmt.Errorf("%w: failed to send verification email: %v", apperrors.ErrDependency, err)
	}

	log.Printf("[RegistrationOTC] Код подтверждения отправлен на %s", email)
	return nil
}

// VerifyCode проверяет код, при успехе удаляет его (однократное
// использование) и отмечает email пользователя подтвержденным, если такой
// пользователь уже существует. Ответ одинаков вне зависимости от того,
// зарегистрирован ли адрес.
func (s *RegistrationOTCService) VerifyCode(ctx context.Context, email, code string) error {
	ok, err := s.otc.Verify(ctx, s.identity(email), code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}

	if err := s.otc.Delete(ctx, s.identity(email)); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[RegistrationOTC] Не удалось найти пользователя %s после подтверждения: %v", email, err)
		}
		return nil
	}
	if user.EmailVerifiedAt == nil {
		now := time.Now()
		if err := s.userRepo.UpdateProfile(user.ID, map[string]interface{}{
			"email_verified_at": &now,
		}); err != nil {
			log.Printf("[RegistrationOTC] Не удалось отметить email подтвержденным для user_id=%d: %v", user.ID, err)
		}
	}

	log.Printf("[RegistrationOTC] Код для %s подтвержден", email)
	return nil
}
