package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/yourusername/loyalty-api/internal/domain/entity"
	"github.com/yourusername/loyalty-api/internal/domain/repository"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
)

// OTCService — хранилище одноразовых кодов с точки зрения потоков
// подтверждения. Сервис не знает, какому потоку принадлежит identity:
// разделение регистрации и восстановления пароля обеспечивает
// entity.OTCIdentity, собираемый вызывающим.
type OTCService struct {
	codeRepo repository.OneTimeCodeRepository
	codeTTL  time.Duration
}

// NewOTCService создает сервис одноразовых кодов
func NewOTCService(codeRepo repository.OneTimeCodeRepository, codeTTL time.Duration) (*OTCService, error) {
	if codeRepo == nil {
		return nil, fmt.Errorf("one-time code repository is required")
	}
	if codeTTL <= 0 {
		codeTTL = 10 * time.Minute
	}
	return &OTCService{codeRepo: codeRepo, codeTTL: codeTTL}, nil
}

// GenerateCode возвращает равномерно случайный 6-значный код с ведущими нулями
func (s *OTCService) GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Create сохраняет код для identity со сроком действия now + TTL.
// Прежний код для того же identity при этом перестает существовать —
// живым остается ровно один.
func (s *OTCService) Create(ctx context.Context, identity entity.OTCIdentity, code string) error {
	record := &entity.OneTimeCode{
		Code:      code,
		ExpiresAt: time.Now().Add(s.codeTTL),
	}
	if err := s.codeRepo.Replace(identity, record); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		return fmt.Errorf("%w: failed to store one-time code: %v", apperrors.ErrDependency, err)
	}
	return nil
}

// Verify проверяет код для identity. Возвращает false и для отсутствующего,
// и для несовпавшего, и для истекшего кода — истечение срока это штатный
// исход, а не ошибка. Запись при успехе НЕ удаляется: удаление — явная
// обязанность вызывающего после завершения его работы.
func (s *OTCService) Verify(ctx context.Context, identity entity.OTCIdentity, code string) (bool, error) {
	record, err := s.codeRepo.GetByIdentity(identity)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: failed to look up one-time code: %v", apperrors.ErrDependency, err)
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		return false, nil
	}
	if record.IsExpired(time.Now()) {
		return false, nil
	}
	return true, nil
}

// Delete удаляет код для identity (однократность использования)
func (s *OTCService) Delete(ctx context.Context, identity entity.OTCIdentity) error {
	if err := s.codeRepo.DeleteByIdentity(identity); err != nil {
		return fmt.Errorf("%w: failed to delete one-time code: %v", apperrors.ErrDependency, err)
	}
	return nil
}
