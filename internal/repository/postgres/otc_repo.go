package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yourusername/loyalty-api/internal/domain/entity"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
)

// Код ошибки PostgreSQL "unique_violation"
const pgUniqueViolation = "23505"

// isUniqueViolation определяет нарушение уникального индекса
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// OneTimeCodeRepo реализует repository.OneTimeCodeRepository
type OneTimeCodeRepo struct {
	db *gorm.DB
}

// NewOneTimeCodeRepo создает новый репозиторий одноразовых кодов
func NewOneTimeCodeRepo(db *gorm.DB) *OneTimeCodeRepo {
	return &OneTimeCodeRepo{db: db}
}

// Replace атомарно заменяет код для identity: удаляет прежний и вставляет
// новый в одной транзакции. Уникальный индекс identity_key гарантирует, что
// из конкурентных вызовов для одного identity выживает только один — второй
// получает ErrConflict, а не тихую вторую живую запись.
func (r *OneTimeCodeRepo) Replace(identity entity.OTCIdentity, code *entity.OneTimeCode) error {
	code.IdentityKey = identity.Key()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("identity_key = ?", code.IdentityKey).
			Delete(&entity.OneTimeCode{}).Error; err != nil {
			return fmt.Errorf("delete previous code: %w", err)
		}
		if err := tx.Create(code).Error; err != nil {
			return fmt.Errorf("insert code: %w", err)
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// GetByIdentity возвращает запись кода для identity
func (r *OneTimeCodeRepo) GetByIdentity(identity entity.OTCIdentity) (*entity.OneTimeCode, error) {
	var code entity.OneTimeCode
	err := r.db.Where("identity_key = ?", identity.Key()).First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &code, nil
}

// DeleteByIdentity удаляет код для identity. Отсутствие записи — не ошибка.
func (r *OneTimeCodeRepo) DeleteByIdentity(identity entity.OTCIdentity) error {
	return r.db.Where("identity_key = ?", identity.Key()).
		Delete(&entity.OneTimeCode{}).Error
}
