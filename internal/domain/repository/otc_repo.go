package repository

import (
	"github.com/yourusername/loyalty-api/internal/domain/entity"
)

// OneTimeCodeRepository хранит одноразовые коды подтверждения.
// Хранилище не различает потоки (регистрация, восстановление пароля) —
// разделение обеспечивается пространством имен в entity.OTCIdentity.
type OneTimeCodeRepository interface {
	// Replace атомарно удаляет существующий код для identity и вставляет новый.
	// Проигравший конкурентный вызов получает ошибку нарушения уникальности.
	Replace(identity entity.OTCIdentity, code *entity.OneTimeCode) error
	// GetByIdentity возвращает живую запись для identity или apperrors.ErrNotFound.
	// Срок действия здесь не проверяется — это задача вызывающего.
	GetByIdentity(identity entity.OTCIdentity) (*entity.OneTimeCode, error)
	// DeleteByIdentity удаляет код. Отсутствие записи не считается ошибкой.
	DeleteByIdentity(identity entity.OTCIdentity) error
}
