package entity

import "time"

// OTCNamespace разделяет потоки, использующие общее хранилище одноразовых
// кодов. Код, созданный в одном пространстве имен, никогда не проходит
// проверку в другом.
type OTCNamespace string

const (
	// NamespaceRegistration — коды подтверждения email при регистрации
	NamespaceRegistration OTCNamespace = "registration"
	// NamespaceReset — коды восстановления пароля
	NamespaceReset OTCNamespace = "reset"
)

// OTCIdentity — составной идентификатор владельца кода: пространство имен
// плюс email. Типизированная пара вместо ручной конкатенации строк, чтобы
// перепутать пространства имен было нельзя без явного приведения.
type OTCIdentity struct {
	Namespace OTCNamespace
	Email     string
}

// Key возвращает строковое представление идентификатора для хранения в БД
func (id OTCIdentity) Key() string {
	return string(id.Namespace) + ":" + id.Email
}

// OneTimeCode представляет одноразовый код подтверждения.
// На один identity_key одновременно существует не более одной живой записи:
// создание нового кода удаляет предыдущий.
type OneTimeCode struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	IdentityKey string    `gorm:"size:150;not null;uniqueIndex" json:"-"`
	Code        string    `gorm:"size:6;not null" json:"-"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (OneTimeCode) TableName() string {
	return "one_time_codes"
}

// IsExpired возвращает true, если срок действия кода истек.
// Истекший код — штатный исход проверки, а не ошибка.
func (c *OneTimeCode) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
