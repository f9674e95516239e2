package repository

import (
	"github.com/yourusername/loyalty-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByPhone(phone string) (*entity.User, error)
	UpdateProfile(userID uint, updates map[string]interface{}) error
	UpdatePassword(userID uint, hashedPassword string) error
}

// UserTypeRepository определяет методы для работы с категориями пользователей
type UserTypeRepository interface {
	GetByHash(typeHash string) (*entity.UserType, error)
	GetDefault() (*entity.UserType, error)
	ListActive() ([]entity.UserType, error)
}
