package postgres

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yourusername/loyalty-api/internal/domain/entity"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя
func (r *UserRepo) Create(user *entity.User) error {
	return r.db.Create(user).Error
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByPhone возвращает пользователя по номеру телефона
func (r *UserRepo) GetByPhone(phone string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("phone = ?", phone).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile обновляет профиль пользователя без изменения пароля
func (r *UserRepo) UpdateProfile(userID uint, updates map[string]interface{}) error {
	// Пароль через этот метод не обновляется
	delete(updates, "password")
	updates["updated_at"] = time.Now()

	result := r.db.Model(&entity.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePassword обновляет пароль пользователя.
// Хеширование выполняется здесь, минуя хук BeforeSave.
func (r *UserRepo) UpdatePassword(userID uint, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), entity.BcryptCost)
	if err != nil {
		return err
	}

	result := r.db.Model(&entity.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password":   string(hashedPassword),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UserTypeRepo реализует repository.UserTypeRepository
type UserTypeRepo struct {
	db *gorm.DB
}

// NewUserTypeRepo создает новый репозиторий категорий пользователей
func NewUserTypeRepo(db *gorm.DB) *UserTypeRepo {
	return &UserTypeRepo{db: db}
}

// GetByHash возвращает активную категорию по хешу
func (r *UserTypeRepo) GetByHash(typeHash string) (*entity.UserType, error) {
	var userType entity.UserType
	err := r.db.Where("type_hash = ? AND active = true", typeHash).First(&userType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &userType, nil
}

// GetDefault возвращает общую категорию (первая активная по ID)
func (r *UserTypeRepo) GetDefault() (*entity.UserType, error) {
	var userType entity.UserType
	err := r.db.Where("active = true").Order("id").First(&userType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &userType, nil
}

// ListActive возвращает все активные категории
func (r *UserTypeRepo) ListActive() ([]entity.UserType, error) {
	var types []entity.UserType
	if err := r.db.Where("active = true").Order("id").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
