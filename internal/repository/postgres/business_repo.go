package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/loyalty-api/internal/domain/entity"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
)

// BusinessRepo реализует repository.BusinessRepository
type BusinessRepo struct {
	db *gorm.DB
}

// NewBusinessRepo создает новый репозиторий заведений
func NewBusinessRepo(db *gorm.DB) *BusinessRepo {
	return &BusinessRepo{db: db}
}

// GetByID возвращает заведение по ID
func (r *BusinessRepo) GetByID(id uint) (*entity.Business, error) {
	var business entity.Business
	err := r.db.First(&business, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &business, nil
}

// ListActive возвращает активные заведения, опционально по муниципалитету
func (r *BusinessRepo) ListActive(municipalityID *uint) ([]entity.Business, error) {
	var businesses []entity.Business
	query := r.db.Where("active = true")
	if municipalityID != nil {
		query = query.Where("municipality_id = ?", *municipalityID)
	}
	if err := query.Order("name").Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

// ListMenu возвращает доступные пункты меню заведения
func (r *BusinessRepo) ListMenu(businessID uint) ([]entity.BusinessMenu, error) {
	var items []entity.BusinessMenu
	err := r.db.Where("business_id = ? AND available = true", businessID).
		Order("name").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// MunicipalityRepo реализует repository.MunicipalityRepository
type MunicipalityRepo struct {
	db *gorm.DB
}

// NewMunicipalityRepo создает новый репозиторий муниципалитетов
func NewMunicipalityRepo(db *gorm.DB) *MunicipalityRepo {
	return &MunicipalityRepo{db: db}
}

// List возвращает все муниципалитеты
func (r *MunicipalityRepo) List() ([]entity.Municipality, error) {
	var municipalities []entity.Municipality
	if err := r.db.Order("name").Find(&municipalities).Error; err != nil {
		return nil, err
	}
	return municipalities, nil
}
