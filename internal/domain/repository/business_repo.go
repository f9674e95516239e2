package repository

import (
	"github.com/yourusername/loyalty-api/internal/domain/entity"
)

// BusinessRepository определяет методы для работы с заведениями
type BusinessRepository interface {
	GetByID(id uint) (*entity.Business, error)
	ListActive(municipalityID *uint) ([]entity.Business, error)
	ListMenu(businessID uint) ([]entity.BusinessMenu, error)
}

// MunicipalityRepository определяет методы для работы с муниципалитетами
type MunicipalityRepository interface {
	List() ([]entity.Municipality, error)
}
