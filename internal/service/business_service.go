package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/loyalty-api/internal/domain/entity"
	"github.com/yourusername/loyalty-api/internal/domain/repository"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
)

const businessListCacheTTL = 5 * time.Minute

// BusinessService отвечает за каталог заведений и муниципалитетов.
// Списки кешируются в Redis; недоступность кеша не фатальна — запрос
// уходит в БД.
type BusinessService struct {
	businessRepo     repository.BusinessRepository
	municipalityRepo repository.MunicipalityRepository
	cacheRepo        repository.CacheRepository
}

// NewBusinessService создает новый сервис заведений
func NewBusinessService(
	businessRepo repository.BusinessRepository,
	municipalityRepo repository.MunicipalityRepository,
	cacheRepo repository.CacheRepository,
) (*BusinessService, error) {
	if businessRepo == nil {
		return nil, fmt.Errorf("business repository is required")
	}
	if municipalityRepo == nil {
		return nil, fmt.Errorf("municipality repository is required")
	}
	return &BusinessService{
		businessRepo:     businessRepo,
		municipalityRepo: municipalityRepo,
		cacheRepo:        cacheRepo,
	}, nil
}

func businessListCacheKey(municipalityID *uint) string {
	if municipalityID == nil {
		return "businesses:all"
	}
	return fmt.Sprintf("businesses:municipality:%d", *municipalityID)
}

// ListBusinesses возвращает активные заведения, опционально по муниципалитету
func (s *BusinessService) ListBusinesses(municipalityID *uint) ([]entity.Business, error) {
	cacheKey := businessListCacheKey(municipalityID)

	if s.cacheRepo != nil {
		var cached []entity.Business
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[Business] Ошибка чтения кеша %s: %v", cacheKey, err)
		}
	}

	businesses, err := s.businessRepo.ListActive(municipalityID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list businesses: %v", apperrors.ErrDependency, err)
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(cacheKey, businesses, businessListCacheTTL); err != nil {
			log.Printf("[Business] Ошибка записи кеша %s: %v", cacheKey, err)
		}
	}
	return businesses, nil
}

// GetBusiness возвращает заведение по ID
func (s *BusinessService) GetBusiness(id uint) (*entity.Business, error) {
	business, err := s.businessRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("%w: failed to get business: %v", apperrors.ErrDependency, err)
	}
	return business, nil
}

// ListMenu возвращает меню заведения
func (s *BusinessService) ListMenu(businessID uint) ([]entity.BusinessMenu, error) {
	if _, err := s.GetBusiness(businessID); err != nil {
		return nil, err
	}
	items, err := s.businessRepo.ListMenu(businessID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list menu: %v", apperrors.ErrDependency, err)
	}
	return items, nil
}

// ListMunicipalities возвращает все муниципалитеты
func (s *BusinessService) ListMunicipalities() ([]entity.Municipality, error) {
	municipalities, err := s.municipalityRepo.List()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list municipalities: %v", apperrors.ErrDependency, err)
	}
	return municipalities, nil
}
