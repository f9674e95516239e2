package service

import (
	"fmt"

	"github.com/yourusername/loyalty-api/internal/domain/entity"
	"github.com/yourusername/loyalty-api/internal/domain/repository"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
)

// VisitHistory — история визитов пользователя со сводками по заведениям
type VisitHistory struct {
	Data        []repository.VisitAggregate `json:"data"`
	TotalVisits int64                       `json:"total_visits"`
}

// UserService отвечает за профиль и историю визитов пользователя
type UserService struct {
	userRepo  repository.UserRepository
	visitRepo repository.VisitRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, visitRepo repository.VisitRepository) (*UserService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if visitRepo == nil {
		return nil, fmt.Errorf("visit repository is required")
	}
	return &UserService{userRepo: userRepo, visitRepo: visitRepo}, nil
}

// GetProfile возвращает профиль пользователя
func (s *UserService) GetProfile(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile обновляет разрешенные поля профиля
func (s *UserService) UpdateProfile(userID uint, updates map[string]interface{}) (*entity.User, error) {
	allowed := map[string]bool{"name": true, "phone": true, "municipality_id": true}
	filtered := make(map[string]interface{}, len(updates))
	for field, value := range updates {
		if allowed[field] && value != nil {
			filtered[field] = value
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields provided", apperrors.ErrValidation)
	}

	if err := s.userRepo.UpdateProfile(userID, filtered); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(userID)
}

// GetVisitHistory возвращает сводки визитов пользователя
func (s *UserService) GetVisitHistory(userID uint) (*VisitHistory, error) {
	aggregates, total, err := s.visitRepo.ListAggregatesByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load visit history: %v", apperrors.ErrDependency, err)
	}
	if aggregates == nil {
		aggregates = []repository.VisitAggregate{}
	}
	return &VisitHistory{Data: aggregates, TotalVisits: total}, nil
}
