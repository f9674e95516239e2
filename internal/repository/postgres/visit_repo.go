package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/loyalty-api/internal/domain/entity"
	"github.com/yourusername/loyalty-api/internal/domain/repository"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
)

// VisitRepo реализует repository.VisitRepository
type VisitRepo struct {
	db *gorm.DB
}

// NewVisitRepo создает новый репозиторий визитов
func NewVisitRepo(db *gorm.DB) *VisitRepo {
	return &VisitRepo{db: db}
}

// Create вставляет визит. Уникальный индекс (user_id, business_id, visit_day)
// на границе хранилища — последний рубеж против двойного погашения тикета:
// проигравший конкурентной гонки получает ErrConflict.
func (r *VisitRepo) Create(visit *entity.Visit) error {
	if err := r.db.Create(visit).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// ExistsForDay проверяет наличие визита за календарный день
func (r *VisitRepo) ExistsForDay(userID, businessID uint, day time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Visit{}).
		Where("user_id = ? AND business_id = ? AND visit_day = ?",
			userID, businessID, day.UTC().Truncate(24*time.Hour)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAggregatesByUser возвращает сводки визитов пользователя по заведениям
// и месяцам, вместе с общим числом визитов
func (r *VisitRepo) ListAggregatesByUser(userID uint) ([]repository.VisitAggregate, int64, error) {
	var aggregates []repository.VisitAggregate
	err := r.db.Table("user_visits uv").
		Select(`uv.business_id, b.name AS business_name, uv.visit_month,
			COUNT(*) AS visit_count, MAX(uv.visit_date) AS last_visit_date`).
		Joins("JOIN businesses b ON uv.business_id = b.id").
		Where("uv.user_id = ?", userID).
		Group("uv.business_id, uv.visit_month, b.name").
		Order("last_visit_date DESC").
		Scan(&aggregates).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = r.db.Model(&entity.Visit{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return aggregates, total, nil
}

// ListAggregatesByBusiness возвращает помесячные сводки визитов в заведение
func (r *VisitRepo) ListAggregatesByBusiness(businessID uint) ([]repository.VisitAggregate, error) {
	var aggregates []repository.VisitAggregate
	err := r.db.Table("user_visits uv").
		Select(`uv.business_id, b.name AS business_name, uv.visit_month,
			COUNT(*) AS visit_count, MAX(uv.visit_date) AS last_visit_date`).
		Joins("JOIN businesses b ON uv.business_id = b.id").
		Where("uv.business_id = ?", businessID).
		Group("uv.business_id, uv.visit_month, b.name").
		Order("uv.visit_month DESC").
		Scan(&aggregates).Error
	if err != nil {
		return nil, err
	}
	return aggregates, nil
}
