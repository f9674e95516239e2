package repository

import (
	"time"

	"github.com/yourusername/loyalty-api/internal/domain/entity"
)

// VisitAggregate — сводка визитов пользователя в заведение за месяц
type VisitAggregate struct {
	BusinessID    uint      `json:"business_id"`
	BusinessName  string    `json:"business_name"`
	VisitMonth    string    `json:"visit_month"`
	VisitCount    int64     `json:"visit_count"`
	LastVisitDate time.Time `json:"last_visit_date"`
}

// VisitRepository определяет методы для работы с визитами
type VisitRepository interface {
	// Create вставляет визит. Нарушение уникальности
	// (user_id, business_id, visit_day) возвращается как apperrors.ErrConflict.
	Create(visit *entity.Visit) error
	// ExistsForDay возвращает true, если визит за указанный календарный день уже есть
	ExistsForDay(userID, businessID uint, day time.Time) (bool, error)
	// ListAggregatesByUser возвращает сводки визитов пользователя по заведениям и месяцам
	ListAggregatesByUser(userID uint) ([]VisitAggregate, int64, error)
	// ListAggregatesByBusiness возвращает помесячные сводки визитов в заведение
	ListAggregatesByBusiness(businessID uint) ([]VisitAggregate, error)
}
