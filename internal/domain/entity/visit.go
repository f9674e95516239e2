package entity

import "time"

// Статусы визита
const (
	VisitStatusConfirmed = "confirmed"
)

// Visit представляет подтвержденный визит пользователя в заведение.
// Запись создается только движком погашения тикетов и после создания
// не изменяется. Уникальность (user_id, business_id, visit_day)
// обеспечивается индексом в БД и служит защитой от повторного
// погашения одного тикета.
type Visit struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index;uniqueIndex:idx_visits_user_business_day" json:"user_id"`
	BusinessID uint      `gorm:"not null;index;uniqueIndex:idx_visits_user_business_day" json:"business_id"`
	VisitDate  time.Time `gorm:"not null" json:"visit_date"`
	VisitDay   time.Time `gorm:"type:date;not null;uniqueIndex:idx_visits_user_business_day" json:"-"`
	VisitMonth string    `gorm:"size:7;not null;index" json:"visit_month"`
	Status     string    `gorm:"size:20;not null;default:'confirmed'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Visit) TableName() string {
	return "user_visits"
}

// NewVisit создает запись визита, производные поля (день и метка месяца)
// вычисляются из visitDate в UTC
func NewVisit(userID, businessID uint, visitDate time.Time) *Visit {
	utc := visitDate.UTC()
	return &Visit{
		UserID:     userID,
		BusinessID: businessID,
		VisitDate:  utc,
		VisitDay:   utc.Truncate(24 * time.Hour),
		VisitMonth: utc.Format("2006-01"),
		Status:     VisitStatusConfirmed,
	}
}

// SameCalendarMonth возвращает true, если оба момента приходятся на один
// календарный месяц одного года (в UTC)
func SameCalendarMonth(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month()
}
