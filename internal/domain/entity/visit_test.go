package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewVisit_DerivedFields(t *testing.T) {
	// 23:45 в поясе UTC+3 — это 20:45 того же дня в UTC
	loc := time.FixedZone("UTC+3", 3*3600)
	visitDate := time.Date(2026, 3, 14, 23, 45, 10, 0, loc)

	visit := NewVisit(42, 7, visitDate)

	assert.Equal(t, uint(42), visit.UserID)
	assert.Equal(t, uint(7), visit.BusinessID)
	assert.Equal(t, VisitStatusConfirmed, visit.Status)

	// Производные поля считаются в UTC
	assert.Equal(t, time.UTC, visit.VisitDate.Location())
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), visit.VisitDay)
	assert.Equal(t, "2026-03", visit.VisitMonth)
}

func TestNewVisit_DayBoundary(t *testing.T) {
	// 01:30 в поясе UTC+3 — это 22:30 предыдущего дня в UTC
	loc := time.FixedZone("UTC+3", 3*3600)
	visitDate := time.Date(2026, 3, 15, 1, 30, 0, 0, loc)

	visit := NewVisit(42, 7, visitDate)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), visit.VisitDay)
	assert.Equal(t, "2026-03", visit.VisitMonth)
}

func TestSameCalendarMonth(t *testing.T) {
	assert.True(t, SameCalendarMonth(
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC),
	))
	assert.False(t, SameCalendarMonth(
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	))
	// Тот же месяц, но другой год
	assert.False(t, SameCalendarMonth(
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	))
}
