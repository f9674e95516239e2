package service

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/loyalty-api/internal/domain/repository"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
)

// ReportService строит выгрузки статистики визитов для заведений
type ReportService struct {
	visitRepo    repository.VisitRepository
	businessRepo repository.BusinessRepository
}

// NewReportService создает новый сервис отчетов
func NewReportService(visitRepo repository.VisitRepository, businessRepo repository.BusinessRepository) (*ReportService, error) {
	if visitRepo == nil {
		return nil, fmt.Errorf("visit repository is required")
	}
	if businessRepo == nil {
		return nil, fmt.Errorf("business repository is required")
	}
	return &ReportService{visitRepo: visitRepo, businessRepo: businessRepo}, nil
}

// BuildBusinessVisitReport формирует xlsx с помесячной статистикой визитов
// заведения. Возвращает содержимое файла и имя для скачивания.
func (s *ReportService) BuildBusinessVisitReport(businessID uint) ([]byte, string, error) {
	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", ErrBusinessNotFound
		}
		return nil, "", fmt.Errorf("%w: failed to get business: %v", apperrors.ErrDependency, err)
	}

	aggregates, err := s.visitRepo.ListAggregatesByBusiness(businessID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to load visit aggregates: %v", apperrors.ErrDependency, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Visits"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to create sheet: %v", apperrors.ErrInternal, err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Month", "Visits", "Last visit"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	var total int64
	for row, agg := range aggregates {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row+2), agg.VisitMonth)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row+2), agg.VisitCount)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row+2), agg.LastVisitDate.Format("2006-01-02 15:04"))
		total += agg.VisitCount
	}
	f.SetCellValue(sheet, fmt.Sprintf("A%d", len(aggregates)+3), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", len(aggregates)+3), total)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("%w: failed to write report: %v", apperrors.ErrInternal, err)
	}

	filename := fmt.Sprintf("visits_%d_%s.xlsx", business.ID, business.Name)
	return buf.Bytes(), filename, nil
}
