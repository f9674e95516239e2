package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/loyalty-api/internal/service"
)

// BusinessHandler обрабатывает запросы каталога заведений
type BusinessHandler struct {
	businessService *service.BusinessService
	reportService   *service.ReportService
}

// NewBusinessHandler создает новый обработчик заведений
func NewBusinessHandler(businessService *service.BusinessService, reportService *service.ReportService) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
		reportService:   reportService,
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return uint(id), true
}

// List возвращает активные заведения, опционально по муниципалитету
func (h *BusinessHandler) List(c *gin.Context) {
	var municipalityID *uint
	if raw := c.Query("municipality_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid municipality_id"})
			return
		}
		u := uint(id)
		municipalityID = &u
	}

	businesses, err := h.businessService.ListBusinesses(municipalityID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": businesses})
}

// Get возвращает заведение по ID
func (h *BusinessHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	business, err := h.businessService.GetBusiness(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": business})
}

// Menu возвращает меню заведения
func (h *BusinessHandler) Menu(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.businessService.ListMenu(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// Municipalities возвращает все муниципалитеты
func (h *BusinessHandler) Municipalities(c *gin.Context) {
	municipalities, err := h.businessService.ListMunicipalities()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": municipalities})
}

// Report отдает xlsx с помесячной статистикой визитов заведения
func (h *BusinessHandler) Report(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	content, filename, err := h.reportService.BuildBusinessVisitReport(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		content)
}
