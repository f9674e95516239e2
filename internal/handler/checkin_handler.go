package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/loyalty-api/internal/middleware"
	"github.com/yourusername/loyalty-api/internal/service"
)

// CheckinHandler обрабатывает выдачу и погашение тикетов визитов
type CheckinHandler struct {
	checkinService *service.CheckinService
}

// NewCheckinHandler создает новый обработчик check-in
func NewCheckinHandler(checkinService *service.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinService: checkinService}
}

// IssueTicketRequest представляет запрос на выдачу тикета визита
type IssueTicketRequest struct {
	BusinessID uint       `json:"business_id" binding:"required"`
	VisitTime  *time.Time `json:"visit_time" binding:"omitempty"`
}

// RedeemRequest представляет запрос на погашение тикета
type RedeemRequest struct {
	Ticket     string `json:"ticket" binding:"required"`
	BusinessID uint   `json:"business_id" binding:"required"`
}

// IssueTicket выдает подписанный тикет визита с QR для текущего пользователя
func (h *CheckinHandler) IssueTicket(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req IssueTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visitTime := time.Now()
	if req.VisitTime != nil {
		visitTime = *req.VisitTime
	}

	issued, err := h.checkinService.IssueTicket(c.Request.Context(), userID, req.BusinessID, visitTime)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ticket issued",
		"data":    issued,
	})
}

// Redeem погашает тикет от имени аутентифицированного пользователя.
// Личность вызывающего берется из токена доступа, а не из тела запроса:
// сверка с личностью внутри тикета — отдельная ступень проверки.
func (h *CheckinHandler) Redeem(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visit, err := h.checkinService.RedeemTicket(c.Request.Context(), req.Ticket, userID, req.BusinessID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Visit registered successfully",
		"data":    visit,
	})
}
