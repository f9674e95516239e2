package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
	"github.com/yourusername/loyalty-api/internal/service"
	"github.com/yourusername/loyalty-api/pkg/auth"
)

// respondError переводит ошибки сервисов в HTTP-ответы.
// Ошибки валидации и конфликтов отдаются с конкретным сообщением;
// ошибки зависимостей и внутренние — только обобщенно, детали в логе.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidTicket):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or corrupt ticket", "error_type": "invalid_ticket"})
	case errors.Is(err, service.ErrTicketWrongUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticket does not belong to this user", "error_type": "wrong_user"})
	case errors.Is(err, service.ErrTicketWrongBusiness):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticket is not valid for this business", "error_type": "wrong_business"})
	case errors.Is(err, service.ErrStaleTicket):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticket does not correspond to the current month", "error_type": "stale_ticket"})
	case errors.Is(err, service.ErrDuplicateVisit):
		c.JSON(http.StatusConflict, gin.H{"error": "This visit has already been registered", "error_type": "duplicate_visit"})
	case errors.Is(err, service.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code", "error_type": "invalid_code"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password", "error_type": "invalid_credentials"})
	case errors.Is(err, service.ErrEmailAlreadyRegistered),
		errors.Is(err, service.ErrPhoneAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "already_registered"})
	case errors.Is(err, service.ErrBusinessNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found", "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_failed"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Request conflicts with current state, please retry the flow", "error_type": "conflict"})
	case errors.Is(err, apperrors.ErrDependency):
		log.Printf("[Handler] Ошибка зависимости: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable", "error_type": "dependency_error"})
	default:
		log.Printf("[Handler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_error"})
	}
}
