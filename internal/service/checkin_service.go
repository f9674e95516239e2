package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/yourusername/loyalty-api/internal/domain/entity"
	"github.com/yourusername/loyalty-api/internal/domain/repository"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
	"github.com/yourusername/loyalty-api/pkg/auth"
)

// VisitPublisher получает уведомления об успешно зарегистрированных визитах
// (живая лента для дашбордов заведений). Публикация не должна блокировать
// погашение тикета.
type VisitPublisher interface {
	PublishVisit(businessID uint, visit *entity.Visit)
}

// CheckinService выдает тикеты визитов и погашает их.
// Тикет — единственное, что клиент уносит с собой: до момента погашения
// в БД ничего не сохраняется.
type CheckinService struct {
	tickets      *auth.TicketService
	visitRepo    repository.VisitRepository
	businessRepo repository.BusinessRepository
	feed         VisitPublisher
}

// NewCheckinService создает сервис check-in
func NewCheckinService(
	tickets *auth.TicketService,
	visitRepo repository.VisitRepository,
	businessRepo repository.BusinessRepository,
	feed VisitPublisher,
) (*CheckinService, error) {
	if tickets == nil {
		return nil, fmt.Errorf("ticket service is required")
	}
	if visitRepo == nil {
		return nil, fmt.Errorf("visit repository is required")
	}
	if businessRepo == nil {
		return nil, fmt.Errorf("business repository is required")
	}
	return &CheckinService{
		tickets:      tickets,
		visitRepo:    visitRepo,
		businessRepo: businessRepo,
		feed:         feed,
	}, nil
}

// IssuedTicket — результат выдачи тикета: сам подписанный тикет и его
// PNG-представление для показа на экране
type IssuedTicket struct {
	Ticket    string    `json:"ticket"`
	QRCode    string    `json:"qr_code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueTicket выдает подписанный тикет визита и QR для него.
// Заведение должно существовать и быть активным; сам тикет нигде
// не сохраняется.
func (s *CheckinService) IssueTicket(ctx context.Context, userID, businessID uint, visitTime time.Time) (*IssuedTicket, error) {
	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("%w: failed to look up business: %v", apperrors.ErrDependency, err)
	}
	if !business.Active {
		return nil, ErrBusinessNotFound
	}

	ticket, err := s.tickets.Issue(userID, businessID, visitTime)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to sign ticket: %v", apperrors.ErrInternal, err)
	}

	png, err := qrcode.Encode(ticket, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to render QR code: %v", apperrors.ErrInternal, err)
	}

	return &IssuedTicket{
		Ticket:    ticket,
		QRCode:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		ExpiresAt: time.Now().Add(s.tickets.TTL()),
	}, nil
}

// RedeemTicket проверяет тикет и регистрирует визит. Проверки идут строго
// по порядку, первая несработавшая прерывает погашение:
//  1. подпись и срок тикета;
//  2. совпадение пользователя из тикета с аутентифицированным вызывающим —
//     владение тикетом само по себе не доказательство, утекший тикет
//     нельзя погасить чужими руками;
//  3. совпадение заведения;
//  4. визит относится к текущему календарному месяцу;
//  5. за этот календарный день визита еще не было.
//
// Тикеты не помечаются использованными — повтор отсекает уникальность
// записи визита за день, поэтому порядок проверок менять нельзя.
func (s *CheckinService) RedeemTicket(ctx context.Context, ticketString string, claimedUserID, claimedBusinessID uint) (*entity.Visit, error) {
	ticket, err := s.tickets.Decode(ticketString)
	if err != nil {
		return nil, auth.ErrInvalidTicket
	}

	if ticket.UserID != claimedUserID {
		log.Printf("[Checkin] Тикет user_id=%d предъявлен пользователем id=%d", ticket.UserID, claimedUserID)
		return nil, ErrTicketWrongUser
	}
	if ticket.BusinessID != claimedBusinessID {
		log.Printf("[Checkin] Тикет business_id=%d предъявлен в заведении id=%d", ticket.BusinessID, claimedBusinessID)
		return nil, ErrTicketWrongBusiness
	}

	if !entity.SameCalendarMonth(ticket.VisitTime, time.Now()) {
		return nil, ErrStaleTicket
	}

	exists, err := s.visitRepo.ExistsForDay(claimedUserID, claimedBusinessID, ticket.VisitTime)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check existing visit: %v", apperrors.ErrDependency, err)
	}
	if exists {
		return nil, ErrDuplicateVisit
	}

	visit := entity.NewVisit(claimedUserID, claimedBusinessID, ticket.VisitTime)
	if err := s.visitRepo.Create(visit); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Конкурентное погашение того же тикета: проигравший
			// уникальному индексу получает тот же ответ, что и при
			// обычном повторе.
			return nil, ErrDuplicateVisit
		}
		return nil, fmt.Errorf("%w: failed to persist visit: %v", apperrors.ErrDependency, err)
	}

	if s.feed != nil {
		s.feed.PublishVisit(claimedBusinessID, visit)
	}

	log.Printf("[Checkin] Визит зарегистрирован: user_id=%d business_id=%d day=%s",
		visit.UserID, visit.BusinessID, visit.VisitDay.Format("2006-01-02"))
	return visit, nil
}
