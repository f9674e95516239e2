package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidTicket возвращается при любой причине отказа декодирования:
// битая подпись, неверный формат, истекший срок. Причины намеренно не
// различаются наружу, чтобы не давать оракул подбора подписи или срока.
var ErrInvalidTicket = errors.New("invalid or corrupt ticket")

const ticketUsage = "visit_checkin"

// VisitTicket — декодированное содержимое тикета визита
type VisitTicket struct {
	UserID     uint
	BusinessID uint
	VisitTime  time.Time
}

// visitTicketClaims — полезная нагрузка подписанного тикета
type visitTicketClaims struct {
	UserID         uint   `json:"user_id"`
	BusinessID     uint   `json:"business_id"`
	VisitTimestamp int64  `json:"visit_timestamp"`
	Usage          string `json:"usage"`
	jwt.RegisteredClaims
}

// TicketService кодирует и декодирует самодостаточные тикеты визитов.
// Тикет нигде не сохраняется: защита от повторного погашения обеспечивается
// уникальностью записи визита, а не учетом выданных тикетов.
type TicketService struct {
	secret []byte
	ttl    time.Duration
}

// NewTicketService создает кодек тикетов. ttl фиксирован для всех тикетов.
func NewTicketService(secret string, ttl time.Duration) (*TicketService, error) {
	if secret == "" {
		return nil, fmt.Errorf("ticket signing secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TicketService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL возвращает срок действия выдаваемых тикетов
func (s *TicketService) TTL() time.Duration {
	return s.ttl
}

// Issue выдает подписанный тикет визита со сроком действия now + ttl
func (s *TicketService) Issue(userID, businessID uint, visitTime time.Time) (string, error) {
	now := time.Now()
	claims := &visitTicketClaims{
		UserID:         userID,
		BusinessID:     businessID,
		VisitTimestamp: visitTime.UTC().Unix(),
		Usage:          ticketUsage,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "loyalty-api",
			Audience:  jwt.ClaimStrings{"loyalty-checkin"},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ticket, err := token.SignedString(s.secret)
	if err != nil {
		log.Printf("[Ticket] Ошибка подписи тикета для пользователя ID=%d: %v", userID, err)
		return "", err
	}
	return ticket, nil
}

// Decode проверяет подпись и срок действия тикета за один шаг.
// Истекший и испорченный тикет различаются только в логе, вызывающему
// в обоих случаях возвращается ErrInvalidTicket.
func (s *TicketService) Decode(ticketString string) (*VisitTicket, error) {
	claims := &visitTicketClaims{}

	token, err := jwt.ParseWithClaims(ticketString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			log.Printf("[Ticket] Отклонен истекший тикет (user_id=%d)", claims.UserID)
		} else {
			log.Printf("[Ticket] Отклонен тикет с недействительной подписью или форматом: %v", err)
		}
		return nil, ErrInvalidTicket
	}
	if !token.Valid || claims.Usage != ticketUsage {
		log.Printf("[Ticket] Отклонен тикет с неверным назначением usage=%q", claims.Usage)
		return nil, ErrInvalidTicket
	}

	return &VisitTicket{
		UserID:     claims.UserID,
		BusinessID: claims.BusinessID,
		VisitTime:  time.Unix(claims.VisitTimestamp, 0).UTC(),
	}, nil
}
