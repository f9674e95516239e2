package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yourusername/loyalty-api/internal/domain/entity"
)

const writeWait = 10 * time.Second

// FeedMessage — сообщение живой ленты визитов
type FeedMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// VisitFeedHub рассылает события о новых визитах подписчикам дашбордов
// заведений. Подписки группируются по business_id. Реализует
// service.VisitPublisher; публикация не блокирует погашение тикета.
type VisitFeedHub struct {
	mu          sync.RWMutex
	subscribers map[uint]map[*websocket.Conn]bool
}

// NewVisitFeedHub создает новый хаб ленты визитов
func NewVisitFeedHub() *VisitFeedHub {
	return &VisitFeedHub{
		subscribers: make(map[uint]map[*websocket.Conn]bool),
	}
}

// Subscribe регистрирует подключение в ленте заведения
func (h *VisitFeedHub) Subscribe(businessID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[businessID] == nil {
		h.subscribers[businessID] = make(map[*websocket.Conn]bool)
	}
	h.subscribers[businessID][conn] = true
	log.Printf("[VisitFeed] Подписка на ленту business_id=%d, всего подписчиков=%d",
		businessID, len(h.subscribers[businessID]))
}

// Unsubscribe удаляет подключение из ленты заведения
func (h *VisitFeedHub) Unsubscribe(businessID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.subscribers[businessID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subscribers, businessID)
		}
	}
}

// PublishVisit отправляет событие о визите всем подписчикам заведения.
// Выполняется в отдельной горутине, чтобы не задерживать вызывающего.
func (h *VisitFeedHub) PublishVisit(businessID uint, visit *entity.Visit) {
	payload, err := json.Marshal(FeedMessage{Type: "visit_registered", Data: visit})
	if err != nil {
		log.Printf("[VisitFeed] Ошибка сериализации события визита: %v", err)
		return
	}

	go func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		for conn := range h.subscribers[businessID] {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("[VisitFeed] Ошибка записи подписчику business_id=%d: %v", businessID, err)
				conn.Close()
				delete(h.subscribers[businessID], conn)
			}
		}
	}()
}
