package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	ws "github.com/yourusername/loyalty-api/internal/websocket"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Источник фильтруется CORS-слоем перед апгрейдом
		return true
	},
}

// WSHandler обрабатывает подписки на живую ленту визитов заведения
type WSHandler struct {
	feedHub *ws.VisitFeedHub
}

// NewWSHandler создает новый обработчик websocket-подключений
func NewWSHandler(feedHub *ws.VisitFeedHub) *WSHandler {
	return &WSHandler{feedHub: feedHub}
}

// BusinessFeed апгрейдит соединение и подписывает его на ленту заведения.
// Соединение живет, пока клиент его не закроет; входящие сообщения
// не обрабатываются.
func (h *WSHandler) BusinessFeed(c *gin.Context) {
	businessID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] Ошибка апгрейда соединения: %v", err)
		return
	}

	h.feedHub.Subscribe(businessID, conn)

	go func() {
		defer func() {
			h.feedHub.Unsubscribe(businessID, conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
