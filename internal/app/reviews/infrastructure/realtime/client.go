package realtime

import (
	"net/http"

	"bikereviews/internal/app/reviews/entity"
	"bikereviews/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Канал публичный и только на чтение, origin не проверяем
		return true
	},
}

// Client - одно WebSocket подключение
// Клиенты ничего не отправляют, канал работает только на рассылку
type Client struct {
	conn *websocket.Conn
	hub  *Hub
	send chan *entity.NotificationEvent
}

// ServeWS - gin-обработчик апгрейда соединения до WebSocket
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := &Client{
		conn: conn,
		hub:  h,
		send: make(chan *entity.NotificationEvent, 8),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump вычитывает входящие фреймы только ради обнаружения разрыва
// соединения. Полезных сообщений от клиентов не ожидается.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	for event := range c.send {
		if err := c.conn.WriteJSON(event); err != nil {
			logger.Debug().Err(err).Msg("WebSocket write error")
			break
		}
	}
	c.conn.Close()
}
