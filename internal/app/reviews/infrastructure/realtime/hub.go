package realtime

import (
	"sync"

	"bikereviews/internal/app/reviews/entity"
	"bikereviews/pkg/logger"
	"bikereviews/pkg/metrics"
)

// Hub держит все активные WebSocket подключения и рассылает им
// события newReview. Истории и повторной доставки нет: кто не подключен
// в момент создания отзыва, событие не получает.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *entity.NotificationEvent
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *entity.NotificationEvent, 16),
	}
}

// Run обрабатывает регистрацию, отключение и рассылку.
// Запускается одной горутиной при старте сервиса.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebsocketClients.Set(float64(total))
			logger.Debug().Int("total", total).Msg("WebSocket client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				close(client.send)
				delete(h.clients, client)
			}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebsocketClients.Set(float64(total))
			logger.Debug().Int("total", total).Msg("WebSocket client unregistered")

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// BroadcastNewReview отправляет созданный отзыв всем подключенным клиентам
// Вызывается из сервиса после успешной вставки
func (h *Hub) BroadcastNewReview(review *entity.Review) {
	h.broadcast <- &entity.NotificationEvent{
		Event: "newReview",
		Data:  review,
	}
	metrics.WebsocketEventsSent.Inc()
}

func (h *Hub) broadcastEvent(event *entity.NotificationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- event:
		default:
			// Канал клиента заполнен - отключаем его
			go func(c *Client) {
				h.unregister <- c
			}(client)
			logger.Warn().Msg("WebSocket client disconnected due to full send channel")
		}
	}
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
