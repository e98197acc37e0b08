package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"socialweb/logger"
	"socialweb/models"
)

const (
	// writeWait - предел на запись одного сообщения клиенту
	writeWait = 10 * time.Second
	// sendBuffer - сколько событий ждут записи, прежде чем клиент считается зависшим
	sendBuffer = 64
)

// Sink принимает события об изменениях кешей
type Sink interface {
	Notify(event models.StateEvent)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient - соединение и его очередь; пишет в conn только writePump
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub рассылает события хранилища всем подключенным websocket-клиентам.
// Broadcast не пишет в сеть сам и не блокирует вызывающего
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*wsClient
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*wsClient),
		log:     logger.OrNop(log),
	}
}

// Add регистрирует соединение и запускает для него писателя
func (h *Hub) Add(conn *websocket.Conn) {
	c := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()
	go h.writePump(c)
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(conn)
}

// removeLocked закрывает очередь; writePump закроет соединение сам
func (h *Hub) removeLocked(conn *websocket.Conn) {
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(c.send)
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast ставит сообщение в очередь каждому клиенту.
// Клиент с заполненной очередью отключается
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, c := range h.clients {
		select {
		case c.send <- message:
		default:
			h.log.Warn("websocket client is not reading, dropping connection",
				zap.String("remote", conn.RemoteAddr().String()))
			h.removeLocked(conn)
		}
	}
}

// Notify реализует Sink
func (h *Hub) Notify(event models.StateEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to encode state event", zap.Error(err))
		return
	}
	h.Broadcast(data)
}

func (h *Hub) writePump(c *wsClient) {
	defer c.conn.Close()
	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.Debug("websocket write failed, dropping connection", zap.Error(err))
			h.Remove(c.conn)
			// дочитываем очередь до закрытия
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ServeWS апгрейдит соединение и держит его, пока клиент не отключится
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade error", zap.Error(err))
		return
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"connected","message":"state stream connected"}`))
	if err != nil {
		_ = conn.Close()
		return
	}
	h.Add(conn)
	defer h.Remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debug("websocket closed", zap.Error(err))
			return
		}
	}
}
