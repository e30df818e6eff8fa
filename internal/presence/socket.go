package presence

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 512
)

// Message кадр, который получает клиент
type Message struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// SocketConnection Connection поверх websocket. gorilla/websocket допускает одного писателя,
// поэтому запись сериализуется мьютексом.
type SocketConnection struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func NewSocketConnection(ws *websocket.Conn) *SocketConnection {
	return &SocketConnection{ws: ws}
}

func (c *SocketConnection) Emit(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		return err
	}
	return c.ws.WriteJSON(Message{Event: event, Payload: payload})
}

// Ping отправляет keepalive
func (c *SocketConnection) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}

func (c *SocketConnection) Close() error {
	return c.ws.Close()
}
