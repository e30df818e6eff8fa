package presence

import (
	"sync"

	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Connection активное подключение пользователя, по которому можно отправить событие
type Connection interface {
	Emit(event string, payload any) error
	Close() error
}

// UserConnections реестр подключённых пользователей. Ключ - id пользователя.
type UserConnections interface {
	IsUserConnected(userID string) bool
	GetUserConnection(userID string) (Connection, bool)
	BroadcastToRole(role models.Role, event string, payload any)
	AddUserConnection(userID string, role models.Role, conn Connection)
	RemoveUserConnection(userID string)
}

type entry struct {
	role models.Role
	conn Connection
}

// Hub потокобезопасная реализация UserConnections в памяти процесса
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]entry
	logger *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]entry),
		logger: logger,
	}
}

func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[userID]
	return ok
}

func (h *Hub) GetUserConnection(userID string) (Connection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.conns[userID]
	if !ok {
		return nil, false
	}
	return e.conn, true
}

// AddUserConnection регистрирует подключение. Предыдущее подключение того же пользователя закрывается.
func (h *Hub) AddUserConnection(userID string, role models.Role, conn Connection) {
	h.mu.Lock()
	prev, existed := h.conns[userID]
	h.conns[userID] = entry{role: role, conn: conn}
	h.mu.Unlock()

	if existed && prev.conn != conn {
		if err := prev.conn.Close(); err != nil {
			h.logger.WithError(err).WithField("user_id", userID).Debug("Failed to close replaced connection")
		}
	}
	h.logger.WithFields(logrus.Fields{"user_id": userID, "role": role}).Info("User connected")
}

func (h *Hub) RemoveUserConnection(userID string) {
	h.mu.Lock()
	_, existed := h.conns[userID]
	delete(h.conns, userID)
	h.mu.Unlock()

	if existed {
		h.logger.WithField("user_id", userID).Info("User disconnected")
	}
}

// BroadcastToRole отправляет событие всем подключённым пользователям роли.
// Отправка идёт без удержания блокировки; подключения с ошибкой записи удаляются.
func (h *Hub) BroadcastToRole(role models.Role, event string, payload any) {
	h.mu.RLock()
	targets := make(map[string]Connection)
	for id, e := range h.conns {
		if e.role == role {
			targets[id] = e.conn
		}
	}
	h.mu.RUnlock()

	for id, conn := range targets {
		if err := conn.Emit(event, payload); err != nil {
			h.logger.WithError(err).WithFields(logrus.Fields{
				"user_id": id,
				"event":   event,
			}).Warn("Failed to broadcast event, dropping connection")
			h.dropIfCurrent(id, conn)
		}
	}
}

func (h *Hub) dropIfCurrent(userID string, conn Connection) {
	h.mu.Lock()
	if e, ok := h.conns[userID]; ok && e.conn == conn {
		delete(h.conns, userID)
	}
	h.mu.Unlock()
	_ = conn.Close()
}
