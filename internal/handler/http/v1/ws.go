package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shenikar/emergency_response_system/internal/presence"
	"github.com/sirupsen/logrus"
)

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(h.cfg.AllowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range h.cfg.AllowedOrigins {
				if allowed == origin {
					return true
				}
			}
			return false
		},
	}
}

// @Summary Open a presence socket
// @Description Registers the user as online until the socket closes. Server events arrive as {"event", "payload"} frames.
// @Tags Users
// @Param userId query string true "User ID"
// @Success 101 "Switching Protocols"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 404 {object} map[string]string "User not found"
// @Router /ws [get]
func (h *Handler) serveWS(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}
	log := h.logger.WithFields(logrus.Fields{"method": "serveWS", "user_id": userID})

	user, err := h.services.Users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, log, err, "Failed to get user for socket")
		return
	}

	ws, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		log.WithError(err).Warn("Failed to upgrade connection")
		return
	}

	conn := presence.NewSocketConnection(ws)
	id := user.ID.String()
	h.connections.AddUserConnection(id, user.Role, conn)

	done := make(chan struct{})
	go h.pingLoop(conn, done, log)

	h.readLoop(ws, log)
	close(done)

	// новое подключение того же пользователя могло уже заменить это
	if current, ok := h.connections.GetUserConnection(id); ok && current == presence.Connection(conn) {
		h.connections.RemoveUserConnection(id)
	}
	_ = conn.Close()
}

// readLoop читает кадры клиента до ошибки. Клиент ничего не присылает, чтение нужно для pong и закрытия.
func (h *Handler) readLoop(ws *websocket.Conn, log *logrus.Entry) {
	ws.SetReadLimit(presence.MaxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(presence.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(presence.PongWait))
	})
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("Socket closed unexpectedly")
			}
			return
		}
	}
}

func (h *Handler) pingLoop(conn *presence.SocketConnection, done <-chan struct{}, log *logrus.Entry) {
	ticker := time.NewTicker(presence.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.Ping(); err != nil {
				log.WithError(err).Debug("Ping failed")
				return
			}
		}
	}
}
