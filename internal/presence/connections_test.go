package presence_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/presence"
	"github.com/shenikar/emergency_response_system/internal/presence/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestHub() *presence.Hub {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return presence.NewHub(logger)
}

func TestHub_AddAndRemove(t *testing.T) {
	ctrl := gomock.NewController(t)
	hub := newTestHub()
	conn := mocks.NewMockConnection(ctrl)

	hub.AddUserConnection("u1", models.RoleDispatcher, conn)

	assert.True(t, hub.IsUserConnected("u1"))
	got, ok := hub.GetUserConnection("u1")
	require.True(t, ok)
	assert.Equal(t, presence.Connection(conn), got)

	hub.RemoveUserConnection("u1")
	assert.False(t, hub.IsUserConnected("u1"))
	_, ok = hub.GetUserConnection("u1")
	assert.False(t, ok)

	// повторное удаление ничего не ломает
	hub.RemoveUserConnection("u1")
}

func TestHub_ReplacingConnectionClosesPrevious(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	hub := newTestHub()
	first := mocks.NewMockConnection(ctrl)
	second := mocks.NewMockConnection(ctrl)

	// Ожидания
	first.EXPECT().Close().Return(nil).Times(1)

	// Действие
	hub.AddUserConnection("u1", models.RoleDispatcher, first)
	hub.AddUserConnection("u1", models.RoleDispatcher, second)

	// Проверки
	got, ok := hub.GetUserConnection("u1")
	require.True(t, ok)
	assert.Equal(t, presence.Connection(second), got)
}

func TestHub_BroadcastToRole(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	hub := newTestHub()
	d1 := mocks.NewMockConnection(ctrl)
	d2 := mocks.NewMockConnection(ctrl)
	p1 := mocks.NewMockConnection(ctrl)
	payload := map[string]string{"incidentId": "IAlice"}

	hub.AddUserConnection("d1", models.RoleDispatcher, d1)
	hub.AddUserConnection("d2", models.RoleDispatcher, d2)
	hub.AddUserConnection("p1", models.RolePolice, p1)

	// Ожидания
	d1.EXPECT().Emit(presence.EventNewIncident, payload).Return(nil).Times(1)
	d2.EXPECT().Emit(presence.EventNewIncident, payload).Return(nil).Times(1)
	p1.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	hub.BroadcastToRole(models.RoleDispatcher, presence.EventNewIncident, payload)

	// Проверки
	assert.True(t, hub.IsUserConnected("d1"))
	assert.True(t, hub.IsUserConnected("d2"))
	assert.True(t, hub.IsUserConnected("p1"))
}

func TestHub_BroadcastDropsBrokenConnection(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	hub := newTestHub()
	healthy := mocks.NewMockConnection(ctrl)
	broken := mocks.NewMockConnection(ctrl)

	hub.AddUserConnection("d1", models.RoleDispatcher, healthy)
	hub.AddUserConnection("d2", models.RoleDispatcher, broken)

	// Ожидания
	healthy.EXPECT().Emit(presence.EventIncidentClosed, gomock.Any()).Return(nil)
	broken.EXPECT().Emit(presence.EventIncidentClosed, gomock.Any()).Return(errors.New("broken pipe"))
	broken.EXPECT().Close().Return(nil)

	// Действие
	hub.BroadcastToRole(models.RoleDispatcher, presence.EventIncidentClosed, nil)

	// Проверки
	assert.True(t, hub.IsUserConnected("d1"))
	assert.False(t, hub.IsUserConnected("d2"))
}
