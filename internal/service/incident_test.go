package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/presence"
	presence_mocks "github.com/shenikar/emergency_response_system/internal/presence/mocks"
	"github.com/shenikar/emergency_response_system/internal/service/mocks"
	"github.com/shenikar/emergency_response_system/internal/webhook"
	webhook_mocks "github.com/shenikar/emergency_response_system/internal/webhook/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// repoMocks набор моков, общий для тестов сервисов
type repoMocks struct {
	incidents   *mocks.MockIncidentRepository
	vehicles    *mocks.MockVehicleRepository
	users       *mocks.MockUserRepository
	channels    *mocks.MockChannelRepository
	cities      *mocks.MockCityRepository
	tx          *mocks.MockTransactor
	connections *presence_mocks.MockUserConnections
	publisher   *webhook_mocks.MockWebhookPublisher
}

func newRepoMocks(t *testing.T) (*gomock.Controller, *repoMocks) {
	ctrl := gomock.NewController(t)
	m := &repoMocks{
		incidents:   mocks.NewMockIncidentRepository(ctrl),
		vehicles:    mocks.NewMockVehicleRepository(ctrl),
		users:       mocks.NewMockUserRepository(ctrl),
		channels:    mocks.NewMockChannelRepository(ctrl),
		cities:      mocks.NewMockCityRepository(ctrl),
		tx:          mocks.NewMockTransactor(ctrl),
		connections: presence_mocks.NewMockUserConnections(ctrl),
		publisher:   webhook_mocks.NewMockWebhookPublisher(ctrl),
	}
	// Транзакция просто выполняет функцию
	m.tx.EXPECT().
		WithinTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()
	return ctrl, m
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

// newTestIncidentService - вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (*incidentService, *repoMocks) {
	_, m := newRepoMocks(t)
	service := NewIncidentService(m.incidents, m.vehicles, m.users, m.channels, m.tx, m.connections, m.publisher, newTestLogger())
	s := service.(*incidentService)
	s.now = func() time.Time { return testNow }
	return s, m
}

func newUser(username string, role models.Role) *models.User {
	return &models.User{ID: uuid.New(), Username: username, Role: role}
}

func TestCreate_Success(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания
	m.incidents.EXPECT().
		Create(ctx, gomock.Any()).
		Return(nil).
		Times(1)
	m.publisher.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event webhook.IncidentEvent) error {
			assert.Equal(t, webhook.EventIncidentCreated, event.Type)
			assert.Equal(t, "ITest", event.IncidentID)
			return nil
		}).
		Times(1)

	// Действие
	incident, err := service.Create(ctx, "Test")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "ITest", incident.IncidentID)
	assert.Equal(t, "Test", incident.Caller)
	assert.Equal(t, models.StateWaiting, incident.IncidentState)
	assert.Equal(t, models.SystemUser, incident.Owner)
	assert.Equal(t, models.SystemUser, incident.Commander)
	assert.Equal(t, models.IncidentTypeUnset, incident.Type)
	assert.Equal(t, models.PriorityImmediate, incident.Priority)
	assert.Equal(t, testNow, incident.OpeningDate)
	assert.Empty(t, incident.AssignedVehicles)
	assert.Empty(t, incident.AssignHistory)
}

func TestCreate_AlreadyExists(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания
	m.incidents.EXPECT().
		Create(ctx, gomock.Any()).
		Return(fmt.Errorf("repository: %w", models.ErrAlreadyExists)).
		Times(1)

	// Действие
	incident, err := service.Create(ctx, "Test")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
	assert.ErrorContains(t, err, "already exists")
}

func TestCreate_EmptyCaller(t *testing.T) {
	service, _ := newTestIncidentService(t)

	incident, err := service.Create(context.Background(), "   ")

	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, models.ErrNameRequired)
}

func TestCreateIncident_ReturnsExisting(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	existing := models.NewIncident("Bob")
	existing.IncidentState = models.StateTriage

	// Ожидания
	m.incidents.EXPECT().
		GetByID(ctx, "IBob").
		Return(existing, nil).
		Times(1)

	// Действие
	incident, created, err := service.CreateIncident(ctx, &models.Incident{Caller: "Bob"})

	// Проверки
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing, incident)
}

func TestCreateIncident_AppliesDefaults(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания
	m.incidents.EXPECT().
		GetByID(ctx, "IBob").
		Return(nil, fmt.Errorf("repository: %w", models.ErrNotFound)).
		Times(1)
	m.incidents.EXPECT().
		Create(ctx, gomock.Any()).
		Return(nil).
		Times(1)
	m.connections.EXPECT().
		BroadcastToRole(models.RoleDispatcher, presence.EventNewIncident, gomock.Any()).
		Times(1)
	m.publisher.EXPECT().
		Publish(ctx, gomock.Any()).
		Return(nil).
		Times(1)

	// Действие
	incident, created, err := service.CreateIncident(ctx, &models.Incident{Caller: " Bob ", Address: "Main st. 1"})

	// Проверки
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "IBob", incident.IncidentID)
	assert.Equal(t, "Bob", incident.Caller)
	assert.Equal(t, "Main st. 1", incident.Address)
	assert.Equal(t, models.StateWaiting, incident.IncidentState)
	assert.Equal(t, models.SystemUser, incident.Owner)
	assert.Equal(t, models.SystemUser, incident.Commander)
	assert.Equal(t, testNow, incident.OpeningDate)
	assert.NotNil(t, incident.AssignedVehicles)
	assert.NotNil(t, incident.AssignHistory)
}

func TestCreateIncident_PublishFailureIsIgnored(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, "IBob").Return(nil, models.ErrNotFound)
	m.incidents.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	m.connections.EXPECT().BroadcastToRole(models.RoleDispatcher, presence.EventNewIncident, gomock.Any())
	m.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("redis is down"))

	// Действие
	incident, created, err := service.CreateIncident(ctx, &models.Incident{Caller: "Bob"})

	// Проверки
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "IBob", incident.IncidentID)
}

func TestGetIncident_Success_FromCache(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	expectedIncident := models.NewIncident("Alice")

	// Ожидания
	m.incidents.EXPECT().
		GetIncidentFromCache(ctx, "IAlice").
		Return(expectedIncident, nil).
		Times(1)

	// Действие
	incident, err := service.GetIncident(ctx, "IAlice")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGetIncident_Success_FromDB(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	expectedIncident := models.NewIncident("Alice")

	// Ожидания
	// 1. Промах кеша
	m.incidents.EXPECT().
		GetIncidentFromCache(ctx, "IAlice").
		Return(nil, nil).
		Times(1)

	// 2. Попадание в БД
	m.incidents.EXPECT().
		GetByID(ctx, "IAlice").
		Return(expectedIncident, nil).
		Times(1)

	// 3. Запись в кеш
	m.incidents.EXPECT().
		SetIncidentCache(ctx, expectedIncident).
		Return(nil).
		Times(1)

	// Действие
	incident, err := service.GetIncident(ctx, "IAlice")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGetIncident_NotFound(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания
	m.incidents.EXPECT().
		GetIncidentFromCache(ctx, "IAlice").
		Return(nil, nil).
		Times(1)
	m.incidents.EXPECT().
		GetByID(ctx, "IAlice").
		Return(nil, fmt.Errorf("repository: %w", models.ErrNotFound)).
		Times(1)

	// Действие
	incident, err := service.GetIncident(ctx, "IAlice")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorContains(t, err, "could not get incident")
}

func TestGetActiveIncident_NoneReturnsNil(t *testing.T) {
	service, m := newTestIncidentService(t)
	ctx := context.Background()

	m.incidents.EXPECT().FindActiveByCaller(ctx, "Alice").Return(nil, nil)

	incident, err := service.GetActiveIncident(ctx, "Alice")

	require.NoError(t, err)
	assert.Nil(t, incident)
}

func TestUpdateChatGroup_UnknownIncident(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания
	m.incidents.EXPECT().
		GetByID(ctx, "IGhost").
		Return(nil, fmt.Errorf("repository: %w", models.ErrNotFound)).
		Times(1)

	// Действие
	incident, err := service.UpdateChatGroup(ctx, "IGhost", uuid.New())

	// Проверки
	require.NoError(t, err)
	assert.Nil(t, incident)
}

func TestUpdateChatGroup_Success(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	stored := models.NewIncident("Alice")
	channelID := uuid.New()

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil)
	m.incidents.EXPECT().Update(ctx, stored).Return(nil)
	m.incidents.EXPECT().InvalidateIncidentCache(ctx, "IAlice").Return(nil)

	// Действие
	incident, err := service.UpdateChatGroup(ctx, "IAlice", channelID)

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, incident.IncidentCallGroup)
	assert.Equal(t, channelID, *incident.IncidentCallGroup)
}

func TestUpdateIncident_MissingID(t *testing.T) {
	service, _ := newTestIncidentService(t)

	incident, err := service.UpdateIncident(context.Background(), models.IncidentPatch{})

	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, models.ErrIncidentIDRequired)
}

func TestUpdateIncident_NotFound(t *testing.T) {
	service, m := newTestIncidentService(t)
	ctx := context.Background()

	m.incidents.EXPECT().GetByID(ctx, "IGhost").Return(nil, models.ErrNotFound)

	incident, err := service.UpdateIncident(ctx, models.IncidentPatch{IncidentID: "IGhost"})

	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateIncident_BackwardTransitionRejected(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	stored := models.NewIncident("Alice")
	stored.IncidentState = models.StateTriage
	waiting := models.StateWaiting

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil)

	// Действие
	incident, err := service.UpdateIncident(ctx, models.IncidentPatch{IncidentID: "IAlice", IncidentState: &waiting})

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, models.ErrInvalidStateTransition)
}

func TestUpdateIncident_Scalars(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	stored := models.NewIncident("Alice")
	triage := models.StateTriage
	dispatcher := "D1"
	address := "Main st. 1"

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil)
	m.incidents.EXPECT().Update(ctx, stored).Return(nil)
	m.incidents.EXPECT().InvalidateIncidentCache(ctx, "IAlice").Return(nil)

	// Действие
	incident, err := service.UpdateIncident(ctx, models.IncidentPatch{
		IncidentID:    "IAlice",
		IncidentState: &triage,
		Owner:         &dispatcher,
		Commander:     &dispatcher,
		Address:       &address,
	})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StateTriage, incident.IncidentState)
	assert.Equal(t, "D1", incident.Owner)
	assert.Equal(t, "D1", incident.Commander)
	assert.Equal(t, "Main st. 1", incident.Address)
}

func TestUpdateIncident_ClosedIsFinal(t *testing.T) {
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	stored := models.NewIncident("Alice")
	stored.IncidentState = models.StateClosed
	address := "Elsewhere"

	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil)

	incident, err := service.UpdateIncident(ctx, models.IncidentPatch{IncidentID: "IAlice", Address: &address})

	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, models.ErrIncidentClosed)
}

func TestUpdateVehicleHistory_VehicleBusyOnOtherIncident(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	stored := models.NewIncident("Alice")
	stored.IncidentState = models.StateAssigned
	busy := &models.Vehicle{Type: models.VehicleCar, Name: "C1", AssignedIncident: models.AssignedTo("IBob")}

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil)
	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(busy, nil)

	// Действие
	incident, err := service.UpdateVehicleHistory(ctx, "IAlice", []models.AssignedVehicle{
		{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1"}},
	})

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, models.ErrVehicleAlreadyAssigned)
	assert.Equal(t, models.AssignedTo("IBob"), busy.AssignedIncident)
}

func TestUpdateVehicleHistory_InvalidType(t *testing.T) {
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	stored := models.NewIncident("Alice")

	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil)

	_, err := service.UpdateVehicleHistory(ctx, "IAlice", []models.AssignedVehicle{{Type: "Bike", Name: "B1"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrVehicleTypeMismatch)
}

func TestUpdateVehicleHistory_AssignsVehicleAndCreatesRespondersGroup(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	stored := models.NewIncident("Alice")
	stored.IncidentState = models.StateAssigned
	stored.Commander = "P1"
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1"}, AssignedIncident: models.Available()}
	p1 := newUser("P1", models.RolePolice)
	groupID := uuid.New()

	// Ожидания
	// 1. Сохранение списка машин
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil).Times(2)
	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)
	m.vehicles.EXPECT().Update(ctx, car).Return(nil)
	m.incidents.EXPECT().Update(ctx, stored).Return(nil).Times(2)
	m.incidents.EXPECT().InvalidateIncidentCache(ctx, "IAlice").Return(nil).Times(2)

	// 2. Уведомление экипажа и вебхук
	m.users.EXPECT().GetByUsername(ctx, "P1").Return(p1, nil).Times(2)
	m.connections.EXPECT().GetUserConnection(p1.ID.String()).Return(nil, false)
	m.publisher.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event webhook.IncidentEvent) error {
			assert.Equal(t, webhook.EventIncidentVehiclesChanged, event.Type)
			return nil
		})

	// 3. Создание группы экипажей
	m.channels.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, channel *models.Channel) error {
			assert.Equal(t, "IAlice_Resp", channel.Name)
			assert.Equal(t, "P1", channel.Owner)
			assert.Equal(t, []string{p1.ID.String()}, channel.UserIDs)
			channel.ID = groupID
			return nil
		})

	// Действие
	incident, err := service.UpdateVehicleHistory(ctx, "IAlice", []models.AssignedVehicle{
		{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1"}},
		{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1"}},
	})

	// Проверки
	require.NoError(t, err)
	require.Len(t, incident.AssignedVehicles, 1)
	require.Len(t, incident.AssignHistory, 1)
	assert.True(t, incident.AssignHistory[0].IsAssign)
	assert.Equal(t, testNow, incident.AssignHistory[0].Timestamp)
	assert.Equal(t, []string{"P1"}, incident.AssignHistory[0].Usernames)
	require.NotNil(t, incident.RespondersGroup)
	assert.Equal(t, groupID, *incident.RespondersGroup)
	assert.Equal(t, models.AssignedTo("IAlice"), car.AssignedIncident)
}

func TestUpdateVehicleHistory_GroupFailureKeepsAssignment(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	stored := models.NewIncident("Alice")
	stored.IncidentState = models.StateAssigned
	stored.Commander = "D1"
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1"}, AssignedIncident: models.Available()}
	p1 := newUser("P1", models.RolePolice)

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil).Times(2)
	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)
	m.vehicles.EXPECT().Update(ctx, car).Return(nil)
	m.incidents.EXPECT().Update(ctx, stored).Return(nil)
	m.incidents.EXPECT().InvalidateIncidentCache(ctx, "IAlice").Return(nil)
	m.users.EXPECT().GetByUsername(ctx, "P1").Return(p1, nil)
	m.connections.EXPECT().GetUserConnection(p1.ID.String()).Return(nil, false)
	m.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	// Действие
	incident, err := service.UpdateVehicleHistory(ctx, "IAlice", []models.AssignedVehicle{
		{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1"}},
	})

	// Проверки
	require.NoError(t, err)
	assert.Len(t, incident.AssignedVehicles, 1)
	assert.Nil(t, incident.RespondersGroup)
	assert.Equal(t, models.AssignedTo("IAlice"), car.AssignedIncident)
}

func TestUpdateVehicleHistory_RemovedVehicleIsReleased(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	stored := models.NewIncident("Alice")
	stored.IncidentState = models.StateAssigned
	stored.AssignedVehicles = []models.AssignedVehicle{{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1"}}}
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1"}, AssignedIncident: models.AssignedTo("IAlice")}

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil).Times(2)
	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)
	m.vehicles.EXPECT().Update(ctx, car).Return(nil)
	m.incidents.EXPECT().Update(ctx, stored).Return(nil)
	m.incidents.EXPECT().InvalidateIncidentCache(ctx, "IAlice").Return(nil)
	m.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	// Действие
	incident, err := service.UpdateVehicleHistory(ctx, "IAlice", []models.AssignedVehicle{})

	// Проверки
	require.NoError(t, err)
	assert.Empty(t, incident.AssignedVehicles)
	require.Len(t, incident.AssignHistory, 1)
	assert.False(t, incident.AssignHistory[0].IsAssign)
	assert.Equal(t, "C1", incident.AssignHistory[0].Name)
	assert.True(t, car.AssignedIncident.IsAvailable())
}

func TestCreateOrUpdateRespondersGroup_CommanderNotOnVehicle(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	stored := models.NewIncident("Alice")
	stored.Commander = "D1"
	stored.AssignedVehicles = []models.AssignedVehicle{{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1"}}}

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil)

	// Действие
	incident, err := service.CreateOrUpdateRespondersGroup(ctx, "IAlice")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, models.ErrCommanderNotOnVehicle)
	assert.ErrorContains(t, err, "Commander must be present on one of the vehicles")
}

func TestCreateOrUpdateRespondersGroup_NoVehicles(t *testing.T) {
	service, m := newTestIncidentService(t)
	ctx := context.Background()

	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(models.NewIncident("Alice"), nil)

	_, err := service.CreateOrUpdateRespondersGroup(ctx, "IAlice")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoAssignedVehicles)
}

func TestCreateOrUpdateRespondersGroup_UpdatesExistingGroup(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	groupID := uuid.New()
	stored := models.NewIncident("Alice")
	stored.Commander = "P1"
	stored.RespondersGroup = &groupID
	stored.AssignedVehicles = []models.AssignedVehicle{
		{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1", "Ghost"}},
		{Type: models.VehicleTruck, Name: "T1", Usernames: []string{"F1", "P1"}},
	}
	p1 := newUser("P1", models.RolePolice)
	f1 := newUser("F1", models.RoleFire)

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil)
	m.users.EXPECT().GetByUsername(ctx, "P1").Return(p1, nil)
	m.users.EXPECT().GetByUsername(ctx, "Ghost").Return(nil, models.ErrNotFound)
	m.users.EXPECT().GetByUsername(ctx, "F1").Return(f1, nil)
	m.channels.EXPECT().UpdateUsers(ctx, groupID, []string{p1.ID.String(), f1.ID.String()}).Return(nil)
	m.incidents.EXPECT().InvalidateIncidentCache(ctx, "IAlice").Return(nil)

	// Действие
	incident, err := service.CreateOrUpdateRespondersGroup(ctx, "IAlice")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, &groupID, incident.RespondersGroup)
}

func TestCloseIncident_ReleasesVehiclesAndChannels(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	callGroup, respGroup := uuid.New(), uuid.New()
	stored := models.NewIncident("Alice")
	stored.IncidentState = models.StateAssigned
	stored.IncidentCallGroup = &callGroup
	stored.RespondersGroup = &respGroup
	stored.AssignedVehicles = []models.AssignedVehicle{{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1"}}}
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1"}, AssignedIncident: models.AssignedTo("IAlice")}
	p1 := newUser("P1", models.RolePolice)
	conn := presence_mocks.NewMockConnection(gomock.NewController(t))

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil)
	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)
	m.vehicles.EXPECT().Update(ctx, car).Return(nil)
	m.channels.EXPECT().Close(ctx, callGroup).Return(nil)
	m.channels.EXPECT().Close(ctx, respGroup).Return(nil)
	m.incidents.EXPECT().Update(ctx, stored).Return(nil)
	m.incidents.EXPECT().InvalidateIncidentCache(ctx, "IAlice").Return(nil)
	m.users.EXPECT().GetByUsername(ctx, "P1").Return(p1, nil)
	m.connections.EXPECT().GetUserConnection(p1.ID.String()).Return(conn, true)
	conn.EXPECT().Emit(presence.EventIncidentClosed, incidentPayload{IncidentID: "IAlice"}).Return(nil)
	m.publisher.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event webhook.IncidentEvent) error {
			assert.Equal(t, webhook.EventIncidentClosed, event.Type)
			assert.Equal(t, models.StateClosed, event.State)
			return nil
		})

	// Действие
	incident, err := service.CloseIncident(ctx, "IAlice")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StateClosed, incident.IncidentState)
	require.NotNil(t, incident.ClosingDate)
	assert.Equal(t, testNow, *incident.ClosingDate)
	assert.Empty(t, incident.AssignedVehicles)
	assert.Nil(t, incident.IncidentCallGroup)
	assert.Nil(t, incident.RespondersGroup)
	require.Len(t, incident.AssignHistory, 1)
	assert.False(t, incident.AssignHistory[0].IsAssign)
	assert.True(t, car.AssignedIncident.IsAvailable())
}

func TestCloseIncident_AlreadyClosed(t *testing.T) {
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	stored := models.NewIncident("Alice")
	stored.IncidentState = models.StateClosed

	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil)

	incident, err := service.CloseIncident(ctx, "IAlice")

	require.NoError(t, err)
	assert.Equal(t, stored, incident)
}

func TestAddVehicleToIncident_NoCommandingIncident(t *testing.T) {
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", AssignedIncident: models.Available()}

	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)

	incident, err := service.AddVehicleToIncident(ctx, "P1", "", models.VehicleCar, "C1")

	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAddVehicleToIncident_PersonnelOnOtherIncident(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", AssignedIncident: models.Available()}
	commanding := models.NewIncident("Alice")
	commanding.IncidentState = models.StateAssigned

	// Ожидания
	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(commanding, nil)
	m.incidents.EXPECT().FindActiveByResponder(ctx, "P2").Return([]*models.Incident{models.NewIncident("Bob")}, nil)

	// Действие
	incident, err := service.AddVehicleToIncident(ctx, "P2", "IAlice", models.VehicleCar, "C1")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, models.ErrPersonnelAlreadyAssigned)
	assert.True(t, car.AssignedIncident.IsAvailable())
}

func TestAddVehicleToIncident_ClosedIncident(t *testing.T) {
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", AssignedIncident: models.Available()}
	closed := models.NewIncident("Alice")
	closed.IncidentState = models.StateClosed

	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(closed, nil)

	_, err := service.AddVehicleToIncident(ctx, "P1", "IAlice", models.VehicleCar, "C1")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrIncidentClosed)
}

func TestAddVehicleToIncident_AddsToCommandingIncident(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1"}, AssignedIncident: models.Available()}
	commanding := models.NewIncident("Alice")
	commanding.IncidentState = models.StateAssigned
	commanding.Commander = "P1"

	// Ожидания
	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(commanding, nil)
	m.incidents.EXPECT().FindActiveByResponder(ctx, "P1").Return(nil, nil)
	m.vehicles.EXPECT().Update(ctx, car).Return(nil)
	m.incidents.EXPECT().Update(ctx, commanding).Return(nil)
	m.incidents.EXPECT().InvalidateIncidentCache(ctx, "IAlice").Return(nil)
	m.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	// Действие
	incident, err := service.AddVehicleToIncident(ctx, "P1", "IAlice", models.VehicleCar, "C1")

	// Проверки
	require.NoError(t, err)
	require.Len(t, incident.AssignedVehicles, 1)
	assert.Equal(t, []string{"P1"}, incident.AssignedVehicles[0].Usernames)
	require.Len(t, incident.AssignHistory, 1)
	assert.True(t, incident.AssignHistory[0].IsAssign)
	assert.Equal(t, models.AssignedTo("IAlice"), car.AssignedIncident)
}

func TestAddVehicleToIncident_JoinsVehicleAlreadyOnIncident(t *testing.T) {
	// Подготовка
	service, m := newTestIncidentService(t)
	ctx := context.Background()
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1", "P2"}, AssignedIncident: models.AssignedTo("IAlice")}
	stored := models.NewIncident("Alice")
	stored.IncidentState = models.StateAssigned
	stored.AssignedVehicles = []models.AssignedVehicle{{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1"}}}
	p2 := newUser("P2", models.RolePolice)

	// Ожидания
	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)
	m.incidents.EXPECT().FindActiveByResponder(ctx, "P2").Return(nil, nil)
	m.incidents.EXPECT().GetByID(ctx, "IAlice").Return(stored, nil)
	m.incidents.EXPECT().Update(ctx, stored).Return(nil)
	m.incidents.EXPECT().InvalidateIncidentCache(ctx, "IAlice").Return(nil)
	m.users.EXPECT().GetByUsername(ctx, "P2").Return(p2, nil)
	m.connections.EXPECT().GetUserConnection(p2.ID.String()).Return(nil, false)

	// Действие
	incident, err := service.AddVehicleToIncident(ctx, "P2", "", models.VehicleCar, "C1")

	// Проверки
	require.NoError(t, err)
	require.Len(t, incident.AssignedVehicles, 1)
	assert.Equal(t, []string{"P1", "P2"}, incident.AssignedVehicles[0].Usernames)
	assert.Empty(t, incident.AssignHistory)
}
