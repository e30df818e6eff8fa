package service

import (
	"context"
	"testing"
	"time"

	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/presence"
	presence_mocks "github.com/shenikar/emergency_response_system/internal/presence/mocks"
	"github.com/shenikar/emergency_response_system/internal/service/mocks"
	"github.com/shenikar/emergency_response_system/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestPersonnelService(t *testing.T) (*personnelService, *repoMocks, *mocks.MockIncidentService) {
	ctrl, m := newRepoMocks(t)
	coordinator := mocks.NewMockIncidentService(ctrl)
	service := NewPersonnelService(m.users, m.vehicles, m.incidents, m.cities, coordinator, m.tx, m.connections, m.publisher, newTestLogger())
	s := service.(*personnelService)
	s.now = func() time.Time { return testNow }
	return s, m, coordinator
}

func TestSelectVehicle_NotFirstResponder(t *testing.T) {
	service, m, _ := newTestPersonnelService(t)
	ctx := context.Background()

	m.users.EXPECT().GetByUsername(ctx, "D1").Return(newUser("D1", models.RoleDispatcher), nil)

	selection, err := service.SelectVehicle(ctx, "D1", "", models.VehicleCar, "C1")

	require.Error(t, err)
	assert.Nil(t, selection)
	assert.ErrorIs(t, err, models.ErrNotFirstResponder)
}

func TestSelectVehicle_WrongVehicleType(t *testing.T) {
	service, m, _ := newTestPersonnelService(t)
	ctx := context.Background()

	m.users.EXPECT().GetByUsername(ctx, "P1").Return(newUser("P1", models.RolePolice), nil)

	_, err := service.SelectVehicle(ctx, "P1", "", models.VehicleTruck, "T1")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrVehicleTypeMismatch)
}

func TestSelectVehicle_AlreadyHoldsAnotherVehicle(t *testing.T) {
	service, m, _ := newTestPersonnelService(t)
	ctx := context.Background()
	p1 := newUser("P1", models.RolePolice)
	p1.SetAssignedVehicle(models.VehicleCar, "C9", testNow)

	m.users.EXPECT().GetByUsername(ctx, "P1").Return(p1, nil)

	_, err := service.SelectVehicle(ctx, "P1", "", models.VehicleCar, "C1")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrPersonnelAlreadyAssigned)
}

func TestSelectVehicle_AvailableVehicle(t *testing.T) {
	// Подготовка
	service, m, _ := newTestPersonnelService(t)
	ctx := context.Background()
	p1 := newUser("P1", models.RolePolice)
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", Usernames: []string{}, AssignedIncident: models.Available()}

	// Ожидания
	m.users.EXPECT().GetByUsername(ctx, "P1").Return(p1, nil)
	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)
	m.vehicles.EXPECT().Update(ctx, car).Return(nil)
	m.users.EXPECT().Update(ctx, p1).Return(nil)

	// Действие
	selection, err := service.SelectVehicle(ctx, "P1", "", models.VehicleCar, "C1")

	// Проверки
	require.NoError(t, err)
	assert.Nil(t, selection.Incident)
	assert.Equal(t, "C1", selection.User.AssignedCar)
	require.NotNil(t, selection.User.AssignedVehicleTimestamp)
	assert.Equal(t, testNow, *selection.User.AssignedVehicleTimestamp)
	assert.Equal(t, []string{"P1"}, car.Usernames)
}

func TestSelectVehicle_JoinsCommandingIncident(t *testing.T) {
	// Подготовка
	service, m, coordinator := newTestPersonnelService(t)
	ctx := context.Background()
	p1 := newUser("P1", models.RolePolice)
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", Usernames: []string{}, AssignedIncident: models.Available()}
	incident := models.NewIncident("Alice")
	incident.Commander = "P1"

	// Ожидания
	m.users.EXPECT().GetByUsername(ctx, "P1").Return(p1, nil)
	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)
	m.vehicles.EXPECT().Update(ctx, car).Return(nil)
	m.users.EXPECT().Update(ctx, p1).Return(nil)
	coordinator.EXPECT().
		AddVehicleToIncident(ctx, "P1", "IAlice", models.VehicleCar, "C1").
		Return(incident, nil)

	// Действие
	selection, err := service.SelectVehicle(ctx, "P1", "IAlice", models.VehicleCar, "C1")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, incident, selection.Incident)
	assert.Equal(t, p1, selection.User)
}

func TestReleaseVehicle_DetachesFromVehicleAndIncidents(t *testing.T) {
	// Подготовка
	service, m, _ := newTestPersonnelService(t)
	ctx := context.Background()
	p1 := newUser("P1", models.RolePolice)
	p1.SetAssignedVehicle(models.VehicleCar, "C1", testNow)
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1", "P2"}, AssignedIncident: models.AssignedTo("IAlice")}
	incident := models.NewIncident("Alice")
	incident.AssignedVehicles = []models.AssignedVehicle{{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1", "P2"}}}

	// Ожидания
	m.users.EXPECT().GetByUsername(ctx, "P1").Return(p1, nil)
	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)
	m.vehicles.EXPECT().Update(ctx, car).Return(nil)
	m.incidents.EXPECT().FindActiveByResponder(ctx, "P1").Return([]*models.Incident{incident}, nil)
	m.incidents.EXPECT().Update(ctx, incident).Return(nil)
	m.users.EXPECT().Update(ctx, p1).Return(nil)
	m.incidents.EXPECT().InvalidateIncidentCache(ctx, "IAlice").Return(nil)

	// Действие
	user, err := service.ReleaseVehicle(ctx, "P1")

	// Проверки
	require.NoError(t, err)
	assert.Empty(t, user.AssignedCar)
	assert.Nil(t, user.AssignedVehicleTimestamp)
	assert.Equal(t, []string{"P2"}, car.Usernames)
	assert.Equal(t, []string{"P2"}, incident.AssignedVehicles[0].Usernames)
	// машина остаётся на инциденте
	assert.False(t, car.AssignedIncident.IsAvailable())
}

func TestAssignCity_UnknownCity(t *testing.T) {
	service, m, _ := newTestPersonnelService(t)
	ctx := context.Background()

	m.cities.EXPECT().Exists(ctx, "Atlantis").Return(false, nil)

	user, err := service.AssignCity(ctx, "P1", "Atlantis")

	require.Error(t, err)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAssignCity_EmptyCityClearsAssignment(t *testing.T) {
	service, m, _ := newTestPersonnelService(t)
	ctx := context.Background()
	p1 := newUser("P1", models.RolePolice)
	p1.AssignedCity = "Springfield"

	m.users.EXPECT().GetByUsername(ctx, "P1").Return(p1, nil)
	m.users.EXPECT().Update(ctx, p1).Return(nil)

	user, err := service.AssignCity(ctx, "P1", " ")

	require.NoError(t, err)
	assert.Empty(t, user.AssignedCity)
}

func TestListPersonnel_FiltersByCity(t *testing.T) {
	service, m, _ := newTestPersonnelService(t)
	ctx := context.Background()
	crew := []*models.User{newUser("P1", models.RolePolice), newUser("F1", models.RoleFire)}

	m.users.EXPECT().ListByRoles(ctx, []models.Role{models.RolePolice, models.RoleFire}, "Springfield").Return(crew, nil)

	personnel, err := service.ListPersonnel(ctx, "Springfield")

	require.NoError(t, err)
	assert.Equal(t, crew, personnel)
}

func TestPersonnelNotifier_DeliversThroughConnectionsAndPublisher(t *testing.T) {
	// Подготовка
	service, m, _ := newTestPersonnelService(t)
	ctx := context.Background()
	p1 := newUser("P1", models.RolePolice)
	conn := presence_mocks.NewMockConnection(gomock.NewController(t))
	incident := models.NewIncident("Alice")
	payload := incidentPayload{IncidentID: "IAlice"}

	out := &outbox{}
	out.touch("IAlice")
	out.notify([]string{"P1"}, presence.EventJoinNewIncident, payload)
	out.publish(webhook.EventIncidentVehiclesChanged, incident)

	// Ожидания
	m.incidents.EXPECT().InvalidateIncidentCache(ctx, "IAlice").Return(nil)
	m.users.EXPECT().GetByUsername(ctx, "P1").Return(p1, nil)
	m.connections.EXPECT().GetUserConnection(p1.ID.String()).Return(conn, true)
	conn.EXPECT().Emit(presence.EventJoinNewIncident, payload).Return(nil).Times(1)
	m.publisher.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event webhook.IncidentEvent) error {
			assert.Equal(t, webhook.EventIncidentVehiclesChanged, event.Type)
			assert.Equal(t, "IAlice", event.IncidentID)
			return nil
		})

	// Действие
	service.notifier.flush(ctx, out)
}
