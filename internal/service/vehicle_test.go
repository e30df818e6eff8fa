package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestVehicleService(t *testing.T) (*vehicleService, *repoMocks) {
	_, m := newRepoMocks(t)
	service := NewVehicleService(m.vehicles, m.users, m.tx, newTestLogger())
	return service.(*vehicleService), m
}

func TestCreateVehicle_Success(t *testing.T) {
	// Подготовка
	service, m := newTestVehicleService(t)
	ctx := context.Background()

	// Ожидания
	m.vehicles.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, v *models.Vehicle) error {
			assert.Equal(t, "C1", v.Name)
			assert.True(t, v.AssignedIncident.IsAvailable())
			return nil
		})

	// Действие
	vehicle, err := service.CreateVehicle(ctx, models.VehicleCar, "  C1 ")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.VehicleCar, vehicle.Type)
	assert.Equal(t, "C1", vehicle.Name)
	assert.Empty(t, vehicle.Usernames)
}

func TestCreateVehicle_NameRequired(t *testing.T) {
	service, _ := newTestVehicleService(t)

	vehicle, err := service.CreateVehicle(context.Background(), models.VehicleTruck, "   ")

	require.Error(t, err)
	assert.Nil(t, vehicle)
	assert.ErrorIs(t, err, models.ErrNameRequired)
	assert.ErrorContains(t, err, "name is required")
}

func TestCreateVehicle_InvalidType(t *testing.T) {
	service, _ := newTestVehicleService(t)

	_, err := service.CreateVehicle(context.Background(), "Bike", "B1")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrVehicleTypeMismatch)
}

func TestCreateVehicle_Duplicate(t *testing.T) {
	service, m := newTestVehicleService(t)
	ctx := context.Background()

	m.vehicles.EXPECT().Create(ctx, gomock.Any()).Return(fmt.Errorf("repository: %w", models.ErrAlreadyExists))

	vehicle, err := service.CreateVehicle(ctx, models.VehicleCar, "C1")

	require.Error(t, err)
	assert.Nil(t, vehicle)
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestListVehicles_SortedByName(t *testing.T) {
	// Подготовка
	service, m := newTestVehicleService(t)
	ctx := context.Background()

	// Ожидания
	m.vehicles.EXPECT().List(ctx, models.VehicleCar).Return([]*models.Vehicle{
		{Type: models.VehicleCar, Name: "C3"},
		{Type: models.VehicleCar, Name: "C1"},
		{Type: models.VehicleCar, Name: "C2"},
	}, nil)

	// Действие
	vehicles, err := service.ListVehicles(ctx, models.VehicleCar)

	// Проверки
	require.NoError(t, err)
	require.Len(t, vehicles, 3)
	assert.Equal(t, "C1", vehicles[0].Name)
	assert.Equal(t, "C2", vehicles[1].Name)
	assert.Equal(t, "C3", vehicles[2].Name)
}

func TestListAvailableWithResponder(t *testing.T) {
	// Подготовка
	service, m := newTestVehicleService(t)
	ctx := context.Background()

	// Ожидания
	m.vehicles.EXPECT().List(ctx, models.VehicleTruck).Return([]*models.Vehicle{
		{Type: models.VehicleTruck, Name: "T4", Usernames: []string{"F2"}, AssignedIncident: models.AssignedTo("IAlice")},
		{Type: models.VehicleTruck, Name: "T3", Usernames: []string{}},
		{Type: models.VehicleTruck, Name: "T2", Usernames: []string{"F1"}},
		{Type: models.VehicleTruck, Name: "T1", Usernames: []string{"F3"}},
	}, nil)

	// Действие
	vehicles, err := service.ListAvailableWithResponder(ctx, models.VehicleTruck)

	// Проверки
	require.NoError(t, err)
	require.Len(t, vehicles, 2)
	assert.Equal(t, "T1", vehicles[0].Name)
	assert.Equal(t, "T2", vehicles[1].Name)
}

func TestRemoveVehicle_AssignedVehicleRejected(t *testing.T) {
	service, m := newTestVehicleService(t)
	ctx := context.Background()
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", AssignedIncident: models.AssignedTo("IAlice")}

	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)

	err := service.RemoveVehicle(ctx, models.VehicleCar, "C1")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrVehicleAlreadyAssigned)
}

func TestRemoveVehicle_ClearsCrew(t *testing.T) {
	// Подготовка
	service, m := newTestVehicleService(t)
	ctx := context.Background()
	car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", Usernames: []string{"P1", "Ghost"}, AssignedIncident: models.Available()}
	p1 := newUser("P1", models.RolePolice)
	p1.SetAssignedVehicle(models.VehicleCar, "C1", testNow)

	// Ожидания
	m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)
	m.users.EXPECT().GetByUsername(ctx, "P1").Return(p1, nil)
	m.users.EXPECT().GetByUsername(ctx, "Ghost").Return(nil, models.ErrNotFound)
	m.users.EXPECT().Update(ctx, p1).Return(nil)
	m.vehicles.EXPECT().Delete(ctx, models.VehicleCar, "C1").Return(nil)

	// Действие
	err := service.RemoveVehicle(ctx, models.VehicleCar, "C1")

	// Проверки
	require.NoError(t, err)
	assert.Empty(t, p1.AssignedCar)
	assert.Nil(t, p1.AssignedVehicleTimestamp)
}
