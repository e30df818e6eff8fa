package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shenikar/emergency_response_system/internal/metrics"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseVehicle_CountsOnlyActualRelease(t *testing.T) {
	_, m := newRepoMocks(t)
	ctx := context.Background()
	released := metrics.VehicleAssignments.WithLabelValues(metrics.ActionRelease)

	t.Run("vehicle on another incident", func(t *testing.T) {
		car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", AssignedIncident: models.AssignedTo("IBob")}
		before := testutil.ToFloat64(released)

		m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)

		err := releaseVehicle(ctx, m.vehicles, "IAlice", models.VehicleCar, "C1")

		require.NoError(t, err)
		assert.Equal(t, models.AssignedTo("IBob"), car.AssignedIncident)
		assert.Equal(t, before, testutil.ToFloat64(released))
	})

	t.Run("vehicle on this incident", func(t *testing.T) {
		car := &models.Vehicle{Type: models.VehicleCar, Name: "C1", AssignedIncident: models.AssignedTo("IAlice")}
		before := testutil.ToFloat64(released)

		m.vehicles.EXPECT().GetByName(ctx, models.VehicleCar, "C1").Return(car, nil)
		m.vehicles.EXPECT().Update(ctx, car).Return(nil)

		err := releaseVehicle(ctx, m.vehicles, "IAlice", models.VehicleCar, "C1")

		require.NoError(t, err)
		assert.True(t, car.AssignedIncident.IsAvailable())
		assert.Equal(t, before+1, testutil.ToFloat64(released))
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		before := testutil.ToFloat64(released)

		m.vehicles.EXPECT().GetByName(ctx, models.VehicleTruck, "T9").Return(nil, models.ErrNotFound)

		err := releaseVehicle(ctx, m.vehicles, "IAlice", models.VehicleTruck, "T9")

		require.NoError(t, err)
		assert.Equal(t, before, testutil.ToFloat64(released))
	})
}
