package service

import (
	"context"
	"errors"

	"github.com/shenikar/emergency_response_system/internal/models"
)

// roster снимает сотрудника с машины и из экипажей инцидентов
type roster struct {
	vehicles  VehicleRepository
	incidents IncidentRepository
	users     UserRepository
}

// detach убирает пользователя из экипажа его машины и из всех записей машин
// незакрытых инцидентов, затем очищает закреплённую машину. Вызывается внутри транзакции.
func (r roster) detach(ctx context.Context, user *models.User, out *outbox) error {
	if vehicleType, name, ok := user.AssignedVehicle(); ok {
		vehicle, err := r.vehicles.GetByName(ctx, vehicleType, name)
		switch {
		case err == nil:
			vehicle.RemoveUsername(user.Username)
			if err := r.vehicles.Update(ctx, vehicle); err != nil {
				return err
			}
		case !errors.Is(err, models.ErrNotFound):
			return err
		}
	}

	active, err := r.incidents.FindActiveByResponder(ctx, user.Username)
	if err != nil {
		return err
	}
	for _, incident := range active {
		for i := range incident.AssignedVehicles {
			entry := &incident.AssignedVehicles[i]
			if entry.HasUsername(user.Username) {
				entry.Usernames = models.RemoveString(entry.Usernames, user.Username)
			}
		}
		if err := r.incidents.Update(ctx, incident); err != nil {
			return err
		}
		out.touch(incident.IncidentID)
	}

	user.ClearAssignedVehicle()
	return r.users.Update(ctx, user)
}
