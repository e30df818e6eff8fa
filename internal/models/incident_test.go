package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIncidentState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from IncidentState
		to   IncidentState
		want bool
	}{
		{"waiting to triage", StateWaiting, StateTriage, true},
		{"waiting to closed", StateWaiting, StateClosed, true},
		{"same state", StateTriage, StateTriage, true},
		{"assigned back to triage", StateAssigned, StateTriage, false},
		{"triage back to waiting", StateTriage, StateWaiting, false},
		{"closed stays closed", StateClosed, StateClosed, true},
		{"closed reopened", StateClosed, StateWaiting, false},
		{"unknown target", StateWaiting, IncidentState("Done"), false},
		{"unknown source", IncidentState(""), StateTriage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewIncident_Defaults(t *testing.T) {
	incident := NewIncident("Alice")

	assert.Equal(t, "IAlice", incident.IncidentID)
	assert.Equal(t, "Alice", incident.Caller)
	assert.Equal(t, StateWaiting, incident.IncidentState)
	assert.Equal(t, SystemUser, incident.Owner)
	assert.Equal(t, SystemUser, incident.Commander)
	assert.Equal(t, IncidentTypeUnset, incident.Type)
	assert.Equal(t, PriorityImmediate, incident.Priority)
	assert.NotNil(t, incident.AssignedVehicles)
	assert.NotNil(t, incident.AssignHistory)
	assert.Nil(t, incident.ClosingDate)
}

func TestIncident_FindVehicleAndResponder(t *testing.T) {
	incident := NewIncident("Alice")
	incident.AssignedVehicles = []AssignedVehicle{
		{Type: VehicleCar, Name: "C1", Usernames: []string{"P1"}},
		{Type: VehicleTruck, Name: "C1", Usernames: []string{"F1"}},
	}

	assert.Equal(t, 0, incident.FindVehicle(VehicleCar, "C1"))
	assert.Equal(t, 1, incident.FindVehicle(VehicleTruck, "C1"))
	assert.Equal(t, -1, incident.FindVehicle(VehicleCar, "C2"))
	assert.True(t, incident.HasResponder("F1"))
	assert.False(t, incident.HasResponder("D1"))
}

func TestIncident_RecordAssignmentCopiesCrew(t *testing.T) {
	incident := NewIncident("Alice")
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	vehicle := AssignedVehicle{Type: VehicleCar, Name: "C1", Usernames: []string{"P1"}}

	incident.RecordAssignment(vehicle, true, at)
	vehicle.Usernames[0] = "P2"

	assert.Len(t, incident.AssignHistory, 1)
	entry := incident.AssignHistory[0]
	assert.Equal(t, []string{"P1"}, entry.Usernames)
	assert.True(t, entry.IsAssign)
	assert.Equal(t, at, entry.Timestamp)
	assert.Equal(t, VehicleCar, entry.Type)
}

func TestIncidentPatch_ApplyScalars(t *testing.T) {
	incident := NewIncident("Alice")
	address := "Main st. 1"
	priority := PriorityTwo
	state := StateClosed

	IncidentPatch{Address: &address, Priority: &priority, IncidentState: &state}.ApplyScalars(incident)

	assert.Equal(t, address, incident.Address)
	assert.Equal(t, PriorityTwo, incident.Priority)
	assert.Equal(t, SystemUser, incident.Owner)
	// состояние меняется только через переход
	assert.Equal(t, StateWaiting, incident.IncidentState)
}

func TestRespondersGroupName(t *testing.T) {
	assert.Equal(t, "IAlice_Resp", RespondersGroupName("IAlice"))
}
