package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncidentAssignment_JSON(t *testing.T) {
	data, err := json.Marshal(Vehicle{Type: VehicleCar, Name: "C1", AssignedIncident: Available()})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"assignedIncident":null`)

	data, err = json.Marshal(Vehicle{Type: VehicleCar, Name: "C1", AssignedIncident: AssignedTo("IAlice")})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"assignedIncident":"IAlice"`)

	var v Vehicle
	require.NoError(t, json.Unmarshal([]byte(`{"name":"C1","assignedIncident":"IBob"}`), &v))
	id, ok := v.AssignedIncident.IncidentID()
	assert.True(t, ok)
	assert.Equal(t, "IBob", id)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"C1","assignedIncident":null}`), &v))
	assert.True(t, v.AssignedIncident.IsAvailable())

	assert.Error(t, json.Unmarshal([]byte(`{"assignedIncident":42}`), &v))
}

func TestIncidentAssignment_ScanValue(t *testing.T) {
	value, err := Available().Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = AssignedTo("IAlice").Value()
	require.NoError(t, err)
	assert.Equal(t, "IAlice", value)

	var a IncidentAssignment
	require.NoError(t, a.Scan(nil))
	assert.True(t, a.IsAvailable())

	require.NoError(t, a.Scan([]byte("IBob")))
	assert.Equal(t, AssignedTo("IBob"), a)

	require.NoError(t, a.Scan("ICarol"))
	assert.Equal(t, "assigned:ICarol", a.String())

	assert.Error(t, a.Scan(42))
}

func TestVehicle_Crew(t *testing.T) {
	v := &Vehicle{Type: VehicleTruck, Name: "T1"}

	v.AddUsername("F1")
	v.AddUsername("F2")
	v.AddUsername("F1")
	assert.Equal(t, []string{"F1", "F2"}, v.Usernames)

	v.RemoveUsername("F1")
	assert.Equal(t, []string{"F2"}, v.Usernames)
	assert.Equal(t, "Truck::T1", v.Key())
}

func TestMergeUsernames(t *testing.T) {
	merged := MergeUsernames([]string{"P1", "P2"}, nil, []string{"P2", "F1", "P1"})

	assert.Equal(t, []string{"P1", "P2", "F1"}, merged)
	assert.NotNil(t, MergeUsernames())
}

func TestRole_VehicleType(t *testing.T) {
	tests := []struct {
		role    Role
		want    VehicleType
		wantOK  bool
		isFirst bool
	}{
		{RolePolice, VehicleCar, true, true},
		{RoleFire, VehicleTruck, true, true},
		{RoleDispatcher, "", false, false},
		{RoleNurse, "", false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got, ok := tt.role.VehicleType()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.isFirst, tt.role.IsFirstResponder())
		})
	}
}
