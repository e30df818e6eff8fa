package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCitizen       Role = "Citizen"
	RoleDispatcher    Role = "Dispatcher"
	RolePolice        Role = "Police"
	RoleFire          Role = "Fire"
	RoleNurse         Role = "Nurse"
	RoleAdministrator Role = "Administrator"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCitizen, RoleDispatcher, RolePolice, RoleFire, RoleNurse, RoleAdministrator:
		return true
	}
	return false
}

// IsFirstResponder полиция и пожарные работают на машинах
func (r Role) IsFirstResponder() bool {
	return r == RolePolice || r == RoleFire
}

// VehicleType тип машины, положенный роли: полиция ездит на Car, пожарные на Truck
func (r Role) VehicleType() (VehicleType, bool) {
	switch r {
	case RolePolice:
		return VehicleCar, true
	case RoleFire:
		return VehicleTruck, true
	}
	return "", false
}

type User struct {
	ID                       uuid.UUID  `json:"id"`
	Username                 string     `json:"username"`
	PasswordHash             string     `json:"-"`
	Role                     Role       `json:"role"`
	AssignedCity             string     `json:"assignedCity,omitempty"`
	AssignedCar              string     `json:"assignedCar,omitempty"`
	AssignedTruck            string     `json:"assignedTruck,omitempty"`
	AssignedVehicleTimestamp *time.Time `json:"assignedVehicleTimestamp,omitempty"`
	CreatedAt                time.Time  `json:"createdAt"`
}

// AssignedVehicle машина, закреплённая за сотрудником, если есть
func (u *User) AssignedVehicle() (VehicleType, string, bool) {
	if u.AssignedCar != "" {
		return VehicleCar, u.AssignedCar, true
	}
	if u.AssignedTruck != "" {
		return VehicleTruck, u.AssignedTruck, true
	}
	return "", "", false
}

// SetAssignedVehicle закрепляет машину за сотрудником
func (u *User) SetAssignedVehicle(vehicleType VehicleType, name string, at time.Time) {
	u.AssignedCar, u.AssignedTruck = "", ""
	switch vehicleType {
	case VehicleCar:
		u.AssignedCar = name
	case VehicleTruck:
		u.AssignedTruck = name
	}
	u.AssignedVehicleTimestamp = &at
}

// ClearAssignedVehicle снимает закреплённую машину
func (u *User) ClearAssignedVehicle() {
	u.AssignedCar, u.AssignedTruck = "", ""
	u.AssignedVehicleTimestamp = nil
}

// VehicleSelection результат выбора машины сотрудником.
// Incident заполнен, если машина попала на инцидент.
type VehicleSelection struct {
	User     *User
	Incident *Incident
}
