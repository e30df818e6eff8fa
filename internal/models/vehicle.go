package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type VehicleType string

const (
	VehicleCar   VehicleType = "Car"
	VehicleTruck VehicleType = "Truck"
)

func (t VehicleType) IsValid() bool {
	return t == VehicleCar || t == VehicleTruck
}

// VehicleKey ключ машины вида "type::name"
func VehicleKey(vehicleType VehicleType, name string) string {
	return string(vehicleType) + "::" + name
}

// IncidentAssignment привязка машины к инциденту: либо свободна, либо назначена на конкретный инцидент.
// Нулевое значение означает "свободна".
type IncidentAssignment struct {
	incidentID string
}

// Available машина не назначена ни на один инцидент
func Available() IncidentAssignment {
	return IncidentAssignment{}
}

// AssignedTo машина работает на инциденте incidentID
func AssignedTo(incidentID string) IncidentAssignment {
	return IncidentAssignment{incidentID: incidentID}
}

func (a IncidentAssignment) IsAvailable() bool {
	return a.incidentID == ""
}

// IncidentID возвращает инцидент и true, если машина назначена
func (a IncidentAssignment) IncidentID() (string, bool) {
	return a.incidentID, a.incidentID != ""
}

func (a IncidentAssignment) String() string {
	if a.IsAvailable() {
		return "available"
	}
	return "assigned:" + a.incidentID
}

func (a IncidentAssignment) MarshalJSON() ([]byte, error) {
	if a.IsAvailable() {
		return []byte("null"), nil
	}
	return json.Marshal(a.incidentID)
}

func (a *IncidentAssignment) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*a = Available()
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("invalid incident assignment: %w", err)
	}
	*a = AssignedTo(id)
	return nil
}

// Value хранит свободную машину как NULL
func (a IncidentAssignment) Value() (driver.Value, error) {
	if a.IsAvailable() {
		return nil, nil
	}
	return a.incidentID, nil
}

func (a *IncidentAssignment) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Available()
	case string:
		*a = AssignedTo(v)
	case []byte:
		*a = AssignedTo(string(v))
	default:
		return fmt.Errorf("cannot scan %T into IncidentAssignment", src)
	}
	return nil
}

// Vehicle машина (Car или Truck) из автопарка
type Vehicle struct {
	Type             VehicleType        `json:"type"`
	Name             string             `json:"name"`
	Usernames        []string           `json:"usernames"`
	AssignedCity     string             `json:"assignedCity,omitempty"`
	AssignedIncident IncidentAssignment `json:"assignedIncident"`
	CreatedAt        time.Time          `json:"createdAt"`
}

func (v *Vehicle) Key() string {
	return VehicleKey(v.Type, v.Name)
}

func (v *Vehicle) HasUsername(username string) bool {
	for _, u := range v.Usernames {
		if u == username {
			return true
		}
	}
	return false
}

// AddUsername добавляет пользователя в экипаж, если его там нет
func (v *Vehicle) AddUsername(username string) {
	if !v.HasUsername(username) {
		v.Usernames = append(v.Usernames, username)
	}
}

// RemoveUsername убирает пользователя из экипажа
func (v *Vehicle) RemoveUsername(username string) {
	v.Usernames = RemoveString(v.Usernames, username)
}

// RemoveString возвращает копию слайса без значения s
func RemoveString(values []string, s string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

// MergeUsernames объединение списков без повторов с сохранением порядка
func MergeUsernames(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range lists {
		for _, u := range list {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			out = append(out, u)
		}
	}
	return out
}
