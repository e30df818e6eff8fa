package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemUser владелец и командир инцидента до того, как его возьмёт диспетчер
const SystemUser = "System"

type IncidentState string

const (
	StateWaiting  IncidentState = "Waiting"
	StateTriage   IncidentState = "Triage"
	StateAssigned IncidentState = "Assigned"
	StateClosed   IncidentState = "Closed"
)

var stateOrder = map[IncidentState]int{
	StateWaiting:  0,
	StateTriage:   1,
	StateAssigned: 2,
	StateClosed:   3,
}

// IsValid проверяет, что состояние входит в жизненный цикл инцидента
func (s IncidentState) IsValid() bool {
	_, ok := stateOrder[s]
	return ok
}

// CanTransitionTo разрешает только движение вперёд: Waiting → Triage → Assigned → Closed.
// Closed терминальное.
func (s IncidentState) CanTransitionTo(next IncidentState) bool {
	from, ok := stateOrder[s]
	if !ok {
		return false
	}
	to, ok := stateOrder[next]
	if !ok {
		return false
	}
	if s == StateClosed {
		return next == StateClosed
	}
	return to >= from
}

type IncidentType string

const (
	IncidentTypeUnset   IncidentType = "U"
	IncidentTypeFire    IncidentType = "F"
	IncidentTypeMedical IncidentType = "M"
	IncidentTypePolice  IncidentType = "P"
)

type IncidentPriority string

const (
	PriorityImmediate IncidentPriority = "E"
	PriorityOne       IncidentPriority = "1"
	PriorityTwo       IncidentPriority = "2"
	PriorityThree     IncidentPriority = "3"
)

// AssignedVehicle машина на инциденте вместе с её экипажем
type AssignedVehicle struct {
	Type      VehicleType `json:"type"`
	Name      string      `json:"name"`
	Usernames []string    `json:"usernames"`
}

// Key идентифицирует машину внутри инцидента
func (v AssignedVehicle) Key() string {
	return VehicleKey(v.Type, v.Name)
}

// HasUsername сообщает, числится ли пользователь в экипаже
func (v AssignedVehicle) HasUsername(username string) bool {
	for _, u := range v.Usernames {
		if u == username {
			return true
		}
	}
	return false
}

// AssignHistoryEntry запись журнала назначений. Журнал только дополняется.
type AssignHistoryEntry struct {
	Timestamp time.Time   `json:"timestamp"`
	Usernames []string    `json:"usernames"`
	IsAssign  bool        `json:"isAssign"`
	Name      string      `json:"name"`
	Type      VehicleType `json:"type"`
}

type Incident struct {
	IncidentID        string               `json:"incidentId"`
	Caller            string               `json:"caller"`
	OpeningDate       time.Time            `json:"openingDate"`
	IncidentState     IncidentState        `json:"incidentState"`
	Owner             string               `json:"owner"`
	Commander         string               `json:"commander"`
	Address           string               `json:"address"`
	Type              IncidentType         `json:"type"`
	Priority          IncidentPriority     `json:"priority"`
	ClosingDate       *time.Time           `json:"closingDate,omitempty"`
	AssignedVehicles  []AssignedVehicle    `json:"assignedVehicles"`
	AssignHistory     []AssignHistoryEntry `json:"assignHistory"`
	IncidentCallGroup *uuid.UUID           `json:"incidentCallGroup"`
	RespondersGroup   *uuid.UUID           `json:"respondersGroup"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

// IncidentIDForCaller выводит идентификатор инцидента из имени звонящего
func IncidentIDForCaller(caller string) string {
	return "I" + caller
}

// NewIncident инцидент со значениями по умолчанию для нового звонка
func NewIncident(caller string) *Incident {
	return &Incident{
		IncidentID:       IncidentIDForCaller(caller),
		Caller:           caller,
		OpeningDate:      time.Now().UTC(),
		IncidentState:    StateWaiting,
		Owner:            SystemUser,
		Commander:        SystemUser,
		Type:             IncidentTypeUnset,
		Priority:         PriorityImmediate,
		AssignedVehicles: []AssignedVehicle{},
		AssignHistory:    []AssignHistoryEntry{},
	}
}

// FindVehicle возвращает индекс машины в assignedVehicles или -1
func (i *Incident) FindVehicle(vehicleType VehicleType, name string) int {
	key := VehicleKey(vehicleType, name)
	for idx, v := range i.AssignedVehicles {
		if v.Key() == key {
			return idx
		}
	}
	return -1
}

// HasResponder сообщает, числится ли пользователь в экипаже хотя бы одной машины
func (i *Incident) HasResponder(username string) bool {
	for _, v := range i.AssignedVehicles {
		if v.HasUsername(username) {
			return true
		}
	}
	return false
}

// RecordAssignment дописывает запись в журнал назначений
func (i *Incident) RecordAssignment(v AssignedVehicle, isAssign bool, at time.Time) {
	i.AssignHistory = append(i.AssignHistory, AssignHistoryEntry{
		Timestamp: at,
		Usernames: append([]string{}, v.Usernames...),
		IsAssign:  isAssign,
		Name:      v.Name,
		Type:      v.Type,
	})
}

// IncidentFilter условия выборки списка инцидентов. Пустые поля не фильтруют.
type IncidentFilter struct {
	Caller    string
	Commander string
	State     IncidentState
}

// IncidentPatch частичное обновление инцидента. nil-поля не меняются.
type IncidentPatch struct {
	IncidentID       string
	IncidentState    *IncidentState
	Owner            *string
	Commander        *string
	Address          *string
	Type             *IncidentType
	Priority         *IncidentPriority
	AssignedVehicles *[]AssignedVehicle
}

// ApplyScalars переносит в инцидент все поля, кроме состояния и списка машин
func (p IncidentPatch) ApplyScalars(i *Incident) {
	if p.Owner != nil {
		i.Owner = *p.Owner
	}
	if p.Commander != nil {
		i.Commander = *p.Commander
	}
	if p.Address != nil {
		i.Address = *p.Address
	}
	if p.Type != nil {
		i.Type = *p.Type
	}
	if p.Priority != nil {
		i.Priority = *p.Priority
	}
}
