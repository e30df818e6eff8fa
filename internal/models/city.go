package models

import "time"

type City struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CityAssignments всё, что закреплено за городом
type CityAssignments struct {
	Cars      []*Vehicle `json:"cars"`
	Trucks    []*Vehicle `json:"trucks"`
	Personnel []*User    `json:"personnel"`
}

// AssignmentKind что именно закрепляется за городом
type AssignmentKind string

const (
	AssignCar       AssignmentKind = "Car"
	AssignTruck     AssignmentKind = "Truck"
	AssignPersonnel AssignmentKind = "Personnel"
)
