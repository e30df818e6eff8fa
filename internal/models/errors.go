package models

import "errors"

// Доменные ошибки. Сервисы оборачивают их через %w, хэндлеры сопоставляют с HTTP-статусами.
var (
	ErrNotFound                 = errors.New("not found")
	ErrAlreadyExists            = errors.New("already exists")
	ErrNameRequired             = errors.New("name is required")
	ErrIncidentIDRequired       = errors.New("incidentId is required")
	ErrInvalidStateTransition   = errors.New("invalid incident state transition")
	ErrIncidentClosed           = errors.New("incident is closed")
	ErrVehicleAlreadyAssigned   = errors.New("vehicle is already assigned to an incident")
	ErrPersonnelAlreadyAssigned = errors.New("personnel is already assigned")
	ErrNoAssignedVehicles       = errors.New("incident has no assigned vehicles")
	ErrCommanderNotOnVehicle    = errors.New("Commander must be present on one of the vehicles")
	ErrVehicleTypeMismatch      = errors.New("vehicle type does not match personnel role")
	ErrNotFirstResponder        = errors.New("user is not a first responder")
	ErrInvalidRole              = errors.New("invalid role")
	ErrInvalidAssignmentKind    = errors.New("invalid assignment kind")
	ErrInvalidCredentials       = errors.New("invalid username or password")
)
