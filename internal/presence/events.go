package presence

// События, которые сервер отправляет клиентам
const (
	EventNewIncident              = "new-incident"
	EventJoinNewIncident          = "join-new-incident"
	EventIncidentCommanderChanged = "incident-commander-changed"
	EventIncidentClosed           = "incident-closed"
)
