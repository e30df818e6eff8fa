package models

import (
	"time"

	"github.com/google/uuid"
)

// RespondersGroupSuffix суффикс имени группы экипажей инцидента
const RespondersGroupSuffix = "_Resp"

// Channel чат-канал. UserIDs хранит id пользователей в виде строк.
type Channel struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	UserIDs   []string  `json:"users"`
	Closed    bool      `json:"closed"`
	CreatedAt time.Time `json:"createdAt"`
}

// RespondersGroupName имя группы экипажей для инцидента
func RespondersGroupName(incidentID string) string {
	return incidentID + RespondersGroupSuffix
}
