package server

import "encoding/json"

// actionPayload is the JSON shape stored for a role action row.
type actionPayload struct {
	Alignment string `json:"alignment,omitempty"`
	MissionID string `json:"mission_id,omitempty"`
}

func (p *actionPayload) unmarshal(data []byte) error {
	return json.Unmarshal(data, p)
}

// EventPayload is the JSON shape written to the append-only audit log.
type EventPayload struct {
	GameID     string `json:"game_id,omitempty"`
	JoinCode   string `json:"join_code,omitempty"`
	PlayerName string `json:"player,omitempty"`
	PlayerID   int    `json:"player_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Phase      string `json:"phase,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Role       string `json:"role,omitempty"`
	ActionType string `json:"action_type,omitempty"`
	MissionID  string `json:"mission_id,omitempty"`
	Ready      bool   `json:"ready,omitempty"`
	Count      int    `json:"count,omitempty"`
}
