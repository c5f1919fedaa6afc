package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/league-builds/internal/build"
)

type MessageType string

const (
	// Client to Server
	MessageTypeAddItem    MessageType = "add_item"
	MessageTypeRemoveItem MessageType = "remove_item"
	MessageTypeToggleItem MessageType = "toggle_item"
	MessageTypeSetLevel   MessageType = "set_level"
	MessageTypeRankUp     MessageType = "rank_up"
	MessageTypeRankDown   MessageType = "rank_down"
	MessageTypeSave       MessageType = "save"

	// Server to Client
	MessageTypeReady    MessageType = "ready"
	MessageTypeState    MessageType = "state"
	MessageTypeRejected MessageType = "rejected"
	MessageTypeSaved    MessageType = "saved"
	MessageTypeError    MessageType = "error"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type ItemPayload struct {
	ItemID string `json:"itemId"`
}

type LevelPayload struct {
	Level int `json:"level"`
}

type SlotPayload struct {
	Slot int `json:"slot"`
}

// Server to Client payloads

type StatePayload struct {
	State    build.State            `json:"state"`
	Items    []string               `json:"items"`
	Level    int                    `json:"level"`
	Ranks    build.AbilityRanks     `json:"ranks"`
	Snapshot *build.Snapshot        `json:"snapshot,omitempty"`
	Champion *build.ChampionProfile `json:"champion,omitempty"`
	Version  string                 `json:"version,omitempty"`
}

type RejectedPayload struct {
	ItemID    string                      `json:"itemId"`
	Reason    build.IncompatibilityReason `json:"reason"`
	Message   string                      `json:"message"`
	Conflicts string                      `json:"conflicts,omitempty"`
}

type SavedPayload struct {
	Build *build.SavedBuild `json:"build"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
