package ws

import (
	"encoding/json"
	"time"
)

// Envelope is every frame exchanged with clients.
type Envelope struct {
	Type  string          `json:"type"`
	Room  string          `json:"room,omitempty"`
	Text  string          `json:"text,omitempty"`
	Event string          `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type ChatMessage struct {
	ID     string    `json:"id"`
	Room   string    `json:"room"`
	UserID int64     `json:"userId"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

type HistoryPayload struct {
	Room     string        `json:"room"`
	Messages []ChatMessage `json:"messages"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func encode(typ, room, event string, data any) ([]byte, error) {
	env := Envelope{Type: typ, Room: room, Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		env.Data = raw
	}
	return json.Marshal(env)
}
