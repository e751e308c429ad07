package amqp

import (
	"encoding/json"
	"time"
)

// BalanceUpdatedMessage notifies downstream consumers that a user's
// aggregate balance was recomputed. It carries the new value so
// consumers don't have to read the store.
type BalanceUpdatedMessage struct {
	UserID       string    `json:"user_id"`
	BalanceCents int64     `json:"balance_cents"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewBalanceUpdatedMessage(userID string, balanceCents int64) *BalanceUpdatedMessage {
	return &BalanceUpdatedMessage{
		UserID:       userID,
		BalanceCents: balanceCents,
		Timestamp:    time.Now(),
	}
}

func (m *BalanceUpdatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BalanceUpdatedMessageFromJSON(data []byte) (*BalanceUpdatedMessage, error) {
	var msg BalanceUpdatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
