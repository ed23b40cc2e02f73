package events

import (
	"encoding/json"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const (
	KeyCreated = "transaction.created"
	KeyDeleted = "transaction.deleted"
)

// TransactionPayload is the wire form of a stored transaction.
type TransactionPayload struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
}

// Message is the body of every published event. Deleted events carry only the ID.
type Message struct {
	Event         string              `json:"event"`
	TransactionID int64               `json:"transaction_id"`
	Transaction   *TransactionPayload `json:"transaction,omitempty"`
	Timestamp     time.Time           `json:"timestamp"`
}

func NewCreatedMessage(tx *transaction.Transaction, now time.Time) *Message {
	return &Message{
		Event:         KeyCreated,
		TransactionID: tx.ID,
		Transaction: &TransactionPayload{
			ID:          tx.ID,
			Date:        tx.Date.Format(time.DateOnly),
			Description: tx.Description,
			Type:        string(tx.Type),
			Amount:      tx.Amount.StringFixed(2),
			Category:    string(tx.Category),
		},
		Timestamp: now,
	}
}

func NewDeletedMessage(id int64, now time.Time) *Message {
	return &Message{
		Event:         KeyDeleted,
		TransactionID: id,
		Timestamp:     now,
	}
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}
