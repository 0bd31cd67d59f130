package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// TransactionExportMessage asks the export worker to push one transaction to
// the spreadsheet. Only the identifiers travel; the worker reloads the
// transaction from the store.
type TransactionExportMessage struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionExportMessage(id, accountID string) *TransactionExportMessage {
	return &TransactionExportMessage{
		ID:        id,
		AccountID: accountID,
		Timestamp: time.Now().UTC(),
	}
}

func (m *TransactionExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionExportMessageFromJSON decodes a message and rejects one without
// a transaction id.
func TransactionExportMessageFromJSON(data []byte) (*TransactionExportMessage, error) {
	var msg TransactionExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, errors.New("transaction export message without id")
	}
	return &msg, nil
}
