package notify

import (
	"encoding/json"
	"time"
)

const TopicCoffeeEvents = "coffee.events"

const (
	EventOrderSucceeded = "CoffeeOrderSucceeded"
	EventOrderFailed    = "CoffeeOrderFailed"
	EventItemCreated    = "CoffeeCatalogItemCreated"
	EventItemRetired    = "CoffeeCatalogItemRetired"
	EventTokenVerified  = "CoffeeTokenVerified"
	EventTokenRejected  = "CoffeeTokenRejected"
)

type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

// ---- Payload tipe per event ----

type OrderSucceededPayload struct {
	PlayerID uint32 `json:"player_id"`
	OrderID  string `json:"order_id"`
}

type OrderFailedPayload struct {
	PlayerID uint32 `json:"player_id"`
}

type ItemCreatedPayload struct {
	ProductID string `json:"product_id"`
	ClassName string `json:"class_name"`
	ClassID   uint32 `json:"class_id"`
}

type ItemRetiredPayload struct {
	ProductID string `json:"product_id"`
	ClassID   uint32 `json:"class_id"`
}

type TokenResultPayload struct {
	PlayerID uint32 `json:"player_id"`
	Verified bool   `json:"verified"`
	Reason   string `json:"reason,omitempty"`
}

// Partition key = player id (atau product id utk catalog events), supaya
// event untuk satu player maintain urutan.
func PartitionKey(id string) []byte { return []byte(id) }
