package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-coffee-sync.git/internal/terminal"
)

const JobTypeCreateOrder = "create_order"

// Job is one outgoing order on the conversion queue. The producer writes
// Retries=0 and a zero NextAttempt and never reads either back: the
// external worker owns retry/backoff and pushes exactly one terminal
// record onto the success or failure list.
type Job struct {
	Payload     terminal.OrderRequest `json:"payload"`
	ID          uuid.UUID             `json:"id"`
	Type        string                `json:"type"`
	Token       string                `json:"token"`
	ForPlayerID uint32                `json:"for_player_id"`
	Retries     int                   `json:"retries"`
	NextAttempt time.Time             `json:"next_attempt"`
}

func NewJob(payload terminal.OrderRequest, token string, forPlayerID uint32) Job {
	return Job{
		Payload:     payload,
		ID:          uuid.New(),
		Type:        JobTypeCreateOrder,
		Token:       token,
		ForPlayerID: forPlayerID,
		Retries:     0,
		NextAttempt: time.Time{}, // sentinel: belum pernah dicoba
	}
}

// Success / Failure are the terminal records the worker pushes back.

type Success struct {
	OrderID     string `json:"order_id"`
	ForPlayerID uint32 `json:"for_player_id"`
	Type        string `json:"type"` // "success"
}

type Failure struct {
	ForPlayerID uint32 `json:"for_player_id"`
	Type        string `json:"type"` // "failure"
}
