package notify

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-coffee-sync.git/internal/redisx"
)

// Publisher is the producer surface the notifier needs; *Producer satisfies it.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Notifier bridges this daemon to the game server's session layer: outcomes
// go out as kafka events, the session layer turns them into in-world messages.
type Notifier struct {
	Producer Publisher
	Service  string
}

func (n *Notifier) publish(eventType, key string, payload any) {
	ev := Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     n.Service,
		Payload:      MustMarshal(payload),
	}
	n.Producer.Publish(PartitionKey(key), MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (n *Notifier) OrderSucceeded(ctx context.Context, playerID uint32, orderID string) {
	n.publish(EventOrderSucceeded, formatID(playerID), OrderSucceededPayload{PlayerID: playerID, OrderID: orderID})
}

func (n *Notifier) OrderFailed(ctx context.Context, playerID uint32) {
	n.publish(EventOrderFailed, formatID(playerID), OrderFailedPayload{PlayerID: playerID})
}

func (n *Notifier) ItemCreated(ctx context.Context, productID, className string, classID uint32) {
	n.publish(EventItemCreated, productID, ItemCreatedPayload{ProductID: productID, ClassName: className, ClassID: classID})
}

func (n *Notifier) ItemRetired(ctx context.Context, productID string, classID uint32) {
	n.publish(EventItemRetired, productID, ItemRetiredPayload{ProductID: productID, ClassID: classID})
}

func (n *Notifier) TokenVerified(ctx context.Context, playerID uint32) {
	n.publish(EventTokenVerified, formatID(playerID), TokenResultPayload{PlayerID: playerID, Verified: true})
}

func (n *Notifier) TokenRejected(ctx context.Context, playerID uint32, reason string) {
	n.publish(EventTokenRejected, formatID(playerID), TokenResultPayload{PlayerID: playerID, Verified: false, Reason: reason})
}

func formatID(id uint32) string { return strconv.FormatUint(uint64(id), 10) }

// RedisPresence reads the online-players set the session layer maintains.
type RedisPresence struct{ Redis *redis.Client }

func (p *RedisPresence) IsOnline(ctx context.Context, playerID uint32) (bool, error) {
	return p.Redis.SIsMember(ctx, redisx.KeyPlayersOnline, formatID(playerID)).Result()
}
