package notify

import (
	"context"
	"encoding/json"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMsg struct {
	key     []byte
	value   []byte
	headers []kafkago.Header
}

type fakePublisher struct{ msgs []capturedMsg }

func (f *fakePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	f.msgs = append(f.msgs, capturedMsg{key: key, value: value, headers: headers})
}

func TestOrderSucceededEnvelope(t *testing.T) {
	pub := &fakePublisher{}
	n := &Notifier{Producer: pub, Service: "coffee-syncd"}

	n.OrderSucceeded(context.Background(), 7, "ord_1")

	require.Len(t, pub.msgs, 1)
	m := pub.msgs[0]
	assert.Equal(t, []byte("7"), m.key)

	var env Envelope
	require.NoError(t, json.Unmarshal(m.value, &env))
	assert.Equal(t, EventOrderSucceeded, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "coffee-syncd", env.Producer)
	assert.NotEmpty(t, env.EventID)

	var p OrderSucceededPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.EqualValues(t, 7, p.PlayerID)
	assert.Equal(t, "ord_1", p.OrderID)

	require.Len(t, m.headers, 2)
	assert.Equal(t, "x-event-type", m.headers[0].Key)
	assert.Equal(t, []byte(EventOrderSucceeded), m.headers[0].Value)
}

func TestTokenRejectedCarriesReason(t *testing.T) {
	pub := &fakePublisher{}
	n := &Notifier{Producer: pub, Service: "coffee-syncd"}

	n.TokenRejected(context.Background(), 9, "bad pattern")

	require.Len(t, pub.msgs, 1)
	var env Envelope
	require.NoError(t, json.Unmarshal(pub.msgs[0].value, &env))
	var p TokenResultPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.False(t, p.Verified)
	assert.Equal(t, "bad pattern", p.Reason)
}
