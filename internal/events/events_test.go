package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	bodies []string
	attrs  []map[string]string
	err    error
}

func (c *captureSender) SendMessage(_ context.Context, body string, attrs map[string]string) error {
	if c.err != nil {
		return c.err
	}
	c.bodies = append(c.bodies, body)
	c.attrs = append(c.attrs, attrs)
	return nil
}

type captureWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error {
	w.closed = true
	return nil
}

func TestSQSPublisher(t *testing.T) {
	s := &captureSender{}
	e := New(TypeOrderFinalized, "o1", "u1", map[string]any{"totalPrice": 40.0})

	require.NoError(t, NewSQSPublisher(s).Publish(context.Background(), e))
	require.Len(t, s.bodies, 1)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(s.bodies[0]), &got))
	assert.Equal(t, e.EventID, got.EventID)
	assert.Equal(t, "o1", got.EntityID)
	assert.Equal(t, 40.0, got.Payload["totalPrice"])
	assert.Equal(t, TypeOrderFinalized, s.attrs[0]["event_type"])
}

func TestSQSPublisher_Error(t *testing.T) {
	s := &captureSender{err: errors.New("queue gone")}
	err := NewSQSPublisher(s).Publish(context.Background(), New(TypeRefundApproved, "r1", "", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refund.approved")
}

func TestKafkaPublisher(t *testing.T) {
	w := &captureWriter{}
	p := NewKafkaPublisher(w)
	e := New(TypeRefundRejected, "r1", "u1", nil)

	require.NoError(t, p.Publish(context.Background(), e))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "r1", string(w.msgs[0].Key))
	assert.Equal(t, "event_type", w.msgs[0].Headers[0].Key)
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestMulti_StopsOnError(t *testing.T) {
	ok := &captureSender{}
	bad := &captureSender{err: errors.New("down")}
	after := &captureSender{}
	m := Multi{NewSQSPublisher(ok), NewSQSPublisher(bad), NewSQSPublisher(after)}

	err := m.Publish(context.Background(), New(TypeUserRegistered, "u1", "u1", nil))
	require.Error(t, err)
	assert.Len(t, ok.bodies, 1)
	assert.Empty(t, after.bodies)
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{}))
}

func TestBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, Brokers(" a:9092, ,b:9092 "))
	assert.Empty(t, Brokers(""))
}

func TestNewKafkaWriter_FlushesSingleMessagesQuickly(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"}, "storefront.events")
	defer w.Close()

	assert.Equal(t, "storefront.events", w.Topic)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.Positive(t, w.BatchTimeout)
	assert.LessOrEqual(t, w.BatchTimeout, 50*time.Millisecond)
}
