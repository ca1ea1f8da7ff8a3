package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamotest"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/events"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/idempotency"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/users"
)

type sent struct {
	kind, to, subject string
}

type mockNotifier struct {
	sent []sent
	err  error
}

func (m *mockNotifier) SendWelcome(to, name string) error {
	m.sent = append(m.sent, sent{"welcome", to, name})
	return m.err
}

func (m *mockNotifier) SendOrderConfirmation(to, _ string, orderID string, _ float64, _ int) error {
	m.sent = append(m.sent, sent{"order", to, orderID})
	return m.err
}

func (m *mockNotifier) SendRefundDecision(to, _ string, orderID, status string) error {
	m.sent = append(m.sent, sent{"refund:" + status, to, orderID})
	return m.err
}

func newProcessor(t *testing.T) (*Processor, *mockNotifier, *dynamotest.Fake) {
	t.Helper()
	db := dynamotest.New().
		AddTable("idempotency", "idempotency_key", nil).
		AddTable("users", "user_id", map[string]string{users.EmailIndex: "email"})
	require.NoError(t, db.Seed("users", users.User{UserID: "u1", Name: "Ann", Email: "ann@example.com", Role: users.RoleCustomer}))

	mail := &mockNotifier{}
	p := NewProcessor(
		idempotency.NewStore(db, "idempotency", time.Hour),
		users.NewService(users.NewStore(db, "users")),
		mail,
	)
	return p, mail, db
}

func sqsEvent(t *testing.T, evs ...events.Event) lambdaevents.SQSEvent {
	t.Helper()
	var out lambdaevents.SQSEvent
	for i, e := range evs {
		body, err := json.Marshal(e)
		require.NoError(t, err)
		out.Records = append(out.Records, lambdaevents.SQSMessage{MessageId: e.EventID + "-" + string(rune('a'+i)), Body: string(body)})
	}
	return out
}

func TestHandle_SendsEmails(t *testing.T) {
	p, mail, _ := newProcessor(t)

	resp, err := p.Handle(context.Background(), sqsEvent(t,
		events.New(events.TypeUserRegistered, "u1", "u1", nil),
		events.New(events.TypeOrderFinalized, "o1", "u1", map[string]any{"totalPrice": 40.0, "items": 2}),
		events.New(events.TypeRefundApproved, "r1", "u1", map[string]any{"orderId": "o1", "status": "Approved"}),
	))
	require.NoError(t, err)
	assert.Empty(t, resp.BatchItemFailures)

	assert.Equal(t, []sent{
		{"welcome", "ann@example.com", "Ann"},
		{"order", "ann@example.com", "o1"},
		{"refund:Approved", "ann@example.com", "o1"},
	}, mail.sent)
}

func TestHandle_DuplicateDeliveryIsSkipped(t *testing.T) {
	p, mail, _ := newProcessor(t)
	ev := events.New(events.TypeUserRegistered, "u1", "u1", nil)

	_, err := p.Handle(context.Background(), sqsEvent(t, ev))
	require.NoError(t, err)
	resp, err := p.Handle(context.Background(), sqsEvent(t, ev))
	require.NoError(t, err)

	assert.Empty(t, resp.BatchItemFailures)
	assert.Len(t, mail.sent, 1)
}

func TestHandle_FailureIsRetried(t *testing.T) {
	p, mail, db := newProcessor(t)
	ev := events.New(events.TypeUserRegistered, "u1", "u1", nil)
	msgs := sqsEvent(t, ev)

	mail.err = errors.New("smtp down")
	resp, err := p.Handle(context.Background(), msgs)
	require.NoError(t, err)
	require.Len(t, resp.BatchItemFailures, 1)
	assert.Equal(t, msgs.Records[0].MessageId, resp.BatchItemFailures[0].ItemIdentifier)

	var rec idempotency.Record
	found, err := db.Load("idempotency", idempotency.Key("event", ev.EventID), &rec)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, idempotency.StatusFailed, rec.Status)

	mail.err = nil
	resp, err = p.Handle(context.Background(), msgs)
	require.NoError(t, err)
	assert.Empty(t, resp.BatchItemFailures)
	assert.Len(t, mail.sent, 2)
}

func TestHandle_InProgressIsRedelivered(t *testing.T) {
	p, mail, _ := newProcessor(t)
	ev := events.New(events.TypeUserRegistered, "u1", "u1", nil)

	_, err := p.idempStore.Begin(context.Background(), idempotency.Key("event", ev.EventID), "")
	require.NoError(t, err)

	resp, err := p.Handle(context.Background(), sqsEvent(t, ev))
	require.NoError(t, err)
	assert.Len(t, resp.BatchItemFailures, 1)
	assert.Empty(t, mail.sent)
}

func TestHandle_DropsBadInput(t *testing.T) {
	p, mail, _ := newProcessor(t)

	resp, err := p.Handle(context.Background(), lambdaevents.SQSEvent{Records: []lambdaevents.SQSMessage{
		{MessageId: "m1", Body: "not json"},
	}})
	require.NoError(t, err)
	assert.Empty(t, resp.BatchItemFailures)

	// unknown user and unknown type are both completed without mail
	resp, err = p.Handle(context.Background(), sqsEvent(t,
		events.New(events.TypeUserRegistered, "ghost", "ghost", nil),
		events.New("catalog.updated", "p1", "", nil),
	))
	require.NoError(t, err)
	assert.Empty(t, resp.BatchItemFailures)
	assert.Empty(t, mail.sent)
}
