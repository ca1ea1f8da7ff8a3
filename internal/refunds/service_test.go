package refunds

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/apperr"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamo"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/dynamotest"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/events"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/orders"
)

const (
	requestsTable = "return_requests"
	ordersTable   = "orders"
)

type recordingPublisher struct{ types []string }

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.types = append(p.types, e.Type)
	return nil
}

type fixture struct {
	db     *dynamotest.Fake
	svc    *Service
	orders *orders.Store
	pub    *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dynamotest.New().
		AddTable(requestsTable, "request_id", map[string]string{UserIndex: "user_id"}).
		AddTable(ordersTable, "order_id", map[string]string{orders.UserIndex: "user_id"})
	for _, o := range []orders.Order{
		{OrderID: "o1", UserID: "u1", Status: orders.StatusDelivered, IsPaid: true, CreatedAt: time.Now()},
		{OrderID: "o2", UserID: "u2", Status: orders.StatusProcessing, CreatedAt: time.Now()},
	} {
		require.NoError(t, db.Seed(ordersTable, o))
	}
	ordersStore := orders.NewStore(db, ordersTable)
	pub := &recordingPublisher{}
	return &fixture{
		db:     db,
		svc:    NewService(NewStore(db, requestsTable), ordersStore, pub, nil),
		orders: ordersStore,
		pub:    pub,
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, "u1", "o1", "wrong size")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, r.Status)

	_, err = f.svc.Create(ctx, "u1", "o2", "not mine")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = f.svc.Create(ctx, "u1", "missing", "x")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	mine, err := f.svc.ListMine(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, r.RequestID, mine[0].RequestID)

	none, err := f.svc.ListMine(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestApprove_CancelsOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r, err := f.svc.Create(ctx, "u1", "o1", "damaged")
	require.NoError(t, err)

	got, err := f.svc.Approve(ctx, r.RequestID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)

	o, err := f.orders.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, orders.StatusCancelled, o.Status)
	assert.Equal(t, []string{events.TypeRefundApproved}, f.pub.types)
	assert.Equal(t, 1, f.db.Calls["TransactWriteItems"])

	// decided requests are terminal
	_, err = f.svc.Approve(ctx, r.RequestID)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	_, err = f.svc.Reject(ctx, r.RequestID)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	_, err = f.svc.UpdateReason(ctx, r.RequestID, "u1", "changed my mind")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.True(t, apperr.Is(f.svc.Delete(ctx, r.RequestID, "u1"), apperr.KindBadRequest))
}

func TestApprove_TransactionFailureChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r, err := f.svc.Create(ctx, "u1", "o1", "damaged")
	require.NoError(t, err)

	f.db.Err = func(op, _ string) error {
		if op == "TransactWriteItems" {
			return errors.New("internal server error")
		}
		return nil
	}
	_, err = f.svc.Approve(ctx, r.RequestID)
	require.Error(t, err)
	f.db.Err = nil

	cur, err := f.svc.store.Get(ctx, r.RequestID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, cur.Status)
	o, err := f.orders.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, orders.StatusDelivered, o.Status)
	assert.Empty(t, f.pub.types)
}

func TestApprove_OrderGone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r, err := f.svc.Create(ctx, "u1", "o1", "damaged")
	require.NoError(t, err)
	_, err = f.orders.Delete(ctx, "o1")
	require.NoError(t, err)

	got, err := f.svc.Approve(ctx, r.RequestID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
	assert.Equal(t, 1, f.db.Count(ordersTable))
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r, err := f.svc.Create(ctx, "u1", "o1", "late")
	require.NoError(t, err)

	got, err := f.svc.Reject(ctx, r.RequestID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)

	o, err := f.orders.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, orders.StatusDelivered, o.Status)
	assert.Equal(t, []string{events.TypeRefundRejected}, f.pub.types)

	_, err = f.svc.Reject(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestOwnerOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r, err := f.svc.Create(ctx, "u1", "o1", "late")
	require.NoError(t, err)

	_, err = f.svc.UpdateReason(ctx, r.RequestID, "u2", "hijack")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.True(t, apperr.Is(f.svc.Delete(ctx, r.RequestID, "u2"), apperr.KindForbidden))

	up, err := f.svc.UpdateReason(ctx, r.RequestID, "u1", "very late")
	require.NoError(t, err)
	assert.Equal(t, "very late", up.Reason)

	all, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "very late", all[0].Reason)

	require.NoError(t, f.svc.Delete(ctx, r.RequestID, "u1"))
	assert.Equal(t, 0, f.db.Count(requestsTable))
	assert.True(t, apperr.Is(f.svc.Delete(ctx, r.RequestID, "u1"), apperr.KindNotFound))
}

func TestOwnerOperations_DecidedBeforeOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r, err := f.svc.Create(ctx, "u1", "o1", "late")
	require.NoError(t, err)
	_, err = f.svc.Reject(ctx, r.RequestID)
	require.NoError(t, err)

	// a decided request reports its state even to someone else
	_, err = f.svc.UpdateReason(ctx, r.RequestID, "u2", "hijack")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.True(t, apperr.Is(f.svc.Delete(ctx, r.RequestID, "u2"), apperr.KindBadRequest))
}

func TestDeletePending_KeepsDecidedRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r, err := f.svc.Create(ctx, "u1", "o1", "late")
	require.NoError(t, err)

	// the approval lands after the owner's pending check
	_, err = f.svc.Approve(ctx, r.RequestID)
	require.NoError(t, err)

	err = f.svc.store.DeletePending(ctx, r.RequestID)
	assert.ErrorIs(t, err, dynamo.ErrConditionFailed)
	assert.True(t, apperr.Is(f.svc.conflict(ctx, r.RequestID), apperr.KindBadRequest))

	cur, err := f.svc.store.Get(ctx, r.RequestID)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, StatusApproved, cur.Status)
}
