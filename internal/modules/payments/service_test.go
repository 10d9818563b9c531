package payments

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bengkelku.id/app/internal/modules/catalog"
	"bengkelku.id/app/internal/modules/orders"
	"bengkelku.id/app/internal/modules/users"
	"bengkelku.id/app/internal/storage"
)

const testMockSecret = "test-secret"

type fakeContacts struct{}

func (fakeContacts) Contact(ctx context.Context, id string) (users.Contact, error) {
	return users.Contact{Email: "budi@mail.com", PhoneNumber: "081234567890"}, nil
}

type fakePackages struct{}

func (fakePackages) GetPackage(ctx context.Context, id string) (catalog.Package, error) {
	return catalog.Package{ID: id, Name: "Basic Service", Price: 150000}, nil
}

type engineFixture struct {
	svc     *Service
	store   *orders.MemStore
	gateway *Mock
	ledger  *MemLedger
	blobs   *storage.Mem
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	store := orders.NewMemStore()
	gw := NewMock(testMockSecret)
	ledger := NewMemLedger()
	blobs := storage.NewMem()
	svc := NewService(store, ledger, gw, fakeContacts{}, fakePackages{}, blobs, 0, nil)
	return &engineFixture{svc: svc, store: store, gateway: gw, ledger: ledger, blobs: blobs}
}

func (f *engineFixture) seedOrder(t *testing.T, id, owner string) orders.Order {
	t.Helper()
	now := time.Now()
	o := orders.Order{
		ID:              id,
		OwnerID:         owner,
		PackageID:       "pkg-1",
		Date:            now,
		TotalAmount:     150000,
		LifecycleStatus: orders.LifecyclePending,
		PaymentStatus:   orders.PaymentUnpaid,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, f.store.Create(context.Background(), &o))
	return o
}

func (f *engineFixture) notification(t *testing.T, ref, txStatus, fraud string) []byte {
	t.Helper()
	payload := map[string]string{
		"order_id":           ref,
		"status_code":        "200",
		"gross_amount":       "150000.00",
		"transaction_id":     "tx-" + txStatus,
		"transaction_status": txStatus,
		"payment_type":       "bank_transfer",
		"signature_key":      SignNotification(ref, "200", "150000.00", testMockSecret),
	}
	if fraud != "" {
		payload["fraud_status"] = fraud
	}
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return b
}

func (f *engineFixture) gatewayRef(t *testing.T, orderID string) string {
	t.Helper()
	o, err := f.store.Get(context.Background(), orderID)
	require.NoError(t, err)
	require.NotNil(t, o.GatewayTxnRef)
	return *o.GatewayTxnRef
}

func TestInitiatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores ref and token without touching payment status", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedOrder(t, "o1", "u1")

		res, err := f.svc.InitiatePayment(ctx, "o1", "u1")
		require.NoError(t, err)
		assert.Equal(t, "o1", res.OrderID)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, int64(150000), res.Amount)

		o, err := f.store.Get(ctx, "o1")
		require.NoError(t, err)
		require.NotNil(t, o.GatewayTxnRef)
		assert.True(t, strings.HasPrefix(*o.GatewayTxnRef, "ORDER-o1-"))
		require.NotNil(t, o.GatewayClientToken)
		assert.Equal(t, res.Token, *o.GatewayClientToken)
		assert.Equal(t, orders.PaymentUnpaid, o.PaymentStatus)
		assert.Equal(t, orders.LifecyclePending, o.LifecycleStatus)
		assert.Len(t, f.gateway.CreateCalls, 1)
		assert.Equal(t, int64(150000), f.gateway.CreateCalls[0].Amount)
	})

	t.Run("nonexistent order", func(t *testing.T) {
		f := newEngineFixture(t)
		_, err := f.svc.InitiatePayment(ctx, "missing", "u1")
		assert.ErrorIs(t, err, orders.ErrNotFound)
		assert.Empty(t, f.gateway.CreateCalls)
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedOrder(t, "o1", "u1")
		_, err := f.svc.InitiatePayment(ctx, "o1", "u2")
		assert.ErrorIs(t, err, orders.ErrForbidden)
		assert.Empty(t, f.gateway.CreateCalls)
	})

	t.Run("already paid never creates a second transaction", func(t *testing.T) {
		f := newEngineFixture(t)
		o := f.seedOrder(t, "o1", "u1")
		o.PaymentStatus = orders.PaymentPaid
		require.NoError(t, f.store.Update(ctx, o))

		_, err := f.svc.InitiatePayment(ctx, "o1", "u1")
		assert.ErrorIs(t, err, ErrAlreadyPaid)
		assert.Empty(t, f.gateway.CreateCalls)
	})

	t.Run("re-initiation refreshes the token", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedOrder(t, "o1", "u1")

		first, err := f.svc.InitiatePayment(ctx, "o1", "u1")
		require.NoError(t, err)
		second, err := f.svc.InitiatePayment(ctx, "o1", "u1")
		require.NoError(t, err)
		assert.NotEqual(t, first.Token, second.Token)

		o, err := f.store.Get(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, second.Token, *o.GatewayClientToken)
	})
}

func TestHandleNotification_SettlementThenReplay(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.seedOrder(t, "o1", "u1")

	_, err := f.svc.InitiatePayment(ctx, "o1", "u1")
	require.NoError(t, err)
	ref := f.gatewayRef(t, "o1")

	body := f.notification(t, ref, "settlement", "accept")
	require.NoError(t, f.svc.HandleNotification(ctx, body))

	o, err := f.store.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, orders.PaymentPaid, o.PaymentStatus)
	assert.Equal(t, orders.LifecycleProcessing, o.LifecycleStatus)
	require.NotNil(t, o.PaymentMethod)
	assert.Equal(t, "bank_transfer", *o.PaymentMethod)

	// identical redelivery: success, no state change, single ledger row
	for i := 0; i < 3; i++ {
		require.NoError(t, f.svc.HandleNotification(ctx, body))
	}
	o, err = f.store.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, orders.PaymentPaid, o.PaymentStatus)
	assert.Equal(t, orders.LifecycleProcessing, o.LifecycleStatus)
	assert.Len(t, f.ledger.Events, 1)
}

func TestHandleNotification_PendingThenExpire(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.seedOrder(t, "o2", "u1")

	_, err := f.svc.InitiatePayment(ctx, "o2", "u1")
	require.NoError(t, err)
	ref := f.gatewayRef(t, "o2")

	pending := f.notification(t, ref, "pending", "")
	require.NoError(t, f.svc.HandleNotification(ctx, pending))

	o, err := f.store.Get(ctx, "o2")
	require.NoError(t, err)
	assert.Equal(t, orders.PaymentPending, o.PaymentStatus)

	expire := f.notification(t, ref, "expire", "")
	require.NoError(t, f.svc.HandleNotification(ctx, expire))

	o, err = f.store.Get(ctx, "o2")
	require.NoError(t, err)
	assert.Equal(t, orders.PaymentFailed, o.PaymentStatus)

	// a late duplicate pending after expire stays ignored
	require.NoError(t, f.svc.HandleNotification(ctx, pending))
	o, err = f.store.Get(ctx, "o2")
	require.NoError(t, err)
	assert.Equal(t, orders.PaymentFailed, o.PaymentStatus)
}

func TestHandleNotification_PaidIsTerminal(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.seedOrder(t, "o1", "u1")

	_, err := f.svc.InitiatePayment(ctx, "o1", "u1")
	require.NoError(t, err)
	ref := f.gatewayRef(t, "o1")

	require.NoError(t, f.svc.HandleNotification(ctx, f.notification(t, ref, "settlement", "accept")))

	for _, late := range []string{"pending", "expire", "cancel", "refund"} {
		require.NoError(t, f.svc.HandleNotification(ctx, f.notification(t, ref, late, "")))
		o, err := f.store.Get(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, orders.PaymentPaid, o.PaymentStatus, "late %s must not move a paid order", late)
	}
}

func TestHandleNotification_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("unverifiable payload updates nothing", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedOrder(t, "o1", "u1")
		_, err := f.svc.InitiatePayment(ctx, "o1", "u1")
		require.NoError(t, err)
		ref := f.gatewayRef(t, "o1")

		body := f.notification(t, ref, "settlement", "accept")
		tampered := []byte(strings.Replace(string(body), "150000.00", "1.00", 1))

		err = f.svc.HandleNotification(ctx, tampered)
		assert.ErrorIs(t, err, ErrInvalidNotification)

		o, err := f.store.Get(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, orders.PaymentUnpaid, o.PaymentStatus)
		assert.Empty(t, f.ledger.Events)
	})

	t.Run("unmatched correlation id", func(t *testing.T) {
		f := newEngineFixture(t)
		body := f.notification(t, "ORDER-ghost-1", "settlement", "accept")
		err := f.svc.HandleNotification(ctx, body)
		assert.ErrorIs(t, err, orders.ErrNotFound)
	})

	t.Run("ledger write failure is retryable", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedOrder(t, "o1", "u1")
		_, err := f.svc.InitiatePayment(ctx, "o1", "u1")
		require.NoError(t, err)
		ref := f.gatewayRef(t, "o1")

		f.ledger.Err = assert.AnError
		err = f.svc.HandleNotification(ctx, f.notification(t, ref, "settlement", "accept"))
		require.Error(t, err)

		o, err := f.store.Get(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, orders.PaymentUnpaid, o.PaymentStatus)

		// gateway redelivers after the transient failure clears
		f.ledger.Err = nil
		require.NoError(t, f.svc.HandleNotification(ctx, f.notification(t, ref, "settlement", "accept")))
		o, err = f.store.Get(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, orders.PaymentPaid, o.PaymentStatus)
	})
}

// lostRaceStore loses every CAS attempt, driving the retry loops to their
// bound.
type lostRaceStore struct{ orders.Store }

func (s lostRaceStore) Update(ctx context.Context, o orders.Order) error {
	return orders.ErrStale
}

func TestCASExhaustion(t *testing.T) {
	ctx := context.Background()

	t.Run("notification apply surfaces conflict", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedOrder(t, "o1", "u1")
		_, err := f.svc.InitiatePayment(ctx, "o1", "u1")
		require.NoError(t, err)
		ref := f.gatewayRef(t, "o1")

		svc := NewService(lostRaceStore{f.store}, NewMemLedger(), f.gateway,
			fakeContacts{}, fakePackages{}, f.blobs, 0, nil)

		err = svc.HandleNotification(ctx, f.notification(t, ref, "settlement", "accept"))
		assert.ErrorIs(t, err, ErrConflict)

		o, err := f.store.Get(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, orders.PaymentUnpaid, o.PaymentStatus)
	})

	t.Run("initiation surfaces conflict", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedOrder(t, "o1", "u1")

		svc := NewService(lostRaceStore{f.store}, NewMemLedger(), f.gateway,
			fakeContacts{}, fakePackages{}, f.blobs, 0, nil)

		_, err := svc.InitiatePayment(ctx, "o1", "u1")
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestPollStatus(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.seedOrder(t, "o1", "u1")

	_, err := f.svc.InitiatePayment(ctx, "o1", "u1")
	require.NoError(t, err)

	v, err := f.svc.PollStatus(ctx, "o1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "o1", v.OrderID)
	assert.Equal(t, orders.PaymentUnpaid, v.PaymentStatus)
	assert.Equal(t, orders.LifecyclePending, v.LifecycleStatus)
	assert.NotEmpty(t, v.ClientToken)

	_, err = f.svc.PollStatus(ctx, "o1", "u2")
	assert.ErrorIs(t, err, orders.ErrForbidden)

	_, err = f.svc.PollStatus(ctx, "missing", "u1")
	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestManualPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("marks paid and stores the transfer proof", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedOrder(t, "o1", "u1")

		o, err := f.svc.ManualPayment(ctx, ManualPaymentInput{
			OrderID:          "o1",
			RequesterID:      "u1",
			Method:           "bank_transfer",
			Proof:            strings.NewReader("proof-bytes"),
			ProofFilename:    "proof.png",
			ProofContentType: "image/png",
			ProofSize:        11,
		})
		require.NoError(t, err)
		assert.Equal(t, orders.PaymentPaid, o.PaymentStatus)
		assert.Equal(t, orders.LifecyclePaid, o.LifecycleStatus)
		require.NotNil(t, o.TransferProof)
		assert.Len(t, f.blobs.Objects, 1)

		// second declaration is rejected
		_, err = f.svc.ManualPayment(ctx, ManualPaymentInput{OrderID: "o1", RequesterID: "u1"})
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	})

	t.Run("cannot regress a gateway-settled order", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedOrder(t, "o1", "u1")
		_, err := f.svc.InitiatePayment(ctx, "o1", "u1")
		require.NoError(t, err)
		ref := f.gatewayRef(t, "o1")
		require.NoError(t, f.svc.HandleNotification(ctx, f.notification(t, ref, "settlement", "accept")))

		_, err = f.svc.ManualPayment(ctx, ManualPaymentInput{OrderID: "o1", RequesterID: "u1"})
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	})

	t.Run("owner only", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedOrder(t, "o1", "u1")
		_, err := f.svc.ManualPayment(ctx, ManualPaymentInput{OrderID: "o1", RequesterID: "u2"})
		assert.ErrorIs(t, err, orders.ErrForbidden)
	})
}

// Concurrent redelivery and polling must never expose a half-applied write:
// a view with paymentStatus paid always carries the advanced lifecycle too.
func TestConcurrentNotificationAndPoll(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.seedOrder(t, "o1", "u1")

	_, err := f.svc.InitiatePayment(ctx, "o1", "u1")
	require.NoError(t, err)
	ref := f.gatewayRef(t, "o1")
	body := f.notification(t, ref, "settlement", "accept")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.svc.HandleNotification(ctx, body))
		}()
	}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				v, err := f.svc.PollStatus(ctx, "o1", "u1")
				if !assert.NoError(t, err) {
					return
				}
				if v.PaymentStatus == orders.PaymentPaid {
					assert.Equal(t, orders.LifecycleProcessing, v.LifecycleStatus)
				}
			}
		}()
	}
	wg.Wait()

	o, err := f.store.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, orders.PaymentPaid, o.PaymentStatus)
	assert.Equal(t, orders.LifecycleProcessing, o.LifecycleStatus)
}
