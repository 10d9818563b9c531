package payments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"bengkelku.id/app/internal/modules/catalog"
	"bengkelku.id/app/internal/modules/orders"
	"bengkelku.id/app/internal/modules/users"
	"bengkelku.id/app/internal/storage"
)

// Bounded optimistic-concurrency retries per operation; exhaustion surfaces
// ErrConflict and the caller retries the whole operation.
const maxCASAttempts = 3

type ContactFinder interface {
	Contact(ctx context.Context, id string) (users.Contact, error)
}

type PackageFinder interface {
	GetPackage(ctx context.Context, id string) (catalog.Package, error)
}

// Service is the reconciliation engine: it owns every transition of an
// order's payment fields and guarantees idempotent convergence no matter how
// the three input signals (initiation, gateway notification, polling) are
// ordered or duplicated.
type Service struct {
	store    orders.Store
	ledger   NotificationLedger
	gateway  Gateway
	contacts ContactFinder
	packages PackageFinder
	blobs    storage.Storage
	cache    *statusCache
	logger   *slog.Logger
}

func NewService(
	store orders.Store,
	ledger NotificationLedger,
	gateway Gateway,
	contacts ContactFinder,
	packages PackageFinder,
	blobs storage.Storage,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		ledger:   ledger,
		gateway:  gateway,
		contacts: contacts,
		packages: packages,
		blobs:    blobs,
		cache:    newStatusCache(cacheTTL),
		logger:   logger,
	}
}

type InitiateResult struct {
	OrderID string
	Token   string
	Amount  int64
}

// InitiatePayment creates a hosted-checkout transaction for the order's
// snapshotted amount and stores the correlation ref and client token.
// Initiation is not a payment event: paymentStatus is left untouched. The
// gateway call happens before any local write, so a timed-out call is safe
// to retry from scratch.
func (s *Service) InitiatePayment(ctx context.Context, orderID, requesterID string) (InitiateResult, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return InitiateResult{}, err
	}
	if o.OwnerID != requesterID {
		return InitiateResult{}, orders.ErrForbidden
	}
	if o.PaymentStatus == orders.PaymentPaid {
		return InitiateResult{}, ErrAlreadyPaid
	}

	contact, err := s.contacts.Contact(ctx, o.OwnerID)
	if err != nil {
		return InitiateResult{}, fmt.Errorf("payer contact: %w", err)
	}
	pkg, err := s.packages.GetPackage(ctx, o.PackageID)
	if err != nil {
		return InitiateResult{}, fmt.Errorf("package snapshot: %w", err)
	}

	corr := fmt.Sprintf("ORDER-%s-%d", o.ID, time.Now().UnixMilli())
	phone := contact.PhoneNumber
	if phone == "" {
		phone = "08111222333"
	}

	resp, err := s.gateway.CreateTransaction(ctx, CreateTransactionRequest{
		CorrelationID: corr,
		Amount:        o.TotalAmount,
		ItemID:        pkg.ID,
		ItemName:      pkg.Name,
		PayerName:     payerName(contact.Email),
		PayerEmail:    contact.Email,
		PayerPhone:    phone,
	})
	if err != nil {
		return InitiateResult{}, err
	}

	// Re-initiation replaces the previous ref/token in a single CAS write,
	// so exactly one ref is ever active for the order.
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		o.GatewayTxnRef = &corr
		o.GatewayClientToken = &resp.Token
		err = s.store.Update(ctx, o)
		if err == nil {
			s.cache.invalidate(o.ID)
			s.logger.InfoContext(ctx, "payment initiated",
				"order_id", o.ID, "gateway", s.gateway.Name(), "gateway_ref", corr, "amount", o.TotalAmount)
			return InitiateResult{OrderID: o.ID, Token: resp.Token, Amount: o.TotalAmount}, nil
		}
		if !errors.Is(err, orders.ErrStale) {
			return InitiateResult{}, err
		}
		if o, err = s.store.Get(ctx, orderID); err != nil {
			return InitiateResult{}, err
		}
		if o.PaymentStatus == orders.PaymentPaid {
			return InitiateResult{}, ErrAlreadyPaid
		}
	}
	return InitiateResult{}, ErrConflict
}

// HandleNotification is the webhook entry point. Verification fails closed;
// nothing is read from the payload before its signature checks out. Safe to
// invoke concurrently and repeatedly for the same transaction: the ledger
// absorbs redeliveries and the forward-transition rule makes the apply a
// no-op on replay.
func (s *Service) HandleNotification(ctx context.Context, body []byte) error {
	n, err := s.gateway.VerifyNotification(body)
	if err != nil {
		return err
	}

	o, err := s.store.ByGatewayRef(ctx, n.OrderRef)
	if err != nil {
		return err
	}

	dup, err := s.ledger.Record(ctx, NotificationEvent{
		ID:             uuid.NewString(),
		Gateway:        s.gateway.Name(),
		GatewayRef:     n.OrderRef,
		ReportedStatus: n.TransactionStatus,
		OrderID:        o.ID,
		PayloadJSON:    datatypes.JSON(body),
		ReceivedAt:     time.Now(),
	})
	if err != nil {
		// ledger write failed: report retryable so the gateway redelivers
		return fmt.Errorf("notification ledger: %w", err)
	}
	if dup {
		s.logger.InfoContext(ctx, "notification redelivered",
			"order_id", o.ID, "gateway_ref", n.OrderRef, "transaction_status", n.TransactionStatus)
	}

	target := Classify(n.TransactionStatus, n.FraudStatus)

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		if !Forward(o.PaymentStatus, target) {
			s.logger.InfoContext(ctx, "notification ignored by forward rule",
				"order_id", o.ID, "current", o.PaymentStatus, "reported", target)
			return nil
		}

		o.PaymentStatus = target
		if target == orders.PaymentPaid {
			// settlement also unblocks fulfilment; both fields land in the
			// same versioned write so a poll never sees them apart
			o.LifecycleStatus = orders.LifecycleProcessing
		}
		if n.PaymentType != "" {
			pt := n.PaymentType
			o.PaymentMethod = &pt
		}

		err = s.store.Update(ctx, o)
		if err == nil {
			s.cache.invalidate(o.ID)
			s.logger.InfoContext(ctx, "notification applied",
				"order_id", o.ID, "payment_status", target, "lifecycle_status", o.LifecycleStatus,
				"transaction_status", n.TransactionStatus)
			return nil
		}
		if !errors.Is(err, orders.ErrStale) {
			return err
		}
		if o, err = s.store.Get(ctx, o.ID); err != nil {
			return err
		}
	}
	return ErrConflict
}

type StatusView struct {
	OrderID         string
	PaymentStatus   string
	LifecycleStatus string
	ClientToken     string
}

// PollStatus is the read model for client polling. Never mutates; serves
// from a short-TTL cache since polling tolerates a few seconds of lag.
func (s *Service) PollStatus(ctx context.Context, orderID, requesterID string) (StatusView, error) {
	o, ok := s.cache.get(orderID)
	if !ok {
		var err error
		if o, err = s.store.Get(ctx, orderID); err != nil {
			return StatusView{}, err
		}
		s.cache.set(o)
	}
	if o.OwnerID != requesterID {
		return StatusView{}, orders.ErrForbidden
	}

	v := StatusView{
		OrderID:         o.ID,
		PaymentStatus:   o.PaymentStatus,
		LifecycleStatus: o.LifecycleStatus,
	}
	if o.GatewayClientToken != nil {
		v.ClientToken = *o.GatewayClientToken
	}
	return v, nil
}

type ManualPaymentInput struct {
	OrderID     string
	RequesterID string
	Method      string

	// optional proof-of-transfer upload
	Proof            io.Reader
	ProofFilename    string
	ProofContentType string
	ProofSize        int64
}

// ManualPayment is the out-of-band settlement path: the owner declares the
// order paid, optionally attaching a transfer proof. Goes through the same
// forward gate, so it cannot regress a gateway-settled order.
func (s *Service) ManualPayment(ctx context.Context, in ManualPaymentInput) (orders.Order, error) {
	o, err := s.store.Get(ctx, in.OrderID)
	if err != nil {
		return orders.Order{}, err
	}
	if o.OwnerID != in.RequesterID {
		return orders.Order{}, orders.ErrForbidden
	}
	if o.PaymentStatus == orders.PaymentPaid {
		return orders.Order{}, ErrAlreadyPaid
	}

	var proofURL *string
	if in.Proof != nil {
		put, err := s.blobs.Put(ctx, in.Proof, storage.PutInput{
			Filename:    in.ProofFilename,
			ContentType: in.ProofContentType,
			Size:        in.ProofSize,
		})
		if err != nil {
			return orders.Order{}, fmt.Errorf("transfer proof upload: %w", err)
		}
		proofURL = &put.URL
	}

	method := in.Method
	if method == "" {
		method = "manual_transfer"
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		o.PaymentStatus = orders.PaymentPaid
		o.LifecycleStatus = orders.LifecyclePaid
		o.PaymentMethod = &method
		if proofURL != nil {
			o.TransferProof = proofURL
		}

		err = s.store.Update(ctx, o)
		if err == nil {
			s.cache.invalidate(o.ID)
			s.logger.InfoContext(ctx, "manual payment applied",
				"order_id", o.ID, "method", method)
			return o, nil
		}
		if !errors.Is(err, orders.ErrStale) {
			return orders.Order{}, err
		}
		if o, err = s.store.Get(ctx, in.OrderID); err != nil {
			return orders.Order{}, err
		}
		if o.PaymentStatus == orders.PaymentPaid {
			return orders.Order{}, ErrAlreadyPaid
		}
	}
	return orders.Order{}, ErrConflict
}

func payerName(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
