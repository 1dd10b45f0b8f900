// Package ledger tracks in-flight order proposals and enforces at-most-once
// execution per order token.
package ledger

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/evadsh3ll/axelx/internal/client"
	"github.com/evadsh3ll/axelx/internal/common"
	"github.com/evadsh3ll/axelx/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Minimum notional sizes enforced at propose time, in USD.
var (
	minTriggerNotional   = decimal.NewFromInt(5)
	minRecurringTotal    = decimal.NewFromInt(100)
	minRecurringPerOrder = decimal.NewFromInt(50)
)

const minRecurringOrders = 2

// solAssetID is the quote asset used to convert USD notionals to lamports.
const solAssetID = "SOL"

// Venue is the subset of the trading venue the ledger calls.
type Venue interface {
	CreateTriggerOrder(ctx context.Context, req *client.CreateTriggerRequest) (*client.CreateOrderResponse, error)
	CreateRecurringOrder(ctx context.Context, req *client.CreateRecurringRequest) (*client.CreateOrderResponse, error)
	SubmitSigned(ctx context.Context, family, signedTxBase64, requestID string) (*model.ExecutionReceipt, error)
	CancelTriggerOrder(ctx context.Context, maker, orderID string) (string, error)
	CancelRecurringOrder(ctx context.Context, user, orderID string) (string, error)
	GetPrice(ctx context.Context, assetID string) (decimal.Decimal, error)
}

// SignFunc signs an unsigned transaction on behalf of an owner. The ledger
// uses it only for best-effort external cancellation.
type SignFunc func(ctx context.Context, ownerID string, unsignedTx []byte) ([]byte, error)

type entry struct {
	order    model.PendingOrder
	inFlight bool // a confirm or execute venue call is out for this token
}

// Ledger is the keyed order state machine. All transitions for one token are
// serialized under the ledger lock; the lock is never held across a venue
// call. A venue call is bracketed by an optimistic in-flight claim that is
// rolled back if the call fails.
type Ledger struct {
	mu     sync.Mutex
	orders map[string]*entry

	venue Venue
	sign  SignFunc
	ttl   time.Duration
}

// New creates a ledger. ttl bounds how long a proposal is kept without
// reaching a terminal state.
func New(venue Venue, sign SignFunc, ttl time.Duration) *Ledger {
	return &Ledger{
		orders: make(map[string]*entry),
		venue:  venue,
		sign:   sign,
		ttl:    ttl,
	}
}

// ProposeTrigger validates and stores a trigger order proposal.
func (l *Ledger) ProposeTrigger(ownerID, ownerPubkey string, params model.TriggerParams) (string, error) {
	if params.InputMint == "" || params.OutputMint == "" {
		return "", &model.ValidationError{Message: "input and output assets are required"}
	}
	if !params.Amount.IsPositive() || !params.TargetPrice.IsPositive() {
		return "", &model.ValidationError{Message: "amount and target price must be positive"}
	}
	if common.Notional(params.Amount, params.TargetPrice).LessThan(minTriggerNotional) {
		return "", &model.ValidationError{
			Message: fmt.Sprintf("minimum trigger order size is %s USD", minTriggerNotional),
		}
	}

	return l.store(ownerID, ownerPubkey, model.OrderKindTrigger, &params, nil), nil
}

// ProposeRecurring validates and stores a recurring order proposal.
func (l *Ledger) ProposeRecurring(ownerID, ownerPubkey string, params model.RecurringParams) (string, error) {
	if params.InputMint == "" || params.OutputMint == "" {
		return "", &model.ValidationError{Message: "input and output assets are required"}
	}
	if params.NumberOfOrders < minRecurringOrders {
		return "", &model.ValidationError{Message: fmt.Sprintf("minimum %d orders required", minRecurringOrders)}
	}
	if params.IntervalSeconds <= 0 {
		return "", &model.ValidationError{Message: "interval must be positive"}
	}
	if params.TotalAmount.LessThan(minRecurringTotal) {
		return "", &model.ValidationError{
			Message: fmt.Sprintf("minimum total amount is %s USD", minRecurringTotal),
		}
	}
	perOrder := params.TotalAmount.Div(decimal.NewFromInt(int64(params.NumberOfOrders)))
	if perOrder.LessThan(minRecurringPerOrder) {
		return "", &model.ValidationError{
			Message: fmt.Sprintf("minimum amount per order is %s USD; with %d orders you need at least %s USD total",
				minRecurringPerOrder, params.NumberOfOrders,
				minRecurringPerOrder.Mul(decimal.NewFromInt(int64(params.NumberOfOrders)))),
		}
	}

	return l.store(ownerID, ownerPubkey, model.OrderKindRecurring, nil, &params), nil
}

func (l *Ledger) store(ownerID, ownerPubkey string, kind model.OrderKind, trig *model.TriggerParams, rec *model.RecurringParams) string {
	token := uuid.NewString()
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.orders[token] = &entry{order: model.PendingOrder{
		OrderToken:     token,
		OwnerID:        ownerID,
		OwnerPublicKey: ownerPubkey,
		Kind:           kind,
		Trigger:        trig,
		Recurring:      rec,
		State:          model.OrderStateProposed,
		CreatedAt:      now,
		ExpiresAt:      now.Add(l.ttl),
	}}
	return token
}

// Get returns a snapshot of a tracked order.
func (l *Ledger) Get(token string) (model.PendingOrder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, err := l.lookupLocked(token)
	if err != nil {
		return model.PendingOrder{}, err
	}
	return e.order, nil
}

// lookupLocked finds a live entry, reclaiming it if its TTL passed. Callers
// must hold l.mu.
func (l *Ledger) lookupLocked(token string) (*entry, error) {
	e, ok := l.orders[token]
	if !ok {
		return nil, &model.NotFoundError{Message: "unknown order token"}
	}
	if time.Now().After(e.order.ExpiresAt) {
		delete(l.orders, token)
		return nil, &model.NotFoundError{Message: "unknown order token", Evicted: true}
	}
	return e, nil
}

// Confirm mints the proposed order at the venue and stores the unsigned
// transaction it returns. On venue failure the order is marked Failed and
// dropped; the provider's message is surfaced.
func (l *Ledger) Confirm(ctx context.Context, token string) (model.PendingOrder, error) {
	l.mu.Lock()
	e, err := l.lookupLocked(token)
	if err != nil {
		l.mu.Unlock()
		return model.PendingOrder{}, err
	}
	if e.order.State != model.OrderStateProposed {
		l.mu.Unlock()
		return model.PendingOrder{}, &model.ConflictError{Reason: "order is not awaiting confirmation"}
	}
	if e.inFlight {
		l.mu.Unlock()
		return model.PendingOrder{}, &model.ConflictError{Reason: "OrderAlreadyInFlight"}
	}
	e.inFlight = true
	snapshot := e.order
	l.mu.Unlock()

	created, err := l.mint(ctx, &snapshot)

	l.mu.Lock()
	defer l.mu.Unlock()
	e, lookupErr := l.lookupLocked(token)
	if lookupErr != nil {
		// Cancelled or evicted while the venue call was out.
		return model.PendingOrder{}, lookupErr
	}
	e.inFlight = false

	if err != nil {
		e.order.State = model.OrderStateFailed
		delete(l.orders, token)
		return model.PendingOrder{}, err
	}

	e.order.State = model.OrderStateAwaitingExecution
	e.order.ExternalRequestID = created.RequestID
	e.order.ExternalOrderID = created.Order
	e.order.UnsignedTx = []byte(created.Transaction)
	return e.order, nil
}

// mint performs the kind-specific venue create call. Runs without the lock.
func (l *Ledger) mint(ctx context.Context, o *model.PendingOrder) (*client.CreateOrderResponse, error) {
	switch o.Kind {
	case model.OrderKindTrigger:
		solPrice, err := l.venue.GetPrice(ctx, solAssetID)
		if err != nil {
			return nil, err
		}
		taking, err := common.USDToLamports(common.Notional(o.Trigger.Amount, o.Trigger.TargetPrice), solPrice)
		if err != nil {
			return nil, &model.ExternalServiceError{Provider: "jupiter", Message: err.Error()}
		}
		return l.venue.CreateTriggerOrder(ctx, &client.CreateTriggerRequest{
			InputMint:  o.Trigger.InputMint,
			OutputMint: o.Trigger.OutputMint,
			Maker:      o.OwnerPublicKey,
			Payer:      o.OwnerPublicKey,
			Params: client.TriggerAmount{
				MakingAmount: common.SOLToLamports(o.Trigger.Amount),
				TakingAmount: taking,
			},
			ComputeUnitPrice: "auto",
		})
	case model.OrderKindRecurring:
		return l.venue.CreateRecurringOrder(ctx, &client.CreateRecurringRequest{
			User:       o.OwnerPublicKey,
			InputMint:  o.Recurring.InputMint,
			OutputMint: o.Recurring.OutputMint,
			Params: client.RecurringParams{
				Time: client.RecurringTime{
					InAmount:       common.ToRawAmount(o.Recurring.TotalAmount, common.USDCDecimals),
					NumberOfOrders: o.Recurring.NumberOfOrders,
					Interval:       o.Recurring.IntervalSeconds,
				},
			},
		})
	default:
		return nil, &model.ValidationError{Message: "unknown order kind"}
	}
}

// Execute submits signed bytes for an order awaiting execution. The in-flight
// claim is atomic with the state check: a second concurrent Execute on the
// same token is rejected immediately without contacting the venue. On venue
// failure the order stays AwaitingExecution and the call may be retried.
func (l *Ledger) Execute(ctx context.Context, token string, signedTx []byte) (*model.ExecutionReceipt, error) {
	l.mu.Lock()
	e, err := l.lookupLocked(token)
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}
	if e.order.State != model.OrderStateAwaitingExecution {
		l.mu.Unlock()
		return nil, &model.ConflictError{Reason: "order is not awaiting execution"}
	}
	if e.inFlight {
		l.mu.Unlock()
		return nil, &model.ConflictError{Reason: "OrderAlreadyInFlight"}
	}
	e.inFlight = true
	family := familyOf(e.order.Kind)
	requestID := e.order.ExternalRequestID
	l.mu.Unlock()

	receipt, err := l.venue.SubmitSigned(ctx, family, base64.StdEncoding.EncodeToString(signedTx), requestID)

	l.mu.Lock()
	defer l.mu.Unlock()
	e, lookupErr := l.lookupLocked(token)
	if lookupErr != nil {
		if err == nil {
			// Executed at the venue but evicted locally; the receipt is
			// still the truth the caller needs.
			return receipt, nil
		}
		return nil, lookupErr
	}
	e.inFlight = false

	if err != nil {
		return nil, err
	}

	e.order.State = model.OrderStateExecuted
	delete(l.orders, token)
	return receipt, nil
}

// Cancel removes an order from the ledger. Permitted from Proposed and
// AwaitingExecution only. For an order the venue already minted, a
// best-effort external cancellation runs in the background; the local
// removal never waits on it.
func (l *Ledger) Cancel(token string) (model.PendingOrder, error) {
	l.mu.Lock()
	e, err := l.lookupLocked(token)
	if err != nil {
		l.mu.Unlock()
		return model.PendingOrder{}, err
	}
	if e.inFlight {
		l.mu.Unlock()
		return model.PendingOrder{}, &model.ConflictError{Reason: "OrderAlreadyInFlight"}
	}
	if e.order.State != model.OrderStateProposed && e.order.State != model.OrderStateAwaitingExecution {
		l.mu.Unlock()
		return model.PendingOrder{}, &model.ConflictError{Reason: "order is in a terminal state"}
	}
	snapshot := e.order
	wasMinted := e.order.State == model.OrderStateAwaitingExecution
	e.order.State = model.OrderStateCancelled
	delete(l.orders, token)
	l.mu.Unlock()

	if wasMinted {
		go l.cancelExternal(snapshot)
	}

	snapshot.State = model.OrderStateCancelled
	return snapshot, nil
}

// cancelExternal is the detached best-effort venue cancellation. The venue
// requires its own signed transaction before honoring a cancel.
func (l *Ledger) cancelExternal(o model.PendingOrder) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log := logrus.WithFields(logrus.Fields{
		"orderToken": o.OrderToken,
		"owner":      o.OwnerID,
		"kind":       o.Kind,
	})

	var (
		unsignedTx string
		err        error
	)
	switch o.Kind {
	case model.OrderKindTrigger:
		unsignedTx, err = l.venue.CancelTriggerOrder(ctx, o.OwnerPublicKey, o.ExternalOrderID)
	case model.OrderKindRecurring:
		unsignedTx, err = l.venue.CancelRecurringOrder(ctx, o.OwnerPublicKey, o.ExternalOrderID)
	}
	if err != nil {
		log.WithError(err).Warn("external cancel: venue did not return a cancellation transaction")
		return
	}

	signed, err := l.sign(ctx, o.OwnerID, []byte(unsignedTx))
	if err != nil {
		log.WithError(err).Warn("external cancel: signing failed")
		return
	}

	requestID := o.ExternalOrderID
	if requestID == "" {
		requestID = o.ExternalRequestID
	}
	if _, err := l.venue.SubmitSigned(ctx, familyOf(o.Kind), base64.StdEncoding.EncodeToString(signed), requestID); err != nil {
		log.WithError(err).Warn("external cancel: submission failed")
		return
	}
	log.Info("external cancel submitted")
}

// Run sweeps expired entries until ctx is done. Lazy eviction on access
// already keeps lookups correct; the sweep bounds memory for tokens nobody
// touches again.
func (l *Ledger) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *Ledger) sweep() {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for token, e := range l.orders {
		if e.inFlight {
			continue
		}
		if now.After(e.order.ExpiresAt) {
			delete(l.orders, token)
			logrus.WithFields(logrus.Fields{
				"orderToken": token,
				"owner":      e.order.OwnerID,
			}).Debug("evicted expired order")
		}
	}
}

// Len reports how many orders are currently tracked.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.orders)
}

func familyOf(kind model.OrderKind) string {
	if kind == model.OrderKindRecurring {
		return "recurring"
	}
	return "trigger"
}
