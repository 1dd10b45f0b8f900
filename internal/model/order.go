package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderKind distinguishes the two deferred swap flavors the venue supports.
type OrderKind string

const (
	OrderKindTrigger   OrderKind = "trigger"
	OrderKindRecurring OrderKind = "recurring"
)

// OrderState is the lifecycle position of a pending order. Transitions are
// monotonic: Proposed -> AwaitingExecution | Failed, AwaitingExecution ->
// Executed, and {Proposed, AwaitingExecution} -> Cancelled. Everything except
// Proposed and AwaitingExecution is terminal.
type OrderState string

const (
	OrderStateProposed          OrderState = "proposed"
	OrderStateAwaitingExecution OrderState = "awaiting_execution"
	OrderStateExecuted          OrderState = "executed"
	OrderStateCancelled         OrderState = "cancelled"
	OrderStateFailed            OrderState = "failed"
)

// TriggerParams are the user-facing parameters of a price-triggered swap.
// Amount is in whole input units, TargetPrice in USD per unit.
type TriggerParams struct {
	InputMint   string          `json:"inputMint"`
	OutputMint  string          `json:"outputMint"`
	Amount      decimal.Decimal `json:"amount"`
	TargetPrice decimal.Decimal `json:"targetPrice"`
}

// RecurringParams are the user-facing parameters of a scheduled recurring
// swap. TotalAmount is in whole input units and is split evenly across
// NumberOfOrders executions, one every IntervalSeconds.
type RecurringParams struct {
	InputMint       string          `json:"inputMint"`
	OutputMint      string          `json:"outputMint"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	NumberOfOrders  int             `json:"numberOfOrders"`
	IntervalSeconds int64           `json:"intervalSeconds"`
}

// PendingOrder is a proposed order tracked by the ledger until it reaches a
// terminal state or its TTL passes. OrderToken is unique across all owners
// and distinct from the venue's own request/order identifiers.
type PendingOrder struct {
	OrderToken        string           `json:"orderToken"`
	OwnerID           string           `json:"ownerId"`
	OwnerPublicKey    string           `json:"ownerPublicKey"`
	Kind              OrderKind        `json:"kind"`
	Trigger           *TriggerParams   `json:"trigger,omitempty"`
	Recurring         *RecurringParams `json:"recurring,omitempty"`
	State             OrderState       `json:"state"`
	ExternalRequestID string           `json:"externalRequestId,omitempty"`
	ExternalOrderID   string           `json:"externalOrderId,omitempty"`
	UnsignedTx        []byte           `json:"-"`
	CreatedAt         time.Time        `json:"createdAt"`
	ExpiresAt         time.Time        `json:"expiresAt"`
}

// InputMint returns the input asset regardless of kind.
func (o *PendingOrder) InputMint() string {
	if o.Kind == OrderKindRecurring && o.Recurring != nil {
		return o.Recurring.InputMint
	}
	if o.Trigger != nil {
		return o.Trigger.InputMint
	}
	return ""
}

// OutputMint returns the output asset regardless of kind.
func (o *PendingOrder) OutputMint() string {
	if o.Kind == OrderKindRecurring && o.Recurring != nil {
		return o.Recurring.OutputMint
	}
	if o.Trigger != nil {
		return o.Trigger.OutputMint
	}
	return ""
}

// ExecutionReceipt is the venue's acknowledgement of a submitted signed
// transaction.
type ExecutionReceipt struct {
	Signature string `json:"signature"`
	Status    string `json:"status"`
}
