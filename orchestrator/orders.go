package orchestrator

import (
	"context"

	"github.com/evadsh3ll/axelx/internal/client"
	"github.com/evadsh3ll/axelx/internal/model"
)

// OrderView is the data payload of order lifecycle operations.
type OrderView struct {
	OrderToken        string           `json:"orderToken"`
	Kind              model.OrderKind  `json:"kind"`
	State             model.OrderState `json:"state"`
	ExternalRequestID string           `json:"externalRequestId,omitempty"`
	ExternalOrderID   string           `json:"externalOrderId,omitempty"`
	Signature         string           `json:"signature,omitempty"`
	Status            string           `json:"status,omitempty"`
}

func viewOf(o model.PendingOrder) OrderView {
	return OrderView{
		OrderToken:        o.OrderToken,
		Kind:              o.Kind,
		State:             o.State,
		ExternalRequestID: o.ExternalRequestID,
		ExternalOrderID:   o.ExternalOrderID,
	}
}

// ProposeTriggerOrder validates and records a price-triggered swap proposal.
// The order is not sent to the venue until the user confirms.
func (o *Orchestrator) ProposeTriggerOrder(ownerID string, params model.TriggerParams) model.Result {
	record, err := o.walletOf(ownerID)
	if err != nil {
		return model.Fail(err)
	}

	token, err := o.ledger.ProposeTrigger(ownerID, record.PublicKey, params)
	if err != nil {
		return model.Fail(err)
	}
	return model.OK(OrderView{OrderToken: token, Kind: model.OrderKindTrigger, State: model.OrderStateProposed})
}

// ProposeRecurringOrder validates and records a recurring swap proposal.
func (o *Orchestrator) ProposeRecurringOrder(ownerID string, params model.RecurringParams) model.Result {
	record, err := o.walletOf(ownerID)
	if err != nil {
		return model.Fail(err)
	}

	token, err := o.ledger.ProposeRecurring(ownerID, record.PublicKey, params)
	if err != nil {
		return model.Fail(err)
	}
	return model.OK(OrderView{OrderToken: token, Kind: model.OrderKindRecurring, State: model.OrderStateProposed})
}

// ConfirmOrder mints the proposed order at the venue. The order then awaits
// an explicit execution trigger.
func (o *Orchestrator) ConfirmOrder(ctx context.Context, ownerID, orderToken string) model.Result {
	if _, err := o.ownedOrder(ownerID, orderToken); err != nil {
		return model.Fail(err)
	}

	confirmed, err := o.ledger.Confirm(ctx, orderToken)
	if err != nil {
		return model.Fail(err)
	}
	return model.OK(viewOf(confirmed))
}

// ExecuteOrder signs the order's stored transaction with the owner's custody
// key and submits it. At most one execution attempt per token can be in
// flight; concurrent attempts conflict.
func (o *Orchestrator) ExecuteOrder(ctx context.Context, ownerID, orderToken string) model.Result {
	order, err := o.ownedOrder(ownerID, orderToken)
	if err != nil {
		return model.Fail(err)
	}
	if order.State != model.OrderStateAwaitingExecution {
		return model.Fail(&model.ConflictError{Reason: "order is not awaiting execution"})
	}

	signed, err := o.signFor(ctx, ownerID, order.UnsignedTx)
	if err != nil {
		return model.Fail(err)
	}

	receipt, err := o.ledger.Execute(ctx, orderToken, signed)
	if err != nil {
		return model.Fail(err)
	}

	view := viewOf(order)
	view.State = model.OrderStateExecuted
	view.Signature = receipt.Signature
	view.Status = receipt.Status
	return model.OK(view)
}

// CancelOrder removes the order locally and, when the venue already minted
// it, kicks off a best-effort external cancellation in the background.
func (o *Orchestrator) CancelOrder(ownerID, orderToken string) model.Result {
	if _, err := o.ownedOrder(ownerID, orderToken); err != nil {
		return model.Fail(err)
	}

	cancelled, err := o.ledger.Cancel(orderToken)
	if err != nil {
		return model.Fail(err)
	}
	return model.OK(viewOf(cancelled))
}

// ListOrders fetches the owner's orders of one kind from the venue. status
// is "active" or "history".
func (o *Orchestrator) ListOrders(ctx context.Context, ownerID string, kind model.OrderKind, status string) model.Result {
	record, err := o.walletOf(ownerID)
	if err != nil {
		return model.Fail(err)
	}
	if status != "active" && status != "history" {
		return model.Fail(&model.ValidationError{Message: "status must be active or history"})
	}

	var orders []client.VenueOrder
	if kind == model.OrderKindRecurring {
		orders, err = o.venue.ListRecurringOrders(ctx, record.PublicKey, status)
	} else {
		orders, err = o.venue.ListTriggerOrders(ctx, record.PublicKey, status)
	}
	if err != nil {
		return model.Fail(err)
	}
	return model.OK(orders)
}

// ownedOrder loads a ledger order and checks it belongs to the caller. A
// foreign token reads as unknown so tokens cannot be probed across owners.
func (o *Orchestrator) ownedOrder(ownerID, orderToken string) (model.PendingOrder, error) {
	order, err := o.ledger.Get(orderToken)
	if err != nil {
		return model.PendingOrder{}, err
	}
	if order.OwnerID != ownerID {
		return model.PendingOrder{}, &model.NotFoundError{Message: "unknown order token"}
	}
	return order, nil
}
