package orchestrator

import (
	"context"
	"fmt"

	"github.com/evadsh3ll/axelx/internal/model"
	"github.com/evadsh3ll/axelx/internal/watcher"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// WatcherView is the data payload of watcher operations.
type WatcherView struct {
	WatcherID    string               `json:"watcherId"`
	AssetID      string               `json:"assetId"`
	Condition    model.WatchCondition `json:"condition"`
	Threshold    decimal.Decimal      `json:"threshold"`
	CurrentPrice decimal.Decimal      `json:"currentPrice"`
	Matched      bool                 `json:"matched"`
}

// RegisterWatcher sets up a price alert. When the current price already
// satisfies the condition the alert resolves immediately without starting a
// poll task; otherwise a background watcher checks on every poll period and
// notifies the user exactly once on first match.
func (o *Orchestrator) RegisterWatcher(ctx context.Context, ownerID, assetID string, cond model.WatchCondition, threshold decimal.Decimal) model.Result {
	token, err := o.venue.SearchToken(ctx, assetID)
	if err != nil {
		return model.Fail(err)
	}
	current := decimal.NewFromFloat(token.USDPrice)

	if cond.Satisfied(current, threshold) {
		return model.OK(WatcherView{
			AssetID:      token.ID,
			Condition:    cond,
			Threshold:    threshold,
			CurrentPrice: current,
			Matched:      true,
		})
	}

	symbol := token.Symbol
	handle, err := o.watchers.Register(ownerID, token.ID, cond, threshold, o.priceFetcher(),
		func(w model.ActiveWatcher, price decimal.Decimal) {
			text := fmt.Sprintf("%s is now at $%s (target: %s $%s)",
				symbol, price.StringFixed(4), w.Condition, w.Threshold)
			if err := o.notify.SendMessage(w.OwnerID, text); err != nil {
				logrus.WithError(err).WithField("watcher", w.WatcherID).Error("failed to deliver price alert")
			}
		})
	if err != nil {
		return model.Fail(err)
	}

	return model.OK(WatcherView{
		WatcherID:    handle.WatcherID,
		AssetID:      token.ID,
		Condition:    cond,
		Threshold:    threshold,
		CurrentPrice: current,
	})
}

// CancelWatcher stops one watcher. Cancelling a watcher that already matched
// or was never registered is a no-op.
func (o *Orchestrator) CancelWatcher(ownerID, watcherID string) model.Result {
	o.watchers.Cancel(watcher.Handle{WatcherID: watcherID, OwnerID: ownerID})
	return model.OK(map[string]string{"watcherId": watcherID, "status": "cancelled"})
}

// CancelAllWatchers stops every live watcher the owner has.
func (o *Orchestrator) CancelAllWatchers(ownerID string) model.Result {
	n := o.watchers.CancelOwner(ownerID)
	return model.OK(map[string]int{"cancelled": n})
}

// ListWatchers returns the owner's live watchers.
func (o *Orchestrator) ListWatchers(ownerID string) model.Result {
	return model.OK(o.watchers.Active(ownerID))
}
