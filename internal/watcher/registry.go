// Package watcher manages background price-watch polling tasks with one-shot
// match callbacks and clean cancellation.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evadsh3ll/axelx/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PriceFetcher reads the current price of an asset. A nil-price failure is a
// skipped tick, not a watcher error.
type PriceFetcher func(ctx context.Context, assetID string) (decimal.Decimal, error)

// MatchFunc is the one-shot callback fired with the first matching price.
type MatchFunc func(watcher model.ActiveWatcher, price decimal.Decimal)

// Handle identifies a registered watcher for cancellation.
type Handle struct {
	WatcherID string
	OwnerID   string
}

type watch struct {
	info   model.ActiveWatcher
	fetch  PriceFetcher
	notify MatchFunc
	cancel context.CancelFunc

	// done flips exactly once, under the owning registry's lock. Whoever
	// flips it owns the single terminal action (match or cancel).
	done bool
}

// Registry owns all active watchers and their poll goroutines. Each watcher
// is removed exactly once: either it auto-deregisters on first match or an
// explicit cancel wins, never both.
type Registry struct {
	mu      sync.Mutex
	byID    map[string]*watch
	byOwner map[string]map[string]*watch

	interval    time.Duration
	maxPerOwner int
}

// New creates a registry polling on the given period with a per-owner cap on
// live watchers.
func New(interval time.Duration, maxPerOwner int) *Registry {
	return &Registry{
		byID:        make(map[string]*watch),
		byOwner:     make(map[string]map[string]*watch),
		interval:    interval,
		maxPerOwner: maxPerOwner,
	}
}

// Register starts a poll task for one owner/asset/condition and returns its
// handle. The callback fires at most once.
func (r *Registry) Register(ownerID, assetID string, cond model.WatchCondition, threshold decimal.Decimal, fetch PriceFetcher, notify MatchFunc) (Handle, error) {
	if assetID == "" {
		return Handle{}, &model.ValidationError{Message: "asset is required"}
	}
	if cond != model.ConditionAbove && cond != model.ConditionBelow {
		return Handle{}, &model.ValidationError{Message: "condition must be above or below"}
	}
	if !threshold.IsPositive() {
		return Handle{}, &model.ValidationError{Message: "threshold must be positive"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &watch{
		info: model.ActiveWatcher{
			WatcherID: uuid.NewString(),
			OwnerID:   ownerID,
			AssetID:   assetID,
			Condition: cond,
			Threshold: threshold,
			CreatedAt: time.Now(),
		},
		fetch:  fetch,
		notify: notify,
		cancel: cancel,
	}

	r.mu.Lock()
	if len(r.byOwner[ownerID]) >= r.maxPerOwner {
		r.mu.Unlock()
		cancel()
		return Handle{}, &model.ConflictError{
			Reason: fmt.Sprintf("WatcherLimitReached: at most %d watchers per user", r.maxPerOwner),
		}
	}
	r.byID[w.info.WatcherID] = w
	if r.byOwner[ownerID] == nil {
		r.byOwner[ownerID] = make(map[string]*watch)
	}
	r.byOwner[ownerID][w.info.WatcherID] = w
	r.mu.Unlock()

	go r.poll(ctx, w)

	return Handle{WatcherID: w.info.WatcherID, OwnerID: ownerID}, nil
}

// poll is the watcher's background task: read the price on each tick and
// fire once when the condition first holds.
func (r *Registry) poll(ctx context.Context, w *watch) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log := logrus.WithFields(logrus.Fields{
		"watcher": w.info.WatcherID,
		"asset":   w.info.AssetID,
	})

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			price, err := w.fetch(ctx, w.info.AssetID)
			if err != nil {
				log.WithError(err).Debug("price read failed, skipping tick")
				continue
			}
			if !w.info.Condition.Satisfied(price, w.info.Threshold) {
				continue
			}
			// Claim the terminal action before any side effect so a
			// concurrent tick or cancel cannot fire a second one.
			if !r.claim(w) {
				return
			}
			w.cancel()
			w.notify(w.info, price)
			log.WithField("price", price.String()).Info("watcher matched")
			return
		}
	}
}

// claim flips the watcher's done flag and detaches it from the registry.
// Returns false if another terminal action already won.
func (r *Registry) claim(w *watch) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.done {
		return false
	}
	w.done = true
	r.removeLocked(w)
	return true
}

func (r *Registry) removeLocked(w *watch) {
	delete(r.byID, w.info.WatcherID)
	if owned := r.byOwner[w.info.OwnerID]; owned != nil {
		delete(owned, w.info.WatcherID)
		if len(owned) == 0 {
			delete(r.byOwner, w.info.OwnerID)
		}
	}
}

// Cancel stops a watcher. Idempotent: cancelling an unknown or already
// matched watcher is a no-op. After Cancel returns, no further tick can fire
// the callback.
func (r *Registry) Cancel(h Handle) {
	r.mu.Lock()
	w, ok := r.byID[h.WatcherID]
	if !ok || w.done || w.info.OwnerID != h.OwnerID {
		r.mu.Unlock()
		return
	}
	w.done = true
	r.removeLocked(w)
	r.mu.Unlock()

	w.cancel()
}

// CancelOwner stops all of one owner's watchers and reports how many were
// live.
func (r *Registry) CancelOwner(ownerID string) int {
	r.mu.Lock()
	var stopped []*watch
	for _, w := range r.byOwner[ownerID] {
		if !w.done {
			w.done = true
			stopped = append(stopped, w)
		}
	}
	for _, w := range stopped {
		r.removeLocked(w)
	}
	r.mu.Unlock()

	for _, w := range stopped {
		w.cancel()
	}
	return len(stopped)
}

// Active lists an owner's live watchers.
func (r *Registry) Active(ownerID string) []model.ActiveWatcher {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ActiveWatcher, 0, len(r.byOwner[ownerID]))
	for _, w := range r.byOwner[ownerID] {
		out = append(out, w.info)
	}
	return out
}

// Len reports the total number of live watchers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
