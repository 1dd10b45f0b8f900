package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WatchCondition selects which side of the threshold fires a watcher.
type WatchCondition string

const (
	// ConditionAbove fires when the observed price is >= the threshold.
	ConditionAbove WatchCondition = "above"
	// ConditionBelow fires when the observed price is <= the threshold.
	ConditionBelow WatchCondition = "below"
)

// ValidCondition checks that s names a known watch condition.
func ValidCondition(s string) bool {
	return WatchCondition(s) == ConditionAbove || WatchCondition(s) == ConditionBelow
}

// Satisfied evaluates the condition for one observed price.
func (c WatchCondition) Satisfied(price, threshold decimal.Decimal) bool {
	if c == ConditionAbove {
		return price.GreaterThanOrEqual(threshold)
	}
	return price.LessThanOrEqual(threshold)
}

// ActiveWatcher describes one registered price watch. It is removed from the
// registry exactly once, either when the condition first matches or when it
// is cancelled.
type ActiveWatcher struct {
	WatcherID string          `json:"watcherId"`
	OwnerID   string          `json:"ownerId"`
	AssetID   string          `json:"assetId"`
	Condition WatchCondition  `json:"condition"`
	Threshold decimal.Decimal `json:"threshold"`
	CreatedAt time.Time       `json:"createdAt"`
}
