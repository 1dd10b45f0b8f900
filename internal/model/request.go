package model

import "github.com/shopspring/decimal"

// WalletRequest identifies the acting user for wallet operations.
type WalletRequest struct {
	UserID string `json:"userId"`
}

// ReceiveRequest asks for a payment request (address + QR) for the user.
type ReceiveRequest struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}

// PayRequest sends an exact USDC amount to a recipient address.
type PayRequest struct {
	UserID    string          `json:"userId"`
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
}

// TriggerOrderRequest proposes a price-triggered swap.
type TriggerOrderRequest struct {
	UserID      string          `json:"userId"`
	InputMint   string          `json:"inputMint"`
	OutputMint  string          `json:"outputMint"`
	Amount      decimal.Decimal `json:"amount"`
	TargetPrice decimal.Decimal `json:"targetPrice"`
}

// RecurringOrderRequest proposes a recurring swap schedule.
type RecurringOrderRequest struct {
	UserID          string          `json:"userId"`
	InputMint       string          `json:"inputMint"`
	OutputMint      string          `json:"outputMint"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	NumberOfOrders  int             `json:"numberOfOrders"`
	IntervalSeconds int64           `json:"intervalSeconds"`
}

// OrderActionRequest confirms, executes or cancels a proposed order.
type OrderActionRequest struct {
	UserID     string `json:"userId"`
	OrderToken string `json:"orderToken"`
}

// WatcherRequest registers a price alert.
type WatcherRequest struct {
	UserID    string          `json:"userId"`
	Asset     string          `json:"asset"`
	Condition string          `json:"condition"`
	Threshold decimal.Decimal `json:"threshold"`
}

// WatcherActionRequest cancels one watcher.
type WatcherActionRequest struct {
	UserID    string `json:"userId"`
	WatcherID string `json:"watcherId"`
}
