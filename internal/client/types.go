package client

import "encoding/json"

// Venue responses are validated at the boundary: required fields are checked
// explicitly and an absent field fails the call instead of flowing through
// as a zero value.

// QuoteResponse is the ultra order endpoint's reply. Transaction is empty
// for walletless preview quotes.
type QuoteResponse struct {
	SwapType       string          `json:"swapType"`
	RequestID      string          `json:"requestId"`
	InAmount       string          `json:"inAmount"`
	OutAmount      string          `json:"outAmount"`
	SlippageBps    int             `json:"slippageBps"`
	PriceImpactPct string          `json:"priceImpactPct"`
	RoutePlan      []RouteStep     `json:"routePlan"`
	Gasless        bool            `json:"gasless"`
	Transaction    string          `json:"transaction"`
	Error          json.RawMessage `json:"error"`
}

// RouteStep is one hop of a swap route.
type RouteStep struct {
	Percent  int      `json:"percent"`
	SwapInfo SwapInfo `json:"swapInfo"`
}

// SwapInfo describes the AMM leg of a route step.
type SwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
	FeeAmount  string `json:"feeAmount"`
	FeeMint    string `json:"feeMint"`
}

// ExecuteResponse acknowledges a submitted signed transaction.
type ExecuteResponse struct {
	Signature string          `json:"signature"`
	Status    string          `json:"status"`
	Order     string          `json:"order"`
	Error     json.RawMessage `json:"error"`
}

// CreateTriggerRequest mints a price-triggered order at the venue.
type CreateTriggerRequest struct {
	InputMint        string        `json:"inputMint"`
	OutputMint       string        `json:"outputMint"`
	Maker            string        `json:"maker"`
	Payer            string        `json:"payer"`
	Params           TriggerAmount `json:"params"`
	ComputeUnitPrice string        `json:"computeUnitPrice"`
}

// TriggerAmount carries raw making/taking amounts as integer strings.
type TriggerAmount struct {
	MakingAmount string `json:"makingAmount"`
	TakingAmount string `json:"takingAmount"`
}

// CreateOrderResponse is shared by the trigger and recurring create calls.
type CreateOrderResponse struct {
	RequestID   string          `json:"requestId"`
	Order       string          `json:"order"`
	Transaction string          `json:"transaction"`
	Error       json.RawMessage `json:"error"`
	Cause       json.RawMessage `json:"cause"`
	Status      json.RawMessage `json:"status"`
}

// CreateRecurringRequest mints a time-based recurring order at the venue.
type CreateRecurringRequest struct {
	User       string          `json:"user"`
	InputMint  string          `json:"inputMint"`
	OutputMint string          `json:"outputMint"`
	Params     RecurringParams `json:"params"`
}

// RecurringParams wraps the time schedule the venue expects.
type RecurringParams struct {
	Time RecurringTime `json:"time"`
}

// RecurringTime is the schedule of a recurring order. Min/MaxPrice and
// StartAt are always null in our flows but remain in the payload shape.
type RecurringTime struct {
	InAmount       string  `json:"inAmount"`
	NumberOfOrders int     `json:"numberOfOrders"`
	Interval       int64   `json:"interval"`
	MinPrice       *string `json:"minPrice"`
	MaxPrice       *string `json:"maxPrice"`
	StartAt        *int64  `json:"startAt"`
}

// CancelOrderResponse carries the unsigned cancellation transaction the
// venue requires before it honors a cancel.
type CancelOrderResponse struct {
	Transaction string          `json:"transaction"`
	Error       json.RawMessage `json:"error"`
}

// VenueOrder is one listed order, trigger or recurring.
type VenueOrder struct {
	Order  string           `json:"order"`
	Params VenueOrderParams `json:"params"`
}

// VenueOrderParams holds whichever parameter block the order kind uses.
type VenueOrderParams struct {
	MakingAmount string         `json:"makingAmount"`
	TakingAmount string         `json:"takingAmount"`
	Time         *RecurringTime `json:"time"`
}

// TokenInfo is one entry of the tokens search endpoint.
type TokenInfo struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Symbol     string  `json:"symbol"`
	Icon       string  `json:"icon"`
	Decimals   int32   `json:"decimals"`
	USDPrice   float64 `json:"usdPrice"`
	MarketCap  float64 `json:"mcap"`
	Liquidity  float64 `json:"liquidity"`
	IsVerified bool    `json:"isVerified"`
}

// TokenBalance is one entry of the balances endpoint.
type TokenBalance struct {
	Amount   string  `json:"amount"`
	UIAmount float64 `json:"uiAmount"`
	IsFrozen bool    `json:"isFrozen"`
}

// SwapResponse is the swap build endpoint's reply for payment flows.
type SwapResponse struct {
	SwapTransaction string          `json:"swapTransaction"`
	RequestID       string          `json:"requestId"`
	Error           json.RawMessage `json:"error"`
}

// rawMessageString renders an error payload the venue may return as either
// a JSON string or an object.
func rawMessageString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
