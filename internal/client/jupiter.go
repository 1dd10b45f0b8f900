// Package client wraps the Jupiter HTTP API behind typed request/response
// methods with bounded timeouts.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/evadsh3ll/axelx/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const providerName = "jupiter"

// JupiterClient is a client for the Jupiter ultra, trigger, recurring and
// token APIs.
type JupiterClient struct {
	client *resty.Client
}

// NewJupiterClient creates a venue client. apiKey may be empty; when set it
// is sent as x-api-key on every request.
func NewJupiterClient(baseURL, apiKey string, timeout time.Duration) *JupiterClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		c.SetHeader("x-api-key", apiKey)
	}
	return &JupiterClient{client: c}
}

// GetQuote requests an ultra order quote. taker may be empty for a walletless
// preview; in that case the response carries no transaction.
func (c *JupiterClient) GetQuote(ctx context.Context, inputMint, outputMint, rawAmount, taker string) (*QuoteResponse, error) {
	req := c.client.R().SetContext(ctx).
		SetQueryParam("inputMint", inputMint).
		SetQueryParam("outputMint", outputMint).
		SetQueryParam("amount", rawAmount)
	if taker != "" {
		req.SetQueryParam("taker", taker)
	}

	var out QuoteResponse
	resp, err := req.SetResult(&out).Get("/ultra/v1/order")
	if err := checkTransport(resp, err); err != nil {
		return nil, err
	}
	if msg := rawMessageString(out.Error); msg != "" {
		return nil, &model.ExternalServiceError{Provider: providerName, Message: msg}
	}
	if out.RequestID == "" || len(out.RoutePlan) == 0 {
		return nil, &model.ExternalServiceError{Provider: providerName, Message: "quote response missing requestId or routePlan"}
	}
	return &out, nil
}

// SubmitSigned posts a signed transaction to the given API family's execute
// endpoint. family is "ultra", "trigger" or "recurring".
func (c *JupiterClient) SubmitSigned(ctx context.Context, family, signedTxBase64, requestID string) (*model.ExecutionReceipt, error) {
	var out ExecuteResponse
	resp, err := c.client.R().SetContext(ctx).
		SetBody(map[string]string{
			"signedTransaction": signedTxBase64,
			"requestId":         requestID,
		}).
		SetResult(&out).
		Post(fmt.Sprintf("/%s/v1/execute", family))
	if err := checkTransport(resp, err); err != nil {
		return nil, err
	}
	if msg := rawMessageString(out.Error); msg != "" {
		// Submission failures leave the order retriable.
		return nil, &model.ExternalServiceError{Provider: providerName, Message: msg, Retriable: true}
	}
	if out.Signature == "" || out.Status == "" {
		return nil, &model.ExternalServiceError{Provider: providerName, Message: "execute response missing signature or status", Retriable: true}
	}
	return &model.ExecutionReceipt{Signature: out.Signature, Status: out.Status}, nil
}

// CreateTriggerOrder mints a trigger order and returns the unsigned
// transaction that funds it.
func (c *JupiterClient) CreateTriggerOrder(ctx context.Context, req *CreateTriggerRequest) (*CreateOrderResponse, error) {
	return c.createOrder(ctx, "/trigger/v1/createOrder", req)
}

// CreateRecurringOrder mints a time-based recurring order.
func (c *JupiterClient) CreateRecurringOrder(ctx context.Context, req *CreateRecurringRequest) (*CreateOrderResponse, error) {
	return c.createOrder(ctx, "/recurring/v1/createOrder", req)
}

func (c *JupiterClient) createOrder(ctx context.Context, path string, body any) (*CreateOrderResponse, error) {
	var out CreateOrderResponse
	resp, err := c.client.R().SetContext(ctx).SetBody(body).SetResult(&out).Post(path)
	if err := checkTransport(resp, err); err != nil {
		return nil, err
	}
	if out.RequestID == "" || out.Transaction == "" {
		msg := rawMessageString(out.Error)
		if msg == "" {
			msg = rawMessageString(out.Cause)
		}
		if msg == "" {
			msg = rawMessageString(out.Status)
		}
		if msg == "" {
			msg = "create order response missing requestId or transaction"
		}
		return nil, &model.ExternalServiceError{Provider: providerName, Message: msg}
	}
	return &out, nil
}

// CancelTriggerOrder asks the venue for the unsigned transaction that cancels
// an active trigger order.
func (c *JupiterClient) CancelTriggerOrder(ctx context.Context, maker, orderID string) (string, error) {
	return c.cancelOrder(ctx, "/trigger/v1/cancelOrder", map[string]string{
		"maker":            maker,
		"order":            orderID,
		"computeUnitPrice": "auto",
	})
}

// CancelRecurringOrder asks the venue for the unsigned transaction that
// cancels an active recurring order.
func (c *JupiterClient) CancelRecurringOrder(ctx context.Context, user, orderID string) (string, error) {
	return c.cancelOrder(ctx, "/recurring/v1/cancelOrder", map[string]string{
		"user":  user,
		"order": orderID,
	})
}

func (c *JupiterClient) cancelOrder(ctx context.Context, path string, body any) (string, error) {
	var out CancelOrderResponse
	resp, err := c.client.R().SetContext(ctx).SetBody(body).SetResult(&out).Post(path)
	if err := checkTransport(resp, err); err != nil {
		return "", err
	}
	if out.Transaction == "" {
		msg := rawMessageString(out.Error)
		if msg == "" {
			msg = "cancel response missing transaction"
		}
		return "", &model.ExternalServiceError{Provider: providerName, Message: msg}
	}
	return out.Transaction, nil
}

// ListTriggerOrders lists a wallet's trigger orders. status is "active" or
// "history".
func (c *JupiterClient) ListTriggerOrders(ctx context.Context, user, status string) ([]VenueOrder, error) {
	var out []VenueOrder
	resp, err := c.client.R().SetContext(ctx).
		SetQueryParam("user", user).
		SetQueryParam("orderStatus", status).
		SetResult(&out).
		Get("/trigger/v1/getTriggerOrders")
	if err := checkTransport(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecurringOrders lists a wallet's time-based recurring orders.
func (c *JupiterClient) ListRecurringOrders(ctx context.Context, user, status string) ([]VenueOrder, error) {
	var out []VenueOrder
	resp, err := c.client.R().SetContext(ctx).
		SetQueryParam("user", user).
		SetQueryParam("orderStatus", status).
		SetQueryParam("recurringType", "time").
		SetResult(&out).
		Get("/recurring/v1/getRecurringOrders")
	if err := checkTransport(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// GetExactOutQuote fetches a swap quote that delivers an exact output
// amount, used for payments denominated in the receiving token. The quote is
// kept opaque and passed back verbatim to BuildSwap.
func (c *JupiterClient) GetExactOutQuote(ctx context.Context, inputMint, outputMint, rawOutAmount string) (json.RawMessage, error) {
	var out json.RawMessage
	resp, err := c.client.R().SetContext(ctx).
		SetQueryParam("inputMint", inputMint).
		SetQueryParam("outputMint", outputMint).
		SetQueryParam("amount", rawOutAmount).
		SetQueryParam("slippageBps", "50").
		SetQueryParam("swapMode", "ExactOut").
		SetResult(&out).
		Get("/swap/v1/quote")
	if err := checkTransport(resp, err); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, &model.ExternalServiceError{Provider: providerName, Message: "empty quote response"}
	}
	return out, nil
}

// BuildSwap turns a quote into an unsigned swap transaction routed to the
// given destination token account.
func (c *JupiterClient) BuildSwap(ctx context.Context, quote json.RawMessage, userPublicKey, destinationTokenAccount string) (*SwapResponse, error) {
	var out SwapResponse
	resp, err := c.client.R().SetContext(ctx).
		SetBody(map[string]any{
			"quoteResponse":           quote,
			"userPublicKey":           userPublicKey,
			"destinationTokenAccount": destinationTokenAccount,
		}).
		SetResult(&out).
		Post("/swap/v1/swap")
	if err := checkTransport(resp, err); err != nil {
		return nil, err
	}
	if out.SwapTransaction == "" {
		msg := rawMessageString(out.Error)
		if msg == "" {
			msg = "swap response missing transaction"
		}
		return nil, &model.ExternalServiceError{Provider: providerName, Message: msg}
	}
	return &out, nil
}

// SearchToken resolves a symbol, name or mint address to the most relevant
// token entry.
func (c *JupiterClient) SearchToken(ctx context.Context, query string) (*TokenInfo, error) {
	var out []TokenInfo
	resp, err := c.client.R().SetContext(ctx).
		SetQueryParam("query", query).
		SetResult(&out).
		Get("/tokens/v2/search")
	if err := checkTransport(resp, err); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, &model.NotFoundError{Message: fmt.Sprintf("token %q not found", query)}
	}
	return &out[0], nil
}

// GetPrice returns the USD price of an asset, or NotFoundError when the
// venue knows no such token or quotes no price for it.
func (c *JupiterClient) GetPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	info, err := c.SearchToken(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}
	if info.USDPrice <= 0 {
		return decimal.Zero, &model.NotFoundError{Message: fmt.Sprintf("no price for token %q", assetID)}
	}
	return decimal.NewFromFloat(info.USDPrice), nil
}

// GetBalances fetches per-token balances for a wallet address.
func (c *JupiterClient) GetBalances(ctx context.Context, wallet string) (map[string]TokenBalance, error) {
	var out map[string]TokenBalance
	resp, err := c.client.R().SetContext(ctx).
		SetResult(&out).
		Get("/ultra/v1/balances/" + wallet)
	if err := checkTransport(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// checkTransport normalizes transport-level and HTTP-level failures into the
// external-service error kind. Timeouts and server errors are retriable.
func checkTransport(resp *resty.Response, err error) error {
	if err != nil {
		return &model.ExternalServiceError{
			Provider:  providerName,
			Message:   errors.Wrap(err, "request failed").Error(),
			Retriable: true,
		}
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return &model.ExternalServiceError{
			Provider:  providerName,
			Message:   fmt.Sprintf("server error: status %d", resp.StatusCode()),
			Retriable: true,
		}
	}
	if resp.IsError() {
		return &model.ExternalServiceError{
			Provider: providerName,
			Message:  fmt.Sprintf("status %d: %s", resp.StatusCode(), resp.String()),
		}
	}
	return nil
}
