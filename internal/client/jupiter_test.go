package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/evadsh3ll/axelx/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *JupiterClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewJupiterClient(srv.URL, "test-key", 5*time.Second)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestGetQuoteHappyPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ultra/v1/order", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "mintA", r.URL.Query().Get("inputMint"))
		assert.Equal(t, "taker1", r.URL.Query().Get("taker"))
		writeJSON(w, QuoteResponse{
			RequestID: "q1",
			OutAmount: "42",
			RoutePlan: []RouteStep{{Percent: 100}},
		})
	})

	quote, err := c.GetQuote(context.Background(), "mintA", "mintB", "1000", "taker1")
	require.NoError(t, err)
	assert.Equal(t, "q1", quote.RequestID)
}

func TestGetQuoteOmitsEmptyTaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["taker"]
		assert.False(t, present)
		writeJSON(w, QuoteResponse{RequestID: "q1", RoutePlan: []RouteStep{{}}})
	})

	_, err := c.GetQuote(context.Background(), "mintA", "mintB", "1000", "")
	require.NoError(t, err)
}

func TestGetQuoteMissingFieldsFail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, QuoteResponse{OutAmount: "42"})
	})

	_, err := c.GetQuote(context.Background(), "mintA", "mintB", "1000", "")
	var extErr *model.ExternalServiceError
	require.ErrorAs(t, err, &extErr)
	assert.False(t, extErr.Retriable)
}

func TestGetQuoteVenueError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"error": "no route found"})
	})

	_, err := c.GetQuote(context.Background(), "mintA", "mintB", "1000", "")
	var extErr *model.ExternalServiceError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "no route found", extErr.Message)
}

func TestSubmitSignedRetriableFailures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trigger/v1/execute", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c2lnbmVk", body["signedTransaction"])
		assert.Equal(t, "r1", body["requestId"])
		writeJSON(w, map[string]string{"error": "blockhash not found"})
	})

	_, err := c.SubmitSigned(context.Background(), "trigger", "c2lnbmVk", "r1")
	require.True(t, model.IsRetriable(err))
}

func TestSubmitSignedHappyPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, ExecuteResponse{Signature: "sig1", Status: "Success"})
	})

	receipt, err := c.SubmitSigned(context.Background(), "ultra", "c2lnbmVk", "r1")
	require.NoError(t, err)
	assert.Equal(t, "sig1", receipt.Signature)
	assert.Equal(t, "Success", receipt.Status)
}

func TestCreateTriggerOrderSurfacesCause(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trigger/v1/createOrder", r.URL.Path)
		writeJSON(w, map[string]string{"cause": "maker balance too low"})
	})

	_, err := c.CreateTriggerOrder(context.Background(), &CreateTriggerRequest{})
	var extErr *model.ExternalServiceError
	require.ErrorAs(t, err, &extErr)
	assert.Contains(t, extErr.Message, "maker balance too low")
}

func TestCancelTriggerOrderReturnsTransaction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trigger/v1/cancelOrder", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "maker1", body["maker"])
		assert.Equal(t, "auto", body["computeUnitPrice"])
		writeJSON(w, CancelOrderResponse{Transaction: "cancel-tx"})
	})

	tx, err := c.CancelTriggerOrder(context.Background(), "maker1", "order1")
	require.NoError(t, err)
	assert.Equal(t, "cancel-tx", tx)
}

func TestSearchTokenNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []TokenInfo{})
	})

	_, err := c.SearchToken(context.Background(), "NOPE")
	require.True(t, model.IsNotFound(err))
}

func TestGetPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tokens/v2/search", r.URL.Path)
		writeJSON(w, []TokenInfo{{ID: "SOL", Symbol: "SOL", USDPrice: 153.25}})
	})

	price, err := c.GetPrice(context.Background(), "SOL")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("153.25")))
}

func TestGetPriceZeroIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []TokenInfo{{ID: "DUST", Symbol: "DUST"}})
	})

	_, err := c.GetPrice(context.Background(), "DUST")
	require.True(t, model.IsNotFound(err))
}

func TestServerErrorsAreRetriable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.GetQuote(context.Background(), "a", "b", "1", "")
	require.True(t, model.IsRetriable(err))
}

func TestClientErrorsAreNotRetriable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	_, err := c.GetQuote(context.Background(), "a", "b", "1", "")
	var extErr *model.ExternalServiceError
	require.ErrorAs(t, err, &extErr)
	assert.False(t, extErr.Retriable)
}

func TestListTriggerOrders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trigger/v1/getTriggerOrders", r.URL.Path)
		assert.Equal(t, "active", r.URL.Query().Get("orderStatus"))
		writeJSON(w, []VenueOrder{{Order: "o1"}})
	})

	orders, err := c.ListTriggerOrders(context.Background(), "wallet1", "active")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].Order)
}

func TestGetBalances(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ultra/v1/balances/wallet1", r.URL.Path)
		writeJSON(w, map[string]TokenBalance{"SOL": {Amount: "1000000000", UIAmount: 1}})
	})

	balances, err := c.GetBalances(context.Background(), "wallet1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, balances["SOL"].UIAmount)
}
