package orchestrator

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/evadsh3ll/axelx/internal/client"
	"github.com/evadsh3ll/axelx/internal/model"
	"github.com/evadsh3ll/axelx/internal/store"
	"github.com/evadsh3ll/axelx/internal/vault"
	"github.com/evadsh3ll/axelx/internal/watcher"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedVenue satisfies the full Venue surface; each test overrides only
// the calls its flow touches.
type scriptedVenue struct {
	mu sync.Mutex

	quote         func(inputMint, outputMint, rawAmount, taker string) (*client.QuoteResponse, error)
	createTrigger func(req *client.CreateTriggerRequest) (*client.CreateOrderResponse, error)
	submit        func(family, signedTxBase64, requestID string) (*model.ExecutionReceipt, error)
	cancelTrigger func(maker, orderID string) (string, error)
	search        func(query string) (*client.TokenInfo, error)

	quoteTakers []string
	submissions []string
}

func (s *scriptedVenue) GetQuote(_ context.Context, inputMint, outputMint, rawAmount, taker string) (*client.QuoteResponse, error) {
	s.mu.Lock()
	s.quoteTakers = append(s.quoteTakers, taker)
	s.mu.Unlock()
	return s.quote(inputMint, outputMint, rawAmount, taker)
}

func (s *scriptedVenue) CreateTriggerOrder(_ context.Context, req *client.CreateTriggerRequest) (*client.CreateOrderResponse, error) {
	return s.createTrigger(req)
}

func (s *scriptedVenue) CreateRecurringOrder(_ context.Context, _ *client.CreateRecurringRequest) (*client.CreateOrderResponse, error) {
	return &client.CreateOrderResponse{RequestID: "rr1", Order: "ro1", Transaction: "unsigned"}, nil
}

func (s *scriptedVenue) SubmitSigned(_ context.Context, _, signedTxBase64, requestID string) (*model.ExecutionReceipt, error) {
	s.mu.Lock()
	s.submissions = append(s.submissions, requestID)
	s.mu.Unlock()
	return s.submit("", signedTxBase64, requestID)
}

func (s *scriptedVenue) CancelTriggerOrder(_ context.Context, maker, orderID string) (string, error) {
	return s.cancelTrigger(maker, orderID)
}

func (s *scriptedVenue) CancelRecurringOrder(_ context.Context, _, _ string) (string, error) {
	return "", assert.AnError
}

func (s *scriptedVenue) GetPrice(_ context.Context, assetID string) (decimal.Decimal, error) {
	info, err := s.search(assetID)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(info.USDPrice), nil
}

func (s *scriptedVenue) GetExactOutQuote(_ context.Context, _, _, _ string) (json.RawMessage, error) {
	return json.RawMessage(`{"outAmount":"1000000"}`), nil
}

func (s *scriptedVenue) BuildSwap(_ context.Context, _ json.RawMessage, _, _ string) (*client.SwapResponse, error) {
	return nil, assert.AnError
}

func (s *scriptedVenue) ListTriggerOrders(_ context.Context, _, _ string) ([]client.VenueOrder, error) {
	return []client.VenueOrder{{Order: "o1"}}, nil
}

func (s *scriptedVenue) ListRecurringOrders(_ context.Context, _, _ string) ([]client.VenueOrder, error) {
	return nil, nil
}

func (s *scriptedVenue) SearchToken(_ context.Context, query string) (*client.TokenInfo, error) {
	return s.search(query)
}

func (s *scriptedVenue) GetBalances(_ context.Context, _ string) (map[string]client.TokenBalance, error) {
	return map[string]client.TokenBalance{"SOL": {Amount: "1000000000", UIAmount: 1}}, nil
}

func (s *scriptedVenue) takersSeen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.quoteTakers...)
}

func newScriptedVenue() *scriptedVenue {
	return &scriptedVenue{
		quote: func(_, _, _, _ string) (*client.QuoteResponse, error) {
			return nil, assert.AnError
		},
		createTrigger: func(*client.CreateTriggerRequest) (*client.CreateOrderResponse, error) {
			return nil, assert.AnError
		},
		submit: func(_, _, _ string) (*model.ExecutionReceipt, error) {
			return &model.ExecutionReceipt{Signature: "sig1", Status: "Success"}, nil
		},
		cancelTrigger: func(_, _ string) (string, error) {
			return "", assert.AnError
		},
		search: func(_ string) (*client.TokenInfo, error) {
			return &client.TokenInfo{ID: "SOL", Symbol: "SOL", Name: "Solana", Decimals: 9, USDPrice: 150}, nil
		},
	}
}

type chanNotifier struct {
	messages chan string
}

func (n *chanNotifier) SendMessage(_, text string) error {
	n.messages <- text
	return nil
}

func newTestOrchestrator(venue Venue, watchers *watcher.Registry, notify Notifier) *Orchestrator {
	return New(vault.New("test-secret"), store.NewMemory(), venue, watchers, notify, time.Minute)
}

// createWalletFor creates a wallet and returns its public key.
func createWalletFor(t *testing.T, o *Orchestrator, owner string) string {
	t.Helper()
	res := o.CreateWallet(owner)
	require.True(t, res.Success, res.ErrorDetail)
	return res.Data.(WalletView).PublicKey
}

// unsignedTxFor builds a transaction whose only required signer is pubkey,
// base64-encoded the way the venue hands transactions around.
func unsignedTxFor(t *testing.T, pubkey string) string {
	t.Helper()
	payer := solana.MustPublicKeyFromBase58(pubkey)
	instr := solana.NewInstruction(
		solana.MemoProgramID,
		solana.AccountMetaSlice{solana.Meta(payer).SIGNER().WRITE()},
		[]byte("ping"),
	)
	tx, err := solana.NewTransaction([]solana.Instruction{instr}, solana.Hash{}, solana.TransactionPayer(payer))
	require.NoError(t, err)
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestCreateWalletOncePerOwner(t *testing.T) {
	o := newTestOrchestrator(newScriptedVenue(), watcher.New(time.Hour, 10), nil)

	res := o.CreateWallet("u1")
	require.True(t, res.Success)
	view := res.Data.(WalletView)
	assert.NotEmpty(t, view.PublicKey)
	assert.NotEmpty(t, view.PrivateKey)

	res = o.CreateWallet("u1")
	require.False(t, res.Success)
	assert.Equal(t, model.KindConflict, res.ErrorKind)
}

func TestExportWalletMatchesCreated(t *testing.T) {
	o := newTestOrchestrator(newScriptedVenue(), watcher.New(time.Hour, 10), nil)

	created := o.CreateWallet("u1")
	require.True(t, created.Success)

	exported := o.ExportWallet("u1")
	require.True(t, exported.Success)
	assert.Equal(t, created.Data.(WalletView).PrivateKey, exported.Data.(WalletView).PrivateKey)

	missing := o.ExportWallet("u2")
	require.False(t, missing.Success)
	assert.Equal(t, model.KindNotFound, missing.ErrorKind)
}

func TestOrderLifecycleEndToEnd(t *testing.T) {
	venue := newScriptedVenue()
	o := newTestOrchestrator(venue, watcher.New(time.Hour, 10), nil)
	pubkey := createWalletFor(t, o, "u1")

	venue.createTrigger = func(req *client.CreateTriggerRequest) (*client.CreateOrderResponse, error) {
		assert.Equal(t, pubkey, req.Maker)
		assert.Equal(t, "1000000000", req.Params.MakingAmount)
		return &client.CreateOrderResponse{
			RequestID:   "r1",
			Order:       "o1",
			Transaction: unsignedTxFor(t, pubkey),
		}, nil
	}

	params := model.TriggerParams{
		InputMint:   "So11111111111111111111111111111111111111112",
		OutputMint:  "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Amount:      decimal.NewFromInt(1),
		TargetPrice: decimal.NewFromInt(200),
	}

	proposed := o.ProposeTriggerOrder("u1", params)
	require.True(t, proposed.Success, proposed.ErrorDetail)
	token := proposed.Data.(OrderView).OrderToken
	require.NotEmpty(t, token)

	confirmed := o.ConfirmOrder(context.Background(), "u1", token)
	require.True(t, confirmed.Success, confirmed.ErrorDetail)
	assert.Equal(t, model.OrderStateAwaitingExecution, confirmed.Data.(OrderView).State)
	assert.Equal(t, "r1", confirmed.Data.(OrderView).ExternalRequestID)

	var signedSubmitted string
	venue.submit = func(_, signedTxBase64, requestID string) (*model.ExecutionReceipt, error) {
		signedSubmitted = signedTxBase64
		assert.Equal(t, "r1", requestID)
		return &model.ExecutionReceipt{Signature: "sig1", Status: "Success"}, nil
	}

	executed := o.ExecuteOrder(context.Background(), "u1", token)
	require.True(t, executed.Success, executed.ErrorDetail)
	view := executed.Data.(OrderView)
	assert.Equal(t, model.OrderStateExecuted, view.State)
	assert.Equal(t, "sig1", view.Signature)

	// The submitted transaction carries a verifiable custody signature.
	rawSigned, err := base64.StdEncoding.DecodeString(signedSubmitted)
	require.NoError(t, err)
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(rawSigned))
	require.NoError(t, err)
	assert.NoError(t, tx.VerifySignatures())

	// A terminal token reads as unknown afterwards.
	gone := o.ExecuteOrder(context.Background(), "u1", token)
	require.False(t, gone.Success)
	assert.Equal(t, model.KindNotFound, gone.ErrorKind)
}

func TestExecuteBeforeConfirmIsRejected(t *testing.T) {
	venue := newScriptedVenue()
	o := newTestOrchestrator(venue, watcher.New(time.Hour, 10), nil)
	createWalletFor(t, o, "u1")

	proposed := o.ProposeTriggerOrder("u1", model.TriggerParams{
		InputMint:   "So11111111111111111111111111111111111111112",
		OutputMint:  "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Amount:      decimal.NewFromInt(1),
		TargetPrice: decimal.NewFromInt(200),
	})
	require.True(t, proposed.Success)

	res := o.ExecuteOrder(context.Background(), "u1", proposed.Data.(OrderView).OrderToken)
	require.False(t, res.Success)
	assert.Equal(t, model.KindConflict, res.ErrorKind)
}

func TestOrderTokensAreOwnerScoped(t *testing.T) {
	venue := newScriptedVenue()
	o := newTestOrchestrator(venue, watcher.New(time.Hour, 10), nil)
	createWalletFor(t, o, "u1")
	createWalletFor(t, o, "u2")

	proposed := o.ProposeTriggerOrder("u1", model.TriggerParams{
		InputMint:   "So11111111111111111111111111111111111111112",
		OutputMint:  "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Amount:      decimal.NewFromInt(1),
		TargetPrice: decimal.NewFromInt(200),
	})
	require.True(t, proposed.Success)
	token := proposed.Data.(OrderView).OrderToken

	// Another owner probing the token sees not-found, never conflict.
	for _, res := range []model.Result{
		o.ConfirmOrder(context.Background(), "u2", token),
		o.ExecuteOrder(context.Background(), "u2", token),
		o.CancelOrder("u2", token),
	} {
		require.False(t, res.Success)
		assert.Equal(t, model.KindNotFound, res.ErrorKind)
	}

	// The owner can still cancel it.
	res := o.CancelOrder("u1", token)
	require.True(t, res.Success)
	assert.Equal(t, model.OrderStateCancelled, res.Data.(OrderView).State)
}

func TestGetRouteFallsBackToPreviewOnce(t *testing.T) {
	venue := newScriptedVenue()
	o := newTestOrchestrator(venue, watcher.New(time.Hour, 10), nil)
	pubkey := createWalletFor(t, o, "u1")

	venue.quote = func(_, _, _, taker string) (*client.QuoteResponse, error) {
		if taker != "" {
			return nil, &model.ExternalServiceError{Provider: "jupiter", Message: "insufficient balance"}
		}
		return &client.QuoteResponse{RequestID: "q1", OutAmount: "42"}, nil
	}

	res := o.GetRoute(context.Background(), "u1", "mintA", "mintB", "1000000")
	require.True(t, res.Success, res.ErrorDetail)
	view := res.Data.(RouteView)
	assert.True(t, view.PreviewOnly)
	assert.Empty(t, view.Signature)

	// Exactly one taker attempt, then exactly one walletless retry.
	assert.Equal(t, []string{pubkey, ""}, venue.takersSeen())
}

func TestGetRouteExecutesWhenTransactionPresent(t *testing.T) {
	venue := newScriptedVenue()
	o := newTestOrchestrator(venue, watcher.New(time.Hour, 10), nil)
	pubkey := createWalletFor(t, o, "u1")

	venue.quote = func(_, _, _, taker string) (*client.QuoteResponse, error) {
		require.Equal(t, pubkey, taker)
		return &client.QuoteResponse{RequestID: "q1", Transaction: unsignedTxFor(t, pubkey)}, nil
	}

	res := o.GetRoute(context.Background(), "u1", "mintA", "mintB", "1000000")
	require.True(t, res.Success, res.ErrorDetail)
	view := res.Data.(RouteView)
	assert.False(t, view.PreviewOnly)
	assert.Equal(t, "sig1", view.Signature)
	assert.Equal(t, []string{pubkey}, venue.takersSeen())
}

func TestRegisterWatcherImmediateMatch(t *testing.T) {
	venue := newScriptedVenue()
	registry := watcher.New(time.Hour, 10)
	o := newTestOrchestrator(venue, registry, &chanNotifier{messages: make(chan string, 1)})

	// Current price 150 already satisfies "above 100": resolve immediately,
	// start nothing.
	res := o.RegisterWatcher(context.Background(), "u1", "SOL", model.ConditionAbove, decimal.NewFromInt(100))
	require.True(t, res.Success)
	view := res.Data.(WatcherView)
	assert.True(t, view.Matched)
	assert.Empty(t, view.WatcherID)
	assert.Zero(t, registry.Len())
}

// priceFeed is a guarded mutable price for the watcher flip test.
type priceFeed struct {
	mu sync.Mutex
	v  float64
}

func (p *priceFeed) load() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.v
}

func (p *priceFeed) store(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.v = v
}

func TestRegisterWatcherNotifiesOnMatch(t *testing.T) {
	venue := newScriptedVenue()
	price := &priceFeed{v: 50}
	venue.search = func(_ string) (*client.TokenInfo, error) {
		return &client.TokenInfo{ID: "SOL", Symbol: "SOL", USDPrice: price.load()}, nil
	}

	registry := watcher.New(time.Millisecond, 10)
	notify := &chanNotifier{messages: make(chan string, 1)}
	o := newTestOrchestrator(venue, registry, notify)

	res := o.RegisterWatcher(context.Background(), "u1", "SOL", model.ConditionAbove, decimal.NewFromInt(100))
	require.True(t, res.Success)
	view := res.Data.(WatcherView)
	require.False(t, view.Matched)
	require.NotEmpty(t, view.WatcherID)
	require.Equal(t, 1, registry.Len())

	price.store(150)

	select {
	case text := <-notify.messages:
		assert.Contains(t, text, "SOL")
		assert.Contains(t, text, "150")
	case <-time.After(time.Second):
		t.Fatal("match was never delivered")
	}
	assert.Zero(t, registry.Len())
}

func TestGetTokenInfoRequiresPrice(t *testing.T) {
	venue := newScriptedVenue()
	o := newTestOrchestrator(venue, watcher.New(time.Hour, 10), nil)

	res := o.GetTokenInfo(context.Background(), "SOL")
	require.True(t, res.Success)
	assert.Equal(t, "SOL", res.Data.(*client.TokenInfo).Symbol)

	venue.search = func(_ string) (*client.TokenInfo, error) {
		return &client.TokenInfo{ID: "DUST", Symbol: "DUST"}, nil
	}
	res = o.GetTokenInfo(context.Background(), "DUST")
	require.False(t, res.Success)
	assert.Equal(t, model.KindNotFound, res.ErrorKind)
}

func TestOperationsRequireWallet(t *testing.T) {
	o := newTestOrchestrator(newScriptedVenue(), watcher.New(time.Hour, 10), nil)

	for _, res := range []model.Result{
		o.ProposeTriggerOrder("u1", model.TriggerParams{}),
		o.GetRoute(context.Background(), "u1", "a", "b", "1"),
		o.GetBalance(context.Background(), "u1"),
		o.ReceivePayment("u1", decimal.NewFromInt(1)),
		o.ExportWallet("u1"),
	} {
		require.False(t, res.Success)
		assert.Equal(t, model.KindNotFound, res.ErrorKind)
	}
}
