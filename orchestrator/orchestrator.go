// Package orchestrator composes the custody vault, the order ledger, the
// watcher registry and the trading venue behind single-call operations for
// the messaging front-end.
package orchestrator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/evadsh3ll/axelx/internal/client"
	"github.com/evadsh3ll/axelx/internal/ledger"
	"github.com/evadsh3ll/axelx/internal/model"
	"github.com/evadsh3ll/axelx/internal/signer"
	"github.com/evadsh3ll/axelx/internal/store"
	"github.com/evadsh3ll/axelx/internal/vault"
	"github.com/evadsh3ll/axelx/internal/watcher"

	"github.com/shopspring/decimal"
)

// Venue is the full trading-venue surface the orchestrator consumes.
type Venue interface {
	ledger.Venue
	GetQuote(ctx context.Context, inputMint, outputMint, rawAmount, taker string) (*client.QuoteResponse, error)
	GetExactOutQuote(ctx context.Context, inputMint, outputMint, rawOutAmount string) (json.RawMessage, error)
	BuildSwap(ctx context.Context, quote json.RawMessage, userPublicKey, destinationTokenAccount string) (*client.SwapResponse, error)
	ListTriggerOrders(ctx context.Context, user, status string) ([]client.VenueOrder, error)
	ListRecurringOrders(ctx context.Context, user, status string) ([]client.VenueOrder, error)
	SearchToken(ctx context.Context, query string) (*client.TokenInfo, error)
	GetBalances(ctx context.Context, wallet string) (map[string]client.TokenBalance, error)
}

// Notifier delivers messages back to the user through the messaging
// front-end.
type Notifier interface {
	SendMessage(ownerID, text string) error
}

// Orchestrator is the single entry point the front-end talks to.
type Orchestrator struct {
	vault    *vault.Vault
	wallets  store.WalletStore
	ledger   *ledger.Ledger
	watchers *watcher.Registry
	venue    Venue
	notify   Notifier
}

// New wires the orchestrator. The ledger is created here so its sign
// function can close over the vault and the wallet store.
func New(v *vault.Vault, wallets store.WalletStore, venue Venue, watchers *watcher.Registry, notify Notifier, orderTTL time.Duration) *Orchestrator {
	o := &Orchestrator{
		vault:    v,
		wallets:  wallets,
		watchers: watchers,
		venue:    venue,
		notify:   notify,
	}
	o.ledger = ledger.New(venue, o.signFor, orderTTL)
	return o
}

// Ledger exposes the ledger for the background sweep task.
func (o *Orchestrator) Ledger() *ledger.Ledger {
	return o.ledger
}

// signFor loads the owner's custody key and signs one transaction with it.
func (o *Orchestrator) signFor(_ context.Context, ownerID string, unsignedTx []byte) ([]byte, error) {
	record, err := o.wallets.Get(ownerID)
	if err != nil {
		return nil, err
	}
	key, err := o.vault.LoadSigningKey(record.Ciphertext)
	if err != nil {
		return nil, err
	}
	return signer.Sign(unsignedTx, key)
}

// walletOf resolves an owner's wallet record.
func (o *Orchestrator) walletOf(ownerID string) (*model.WalletRecord, error) {
	return o.wallets.Get(ownerID)
}

// priceFetcher adapts the venue's price endpoint to the watcher registry.
func (o *Orchestrator) priceFetcher() watcher.PriceFetcher {
	return func(ctx context.Context, assetID string) (decimal.Decimal, error) {
		return o.venue.GetPrice(ctx, assetID)
	}
}
