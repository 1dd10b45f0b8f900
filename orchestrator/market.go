package orchestrator

import (
	"context"

	"github.com/evadsh3ll/axelx/internal/model"
)

// GetBalance fetches the owner's per-token balances from the venue.
func (o *Orchestrator) GetBalance(ctx context.Context, ownerID string) model.Result {
	record, err := o.walletOf(ownerID)
	if err != nil {
		return model.Fail(err)
	}

	balances, err := o.venue.GetBalances(ctx, record.PublicKey)
	if err != nil {
		return model.Fail(err)
	}
	return model.OK(balances)
}

// GetTokenInfo resolves a token by symbol, name or mint address and returns
// its metadata and current price.
func (o *Orchestrator) GetTokenInfo(ctx context.Context, query string) model.Result {
	info, err := o.venue.SearchToken(ctx, query)
	if err != nil {
		return model.Fail(err)
	}
	if info.USDPrice <= 0 {
		return model.Fail(&model.NotFoundError{Message: "no price available for this token"})
	}
	return model.OK(info)
}
