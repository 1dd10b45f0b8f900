package orchestrator

import (
	"context"
	"encoding/base64"

	"github.com/evadsh3ll/axelx/internal/client"
	"github.com/evadsh3ll/axelx/internal/model"
)

// RouteView is the data payload of a swap route request.
type RouteView struct {
	Quote       *client.QuoteResponse `json:"quote"`
	PreviewOnly bool                  `json:"previewOnly"`
	Signature   string                `json:"signature,omitempty"`
	Status      string                `json:"status,omitempty"`
}

// GetRoute quotes a swap for the owner and, when the venue returns an
// executable transaction, signs and submits it.
//
// The quote is first requested with the owner's wallet as taker. If that
// fails or yields no transaction (typically insufficient balance), it falls
// back exactly once to a walletless preview; a preview is returned without
// execution.
func (o *Orchestrator) GetRoute(ctx context.Context, ownerID, inputMint, outputMint, rawAmount string) model.Result {
	record, err := o.walletOf(ownerID)
	if err != nil {
		return model.Fail(err)
	}

	preview := false
	quote, err := o.venue.GetQuote(ctx, inputMint, outputMint, rawAmount, record.PublicKey)
	if err != nil || quote.Transaction == "" {
		quote, err = o.venue.GetQuote(ctx, inputMint, outputMint, rawAmount, "")
		if err != nil {
			return model.Fail(err)
		}
		preview = true
	}

	if preview || quote.Transaction == "" {
		return model.OK(RouteView{Quote: quote, PreviewOnly: true})
	}

	signed, err := o.signFor(ctx, ownerID, []byte(quote.Transaction))
	if err != nil {
		return model.Fail(err)
	}

	receipt, err := o.venue.SubmitSigned(ctx, "ultra", base64.StdEncoding.EncodeToString(signed), quote.RequestID)
	if err != nil {
		return model.Fail(err)
	}

	return model.OK(RouteView{
		Quote:     quote,
		Signature: receipt.Signature,
		Status:    receipt.Status,
	})
}
