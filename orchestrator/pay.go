package orchestrator

import (
	"context"
	"encoding/base64"

	"github.com/evadsh3ll/axelx/internal/common"
	"github.com/evadsh3ll/axelx/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// usdcMint is the USDC mint address on Solana mainnet; payments are
// denominated in USDC.
const usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

// PaymentView is the data payload of payment operations.
type PaymentView struct {
	Amount    decimal.Decimal `json:"amount"`
	Address   string          `json:"address,omitempty"`
	QRCode    string          `json:"qrCode,omitempty"`
	Signature string          `json:"signature,omitempty"`
	Status    string          `json:"status,omitempty"`
}

// ReceivePayment builds a payment request: the owner's address plus a QR
// code the payer can scan.
func (o *Orchestrator) ReceivePayment(ownerID string, amountUSDC decimal.Decimal) model.Result {
	if !amountUSDC.IsPositive() {
		return model.Fail(&model.ValidationError{Message: "amount must be positive"})
	}

	record, err := o.walletOf(ownerID)
	if err != nil {
		return model.Fail(err)
	}

	png, err := qrcode.Encode(record.PublicKey, qrcode.Medium, 256)
	if err != nil {
		return model.Fail(&model.ValidationError{Message: "failed to generate QR code: " + err.Error()})
	}

	return model.OK(PaymentView{
		Amount:  amountUSDC,
		Address: record.PublicKey,
		QRCode:  base64.StdEncoding.EncodeToString(png),
	})
}

// Pay swaps the owner's SOL into an exact USDC amount delivered straight to
// the recipient's token account, then signs and submits the swap.
func (o *Orchestrator) Pay(ctx context.Context, ownerID, recipient string, amountUSDC decimal.Decimal) model.Result {
	if !amountUSDC.IsPositive() {
		return model.Fail(&model.ValidationError{Message: "amount must be positive"})
	}

	recipientKey, err := solana.PublicKeyFromBase58(recipient)
	if err != nil {
		return model.Fail(&model.ValidationError{Message: "invalid recipient address"})
	}
	mintKey := solana.MustPublicKeyFromBase58(usdcMint)
	recipientATA, _, err := solana.FindAssociatedTokenAddress(recipientKey, mintKey)
	if err != nil {
		return model.Fail(&model.ValidationError{Message: "failed to derive recipient token account"})
	}

	record, err := o.walletOf(ownerID)
	if err != nil {
		return model.Fail(err)
	}

	rawOut := common.ToRawAmount(amountUSDC, common.USDCDecimals)
	quote, err := o.venue.GetExactOutQuote(ctx, solana.SolMint.String(), usdcMint, rawOut)
	if err != nil {
		return model.Fail(err)
	}

	swap, err := o.venue.BuildSwap(ctx, quote, record.PublicKey, recipientATA.String())
	if err != nil {
		return model.Fail(err)
	}

	signed, err := o.signFor(ctx, ownerID, []byte(swap.SwapTransaction))
	if err != nil {
		return model.Fail(err)
	}

	receipt, err := o.venue.SubmitSigned(ctx, "ultra", base64.StdEncoding.EncodeToString(signed), swap.RequestID)
	if err != nil {
		return model.Fail(err)
	}

	return model.OK(PaymentView{
		Amount:    amountUSDC,
		Address:   recipient,
		Signature: receipt.Signature,
		Status:    receipt.Status,
	})
}
