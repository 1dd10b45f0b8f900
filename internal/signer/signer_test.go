package signer

import (
	"encoding/base64"
	"testing"

	"github.com/evadsh3ll/axelx/internal/model"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildUnsignedTx(t *testing.T, payer solana.PublicKey) []byte {
	t.Helper()
	instr := solana.NewInstruction(
		solana.MemoProgramID,
		solana.AccountMetaSlice{solana.Meta(payer).SIGNER().WRITE()},
		[]byte("ping"),
	)
	tx, err := solana.NewTransaction(
		[]solana.Instruction{instr},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)

	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func parseSigned(t *testing.T, signed []byte) *solana.Transaction {
	t.Helper()
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(signed))
	require.NoError(t, err)
	return tx
}

func TestSignRawWireFormat(t *testing.T) {
	wallet := solana.NewWallet()
	raw := buildUnsignedTx(t, wallet.PublicKey())

	signed, err := Sign(raw, wallet.PrivateKey)
	require.NoError(t, err)

	tx := parseSigned(t, signed)
	require.Len(t, tx.Signatures, 1)
	assert.False(t, tx.Signatures[0].IsZero())
	assert.NoError(t, tx.VerifySignatures())
}

func TestSignBase64Fallback(t *testing.T) {
	wallet := solana.NewWallet()
	raw := buildUnsignedTx(t, wallet.PublicKey())
	b64 := base64.StdEncoding.EncodeToString(raw)

	signed, err := Sign([]byte(b64), wallet.PrivateKey)
	require.NoError(t, err)

	tx := parseSigned(t, signed)
	assert.NoError(t, tx.VerifySignatures())
}

func TestSignBase64Wrapper(t *testing.T) {
	wallet := solana.NewWallet()
	raw := buildUnsignedTx(t, wallet.PublicKey())

	signedB64, err := SignBase64(base64.StdEncoding.EncodeToString(raw), wallet.PrivateKey)
	require.NoError(t, err)

	signed, err := base64.StdEncoding.DecodeString(signedB64)
	require.NoError(t, err)
	assert.NoError(t, parseSigned(t, signed).VerifySignatures())
}

func TestSignRejectsGarbage(t *testing.T) {
	wallet := solana.NewWallet()

	var sigErr *model.SigningError
	_, err := Sign([]byte("not a transaction in any encoding"), wallet.PrivateKey)
	require.ErrorAs(t, err, &sigErr)

	_, err = Sign(nil, wallet.PrivateKey)
	require.ErrorAs(t, err, &sigErr)
}

func TestSignRejectsNonSignerKey(t *testing.T) {
	payer := solana.NewWallet()
	other := solana.NewWallet()
	raw := buildUnsignedTx(t, payer.PublicKey())

	var sigErr *model.SigningError
	_, err := Sign(raw, other.PrivateKey)
	require.ErrorAs(t, err, &sigErr)
}
