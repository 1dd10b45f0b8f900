// Package signer turns opaque unsigned transaction bytes into signed bytes.
// It is a pure function over its inputs: no I/O, no shared state.
package signer

import (
	"encoding/base64"

	"github.com/evadsh3ll/axelx/internal/model"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Sign deserializes an unsigned transaction, fills the custody key's
// signature slot and re-serializes.
//
// Two framings are tolerated: the raw Solana wire format (the decoder handles
// both legacy and versioned messages) and, because the venue hands
// transactions around as base64 text, the base64 wrapping of those bytes.
// Raw is attempted first; base64 is the fallback.
func Sign(unsignedTx []byte, key solana.PrivateKey) ([]byte, error) {
	tx, err := parseTransaction(unsignedTx)
	if err != nil {
		return nil, err
	}

	if !isRequiredSigner(tx, key.PublicKey()) {
		return nil, &model.SigningError{Message: "key is not a required signer for this transaction"}
	}

	if _, err := tx.PartialSign(func(pk solana.PublicKey) *solana.PrivateKey {
		if pk.Equals(key.PublicKey()) {
			return &key
		}
		return nil
	}); err != nil {
		return nil, &model.SigningError{Message: "failed to sign transaction: " + err.Error()}
	}

	signed, err := tx.MarshalBinary()
	if err != nil {
		return nil, &model.SigningError{Message: "failed to serialize signed transaction: " + err.Error()}
	}
	return signed, nil
}

// SignBase64 is Sign with base64 in and out, matching the venue's wire shape.
func SignBase64(unsignedTx string, key solana.PrivateKey) (string, error) {
	signed, err := Sign([]byte(unsignedTx), key)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(signed), nil
}

func parseTransaction(raw []byte) (*solana.Transaction, error) {
	if len(raw) == 0 {
		return nil, &model.SigningError{Message: "empty transaction"}
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err == nil {
		return tx, nil
	}

	decoded, b64err := base64.StdEncoding.DecodeString(string(raw))
	if b64err == nil {
		if tx, err2 := solana.TransactionFromDecoder(bin.NewBinDecoder(decoded)); err2 == nil {
			return tx, nil
		}
	}

	return nil, &model.SigningError{Message: "transaction does not parse in any known encoding: " + err.Error()}
}

// isRequiredSigner reports whether pk occupies one of the signer slots of the
// transaction's message.
func isRequiredSigner(tx *solana.Transaction, pk solana.PublicKey) bool {
	numSigners := int(tx.Message.Header.NumRequiredSignatures)
	for i, acct := range tx.Message.AccountKeys {
		if i >= numSigners {
			break
		}
		if acct.Equals(pk) {
			return true
		}
	}
	return false
}
