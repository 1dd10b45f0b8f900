// Package vault holds the custody logic: it is the only place plaintext key
// material exists, and only for the duration of a single call.
package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/evadsh3ll/axelx/internal/model"

	"github.com/gagliardetto/solana-go"
)

const ivLen = aes.BlockSize // AES-CBC always uses a 16-byte IV

// Vault encrypts and decrypts private key material with a key derived from
// the server-wide secret.
//
// The scheme is AES-256-CBC with key = SHA-256(secret) and a fresh random IV
// per record, serialized as "hex(iv):hex(ciphertext)". CBC carries no
// authentication tag, so a tampered record is only detected when the
// decrypted payload fails to parse as a key. Accepted risk: records are
// confidential but not integrity-protected.
type Vault struct {
	secret string
}

// New creates a Vault over the server-wide secret. An empty secret is allowed
// here so construction cannot fail at startup; operations reject it.
func New(secret string) *Vault {
	return &Vault{secret: secret}
}

// deriveKey hashes the secret down to the exact 32 bytes AES-256 requires.
func (v *Vault) deriveKey() [32]byte {
	return sha256.Sum256([]byte(v.secret))
}

// CreateWallet generates a fresh keypair and returns the public key, the
// base58 plaintext private key (shown to the user exactly once, never
// stored) and the encrypted record.
func (v *Vault) CreateWallet() (*model.CreatedWallet, error) {
	if v.secret == "" {
		return nil, &model.ConfigurationError{Message: "wallet secret is not configured"}
	}

	wallet := solana.NewWallet()
	plaintext := wallet.PrivateKey.String() // base58 of the 64-byte key

	ciphertext, err := v.encrypt([]byte(plaintext))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt private key: %w", err)
	}

	return &model.CreatedWallet{
		PublicKey:  wallet.PublicKey().String(),
		PrivateKey: plaintext,
		Ciphertext: ciphertext,
	}, nil
}

// ImportWallet encrypts an existing private key under this vault's secret and
// returns the record ciphertext. Used when re-keying stored records.
func (v *Vault) ImportWallet(key solana.PrivateKey) (string, error) {
	if v.secret == "" {
		return "", &model.ConfigurationError{Message: "wallet secret is not configured"}
	}
	return v.encrypt([]byte(key.String()))
}

// LoadSigningKey reverses the encryption and returns a usable signing key.
func (v *Vault) LoadSigningKey(ciphertext string) (solana.PrivateKey, error) {
	if v.secret == "" {
		return nil, &model.ConfigurationError{Message: "wallet secret is not configured"}
	}

	plaintext, err := v.decrypt(ciphertext)
	if err != nil {
		return nil, err
	}

	key, err := solana.PrivateKeyFromBase58(string(plaintext))
	if err != nil {
		return nil, &model.DecryptionError{Message: "decrypted payload is not a valid private key"}
	}
	if len(key) != 64 {
		return nil, &model.DecryptionError{Message: "decrypted private key has wrong length"}
	}
	return key, nil
}

func (v *Vault) encrypt(plaintext []byte) (string, error) {
	key := v.deriveKey()
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, ivLen)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(encrypted, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(encrypted), nil
}

func (v *Vault) decrypt(ciphertext string) ([]byte, error) {
	parts := strings.SplitN(ciphertext, ":", 2)
	if len(parts) != 2 {
		return nil, &model.DecryptionError{Message: "malformed ciphertext record"}
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != ivLen {
		return nil, &model.DecryptionError{Message: "malformed ciphertext IV"}
	}

	encrypted, err := hex.DecodeString(parts[1])
	if err != nil || len(encrypted) == 0 || len(encrypted)%aes.BlockSize != 0 {
		return nil, &model.DecryptionError{Message: "malformed ciphertext body"}
	}

	key := v.deriveKey()
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := make([]byte, len(encrypted))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, encrypted)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return nil, &model.DecryptionError{Message: "ciphertext unreadable: wrong secret or corrupted record"}
	}
	return plaintext, nil
}

// pkcs7Pad appends PKCS#7 padding up to the block size.
func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

// pkcs7Unpad strips and validates PKCS#7 padding.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("invalid padding byte %d", n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-n], nil
}
