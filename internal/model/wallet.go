package model

import "time"

// WalletRecord is the persisted custody record for one owner. Ciphertext
// holds the encrypted private key in "ivHex:encryptedHex" form; the plaintext
// key is never stored.
type WalletRecord struct {
	OwnerID    string    `json:"ownerId"`
	PublicKey  string    `json:"publicKey"`
	Ciphertext string    `json:"ciphertext"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreatedWallet is returned by wallet creation. PrivateKey is the base58
// plaintext shown to the user exactly once; callers must not retain it.
type CreatedWallet struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
	Ciphertext string `json:"-"`
}
