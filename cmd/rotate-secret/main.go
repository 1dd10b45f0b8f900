// One-off: re-encrypt every stored wallet record under a new server secret.
// Usage: OLD_WALLET_SECRET=... NEW_WALLET_SECRET=... DB_PATH=... go run ./cmd/rotate-secret
package main

import (
	"fmt"
	"os"

	"github.com/evadsh3ll/axelx/internal/store"
	"github.com/evadsh3ll/axelx/internal/vault"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	oldSecret := os.Getenv("OLD_WALLET_SECRET")
	newSecret := os.Getenv("NEW_WALLET_SECRET")
	if oldSecret == "" || newSecret == "" {
		fmt.Fprintln(os.Stderr, "OLD_WALLET_SECRET and NEW_WALLET_SECRET must be set")
		os.Exit(1)
	}
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/wallets"
	}

	wallets, err := store.OpenBadger(dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open wallet store:", err)
		os.Exit(1)
	}
	defer wallets.Close()

	oldVault := vault.New(oldSecret)
	newVault := vault.New(newSecret)

	owners, err := wallets.Owners()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to list wallets:", err)
		os.Exit(1)
	}

	rotated := 0
	for _, owner := range owners {
		record, err := wallets.Get(owner)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", owner, err)
			continue
		}

		key, err := oldVault.LoadSigningKey(record.Ciphertext)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", owner, err)
			continue
		}
		if key.PublicKey().String() != record.PublicKey {
			fmt.Fprintf(os.Stderr, "skip %s: decrypted key does not match stored public key\n", owner)
			continue
		}

		ciphertext, err := newVault.ImportWallet(key)
		if err != nil {
			fmt.Fprintln(os.Stderr, "re-encrypt failed:", err)
			os.Exit(1)
		}

		record.Ciphertext = ciphertext
		if err := wallets.Save(record); err != nil {
			fmt.Fprintf(os.Stderr, "save %s failed: %v\n", owner, err)
			os.Exit(1)
		}
		rotated++
	}

	fmt.Printf("rotated %d of %d wallet records\n", rotated, len(owners))
}
