package orchestrator

import (
	"time"

	"github.com/evadsh3ll/axelx/internal/model"
)

// WalletView is the data payload of wallet operations. PrivateKey is set
// only by CreateWallet and ExportWallet and must be rendered once, never
// logged.
type WalletView struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey,omitempty"`
}

// CreateWallet generates a custody wallet for the owner. The plaintext
// private key is returned exactly once for the user to save; only the
// encrypted record is persisted. A second call for the same owner conflicts.
func (o *Orchestrator) CreateWallet(ownerID string) model.Result {
	if _, err := o.wallets.Get(ownerID); err == nil {
		return model.Fail(&model.ConflictError{Reason: "wallet already exists for this user"})
	} else if !model.IsNotFound(err) {
		return model.Fail(err)
	}

	created, err := o.vault.CreateWallet()
	if err != nil {
		return model.Fail(err)
	}

	record := &model.WalletRecord{
		OwnerID:    ownerID,
		PublicKey:  created.PublicKey,
		Ciphertext: created.Ciphertext,
		CreatedAt:  time.Now(),
	}
	if err := o.wallets.Save(record); err != nil {
		return model.Fail(err)
	}

	return model.OK(WalletView{
		PublicKey:  created.PublicKey,
		PrivateKey: created.PrivateKey,
	})
}

// ExportWallet decrypts and returns the owner's private key.
func (o *Orchestrator) ExportWallet(ownerID string) model.Result {
	record, err := o.walletOf(ownerID)
	if err != nil {
		return model.Fail(err)
	}

	key, err := o.vault.LoadSigningKey(record.Ciphertext)
	if err != nil {
		return model.Fail(err)
	}

	return model.OK(WalletView{
		PublicKey:  record.PublicKey,
		PrivateKey: key.String(),
	})
}
