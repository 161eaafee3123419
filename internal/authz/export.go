package authz

import (
	"context"
	"encoding/json"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	"vaultlink/internal/util/memzero"
)

// export bundles every account into a passphrase-sealed blob the peer can
// store offline.
type export struct {
	engine     *Engine
	session    domain.Session
	tabID      domain.TabID
	passphrase string
}

func newExport(e *Engine, session domain.Session, request domain.Request) (Authorizer, error) {
	if request.Passphrase == "" {
		return nil, missing("export passphrase")
	}
	return &export{engine: e, session: session, tabID: request.TabID, passphrase: request.Passphrase}, nil
}

func (a *export) Type() domain.MessageType   { return domain.MessageExport }
func (a *export) RequiresVerification() bool { return true }

func (a *export) Prompt() string { return "Export the full vault" }

// exportEnvelope is the sealed bundle layout.
type exportEnvelope struct {
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	CT    []byte `json:"ct"`
}

func (a *export) Execute(ctx context.Context, _ domain.Grant, _ domain.Tx) (domain.Response, error) {
	accounts, err := a.engine.accounts.ListAccounts()
	if err != nil {
		return domain.Response{}, err
	}
	plaintext, err := json.Marshal(accounts)
	if err != nil {
		return domain.Response{}, err
	}

	salt, err := crypto.RandomBytes(16)
	if err != nil {
		return domain.Response{}, err
	}
	kek := argon2.IDKey([]byte(a.passphrase), salt, 1<<16, 8, 1, chacha20poly1305.KeySize)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return domain.Response{}, err
	}
	nonce, err := crypto.RandomBytes(chacha20poly1305.NonceSize)
	if err != nil {
		return domain.Response{}, err
	}
	bundle, err := json.Marshal(exportEnvelope{
		Salt:  salt,
		Nonce: nonce,
		CT:    aead.Seal(nil, nonce, plaintext, salt),
	})
	if err != nil {
		return domain.Response{}, err
	}
	return domain.Response{
		Type:   domain.MessageExport,
		TabID:  a.tabID,
		Export: bundle,
	}, nil
}
