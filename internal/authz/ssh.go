package authz

import (
	"context"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	"vaultlink/internal/kdf"
	"vaultlink/internal/util/memzero"
)

// sshSign answers an SSH challenge with a signature from the vault's SSH
// identity key.
type sshSign struct {
	engine    *Engine
	session   domain.Session
	tabID     domain.TabID
	challenge []byte
}

func newSSHSign(e *Engine, session domain.Session, request domain.Request) (Authorizer, error) {
	if len(request.SSHChallenge) == 0 {
		return nil, missing("ssh challenge")
	}
	return &sshSign{engine: e, session: session, tabID: request.TabID, challenge: request.SSHChallenge}, nil
}

func (a *sshSign) Type() domain.MessageType   { return domain.MessageSSHSign }
func (a *sshSign) RequiresVerification() bool { return false }

func (a *sshSign) Prompt() string { return "Approve SSH login" }

func (a *sshSign) Execute(ctx context.Context, _ domain.Grant, _ domain.Tx) (domain.Response, error) {
	seed, err := kdf.Derive(a.engine.root, kdf.ContextSSH, 0)
	if err != nil {
		return domain.Response{}, err
	}
	priv, pub := crypto.Ed25519FromSeed(seed)
	memzero.Zero(seed)

	return domain.Response{
		Type:      domain.MessageSSHSign,
		TabID:     a.tabID,
		Signature: crypto.Sign(priv, a.challenge),
		PublicKey: pub.Slice(),
	}, nil
}
