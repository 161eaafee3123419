package authz

import (
	"context"
	"fmt"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	"vaultlink/internal/kdf"
	"vaultlink/internal/util/memzero"
)

// coseAlgEdDSA is the COSE identifier for Ed25519 signatures.
const coseAlgEdDSA = -8

// webauthnSign answers a WebAuthn assertion request with a signature from
// the relying-party-scoped key.
type webauthnSign struct {
	engine     *Engine
	session    domain.Session
	tabID      domain.TabID
	rpID       string
	challenge  []byte
	algorithms []int
}

func newWebAuthnSign(e *Engine, session domain.Session, request domain.Request) (Authorizer, error) {
	if request.RelyingPartyID == "" {
		return nil, missing("relying party id")
	}
	if len(request.Challenge) == 0 {
		return nil, missing("challenge")
	}
	return &webauthnSign{
		engine:     e,
		session:    session,
		tabID:      request.TabID,
		rpID:       request.RelyingPartyID,
		challenge:  request.Challenge,
		algorithms: request.Algorithms,
	}, nil
}

func (a *webauthnSign) Type() domain.MessageType   { return domain.MessageWebAuthnSign }
func (a *webauthnSign) RequiresVerification() bool { return false }

func (a *webauthnSign) Prompt() string {
	return fmt.Sprintf("Sign in to %s with your passkey", a.rpID)
}

func (a *webauthnSign) Execute(ctx context.Context, _ domain.Grant, _ domain.Tx) (domain.Response, error) {
	if len(a.algorithms) > 0 {
		supported := false
		for _, alg := range a.algorithms {
			if alg == coseAlgEdDSA {
				supported = true
				break
			}
		}
		if !supported {
			return domain.Response{}, fmt.Errorf("relying party %s accepts no supported algorithm", a.rpID)
		}
	}

	seed, err := kdf.Derive(a.engine.root, kdf.ContextWebAuthn+": "+a.rpID, 0)
	if err != nil {
		return domain.Response{}, err
	}
	priv, pub := crypto.Ed25519FromSeed(seed)
	memzero.Zero(seed)

	return domain.Response{
		Type:      domain.MessageWebAuthnSign,
		TabID:     a.tabID,
		Signature: crypto.Sign(priv, a.challenge),
		PublicKey: pub.Slice(),
	}, nil
}
