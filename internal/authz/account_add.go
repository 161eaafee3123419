package authz

import (
	"context"
	"fmt"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
)

// AccountIDFor derives a stable account id from site and username, so
// re-adding the same credential is detectable as a duplicate.
func AccountIDFor(site, username string) domain.AccountID {
	return domain.AccountID(crypto.Fingerprint([]byte(site + "\x00" + username)))
}

// accountAdd creates one vault account.
type accountAdd struct {
	engine  *Engine
	session domain.Session
	tabID   domain.TabID
	account domain.Account
}

func newAccountAdd(e *Engine, session domain.Session, request domain.Request) (Authorizer, error) {
	if request.Site == "" {
		return nil, missing("site")
	}
	if request.Username == "" {
		return nil, missing("username")
	}
	if request.Password == "" {
		return nil, missing("password")
	}
	return &accountAdd{
		engine:  e,
		session: session,
		tabID:   request.TabID,
		account: domain.Account{
			ID:       AccountIDFor(request.Site, request.Username),
			Site:     request.Site,
			Username: request.Username,
			Password: request.Password,
			Notes:    request.Notes,
			Shared:   session.Kind == domain.SessionTeam,
		},
	}, nil
}

func (a *accountAdd) Type() domain.MessageType   { return domain.MessageAccountAdd }
func (a *accountAdd) RequiresVerification() bool { return false }

func (a *accountAdd) Prompt() string {
	return fmt.Sprintf("Add account %s at %s", a.account.Username, a.account.Site)
}

func (a *accountAdd) Execute(ctx context.Context, _ domain.Grant, tx domain.Tx) (domain.Response, error) {
	// Re-adding an existing account is a safe no-op, which keeps
	// redelivered messages harmless.
	if _, exists, err := a.engine.accounts.LoadAccount(a.account.ID); err != nil {
		return domain.Response{}, err
	} else if exists {
		return domain.Response{
			Type:  domain.MessageAccountAdd,
			TabID: a.tabID,
			Error: domain.ErrorCodeAccountExists,
		}, nil
	}

	now := a.engine.now().Unix()
	a.account.CreatedUTC = now
	a.account.UpdatedUTC = now
	if err := tx.SaveAccount(a.account); err != nil {
		return domain.Response{}, err
	}
	return domain.Response{
		Type:     domain.MessageAccountAdd,
		TabID:    a.tabID,
		Username: a.account.Username,
	}, nil
}
