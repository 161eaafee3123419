package authz

import (
	"context"
	"fmt"

	"vaultlink/internal/domain"
	"vaultlink/internal/kdf"
)

// passwordChange rotates an account's password, either to a peer-supplied
// value or to the next deterministically generated one.
type passwordChange struct {
	engine      *Engine
	session     domain.Session
	tabID       domain.TabID
	accountID   domain.AccountID
	newPassword string
}

func newPasswordChange(e *Engine, session domain.Session, request domain.Request) (Authorizer, error) {
	if request.AccountID == "" {
		return nil, missing("account id")
	}
	return &passwordChange{
		engine:      e,
		session:     session,
		tabID:       request.TabID,
		accountID:   request.AccountID,
		newPassword: request.Password,
	}, nil
}

func (a *passwordChange) Type() domain.MessageType   { return domain.MessagePasswordChange }
func (a *passwordChange) RequiresVerification() bool { return true }

func (a *passwordChange) Prompt() string {
	return fmt.Sprintf("Change password for account %s", a.accountID)
}

func (a *passwordChange) Execute(ctx context.Context, _ domain.Grant, tx domain.Tx) (domain.Response, error) {
	account, ok, err := a.engine.accounts.LoadAccount(a.accountID)
	if err != nil {
		return domain.Response{}, err
	}
	if !ok {
		return domain.Response{
			Type:  domain.MessagePasswordChange,
			TabID: a.tabID,
			Error: domain.ErrorCodeDiscloseAccountExists,
		}, nil
	}
	if account.Shared && !a.session.IsAdmin {
		return domain.Response{}, fmt.Errorf(
			"account %s: %w", a.accountID, domain.ErrCannotChangeSharedAccount)
	}

	next := a.newPassword
	if next == "" {
		password, err := kdf.SitePassword(a.engine.root, account.Site, account.PasswordIndex+1)
		if err != nil {
			return domain.Response{}, err
		}
		next = password
	}
	account.Password = next
	account.PasswordIndex++
	account.UpdatedUTC = a.engine.now().Unix()
	if err := tx.SaveAccount(account); err != nil {
		return domain.Response{}, err
	}
	return domain.Response{
		Type:        domain.MessagePasswordChange,
		TabID:       a.tabID,
		NewPassword: next,
	}, nil
}
