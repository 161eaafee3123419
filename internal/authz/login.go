package authz

import (
	"context"
	"fmt"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
)

// login answers a credential request with the account's current password
// and one-time code.
type login struct {
	engine    *Engine
	session   domain.Session
	tabID     domain.TabID
	accountID domain.AccountID
}

func newLogin(e *Engine, session domain.Session, request domain.Request) (Authorizer, error) {
	if request.AccountID == "" {
		return nil, missing("account id")
	}
	if request.TabID == "" {
		return nil, missing("tab id")
	}
	return &login{engine: e, session: session, tabID: request.TabID, accountID: request.AccountID}, nil
}

func (a *login) Type() domain.MessageType   { return domain.MessageLogin }
func (a *login) RequiresVerification() bool { return false }

func (a *login) Prompt() string {
	return fmt.Sprintf("Fill login for account %s", a.accountID)
}

func (a *login) Execute(ctx context.Context, _ domain.Grant, _ domain.Tx) (domain.Response, error) {
	account, ok, err := a.engine.accounts.LoadAccount(a.accountID)
	if err != nil {
		return domain.Response{}, err
	}
	if !ok {
		// Deliberately not a bare not-found: the peer only learns that it
		// should ask whether the account exists, not that it doesn't.
		return domain.Response{
			Type:  domain.MessageLogin,
			TabID: a.tabID,
			Error: domain.ErrorCodeDiscloseAccountExists,
		}, nil
	}

	response := domain.Response{
		Type:     domain.MessageLogin,
		TabID:    a.tabID,
		Username: account.Username,
		Password: account.Password,
	}
	if len(account.OTPSecret) > 0 {
		response.OTP = crypto.TOTP(account.OTPSecret, a.engine.now())
	}
	return response, nil
}
