package authz

import (
	"context"
	"fmt"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
)

// otpCode answers with the account's current one-time code only.
type otpCode struct {
	engine    *Engine
	session   domain.Session
	tabID     domain.TabID
	accountID domain.AccountID
}

func newOTPCode(e *Engine, session domain.Session, request domain.Request) (Authorizer, error) {
	if request.AccountID == "" {
		return nil, missing("account id")
	}
	return &otpCode{engine: e, session: session, tabID: request.TabID, accountID: request.AccountID}, nil
}

func (a *otpCode) Type() domain.MessageType   { return domain.MessageOTPCode }
func (a *otpCode) RequiresVerification() bool { return false }

func (a *otpCode) Prompt() string {
	return fmt.Sprintf("Share one-time code for account %s", a.accountID)
}

func (a *otpCode) Execute(ctx context.Context, _ domain.Grant, _ domain.Tx) (domain.Response, error) {
	account, ok, err := a.engine.accounts.LoadAccount(a.accountID)
	if err != nil {
		return domain.Response{}, err
	}
	if !ok {
		return domain.Response{
			Type:  domain.MessageOTPCode,
			TabID: a.tabID,
			Error: domain.ErrorCodeDiscloseAccountExists,
		}, nil
	}
	if len(account.OTPSecret) == 0 {
		return domain.Response{}, fmt.Errorf("account %s has no OTP secret: %w", a.accountID, domain.ErrNotFound)
	}
	return domain.Response{
		Type:  domain.MessageOTPCode,
		TabID: a.tabID,
		OTP:   crypto.TOTP(account.OTPSecret, a.engine.now()),
	}, nil
}
