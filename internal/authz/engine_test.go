package authz_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/stretchr/testify/require"

	"vaultlink/internal/authz"
	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	domaintypes "vaultlink/internal/domain/types"
)

type memAccounts struct {
	mu sync.Mutex
	m  map[domaintypes.AccountID]domaintypes.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{m: make(map[domaintypes.AccountID]domaintypes.Account)}
}

func (s *memAccounts) SaveAccount(a domaintypes.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[a.ID] = a
	return nil
}

func (s *memAccounts) LoadAccount(id domaintypes.AccountID) (domaintypes.Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.m[id]
	return a, ok, nil
}

func (s *memAccounts) ListAccounts() ([]domaintypes.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domaintypes.Account, 0, len(s.m))
	for _, a := range s.m {
		out = append(out, a)
	}
	return out, nil
}

func (s *memAccounts) DeleteAccount(id domaintypes.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

type memTokens struct {
	mu sync.Mutex
	m  map[string]bool
}

func newMemTokens() *memTokens { return &memTokens{m: make(map[string]bool)} }

func (t *memTokens) MarkProcessed(id domaintypes.SessionID, token domaintypes.AckToken) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[id.String()+"/"+token.String()] = true
	return nil
}

func (t *memTokens) WasProcessed(id domaintypes.SessionID, token domaintypes.AckToken) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.m[id.String()+"/"+token.String()], nil
}

// memTxStore applies staged writes on commit and records each committed
// batch, so tests can assert which writes landed together.
type memTxStore struct {
	mu        sync.Mutex
	accounts  *memAccounts
	tokens    *memTokens
	commitErr error      // fails every non-empty commit while set
	commits   [][]string // op labels per committed batch
}

func (s *memTxStore) Begin() domain.Tx { return &memTx{store: s} }

func (s *memTxStore) committed(t *testing.T) [][]string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.commits))
	copy(out, s.commits)
	return out
}

type memTx struct {
	store  *memTxStore
	labels []string
	apply  []func() error
}

func (t *memTx) SaveAccount(a domaintypes.Account) error {
	t.labels = append(t.labels, "account:"+a.ID.String())
	t.apply = append(t.apply, func() error { return t.store.accounts.SaveAccount(a) })
	return nil
}

func (t *memTx) MarkProcessed(id domaintypes.SessionID, token domaintypes.AckToken) error {
	t.labels = append(t.labels, "token:"+token.String())
	t.apply = append(t.apply, func() error { return t.store.tokens.MarkProcessed(id, token) })
	return nil
}

func (t *memTx) Commit() error {
	if len(t.labels) == 0 {
		return nil
	}
	t.store.mu.Lock()
	if err := t.store.commitErr; err != nil {
		t.store.mu.Unlock()
		return err
	}
	t.store.commits = append(t.store.commits, t.labels)
	t.store.mu.Unlock()
	for _, fn := range t.apply {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

type memAudit struct {
	mu      sync.Mutex
	entries []domaintypes.AuditEntry
}

func (s *memAudit) AppendAudit(e domaintypes.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *memAudit) ListAudit(id domaintypes.SessionID) ([]domaintypes.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domaintypes.AuditEntry
	for _, e := range s.entries {
		if e.SessionID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAuthn struct {
	calls int
	err   error
}

func (a *fakeAuthn) Authenticate(ctx context.Context, prompt string) (domain.Grant, error) {
	a.calls++
	if a.err != nil {
		return domain.Grant{}, a.err
	}
	return domain.Grant{IssuedUTC: 1}, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []domaintypes.Response
}

func (s *fakeSender) SendResponse(ctx context.Context, _ domaintypes.Session, r domaintypes.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, r)
	return nil
}

func (s *fakeSender) last(t *testing.T) domaintypes.Response {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.sent)
	return s.sent[len(s.sent)-1]
}

type fakeAnalytics struct {
	mu     sync.Mutex
	events []string
}

func (a *fakeAnalytics) Event(name string, _ map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, name)
}

type fixedVerifier string

func (v fixedVerifier) ExpectedCode(domaintypes.SessionID) (string, error) {
	return string(v), nil
}

type harness struct {
	engine    *authz.Engine
	accounts  *memAccounts
	tokens    *memTokens
	txs       *memTxStore
	audit     *memAudit
	authn     *fakeAuthn
	sender    *fakeSender
	analytics *fakeAnalytics
	session   domaintypes.Session
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		accounts:  newMemAccounts(),
		tokens:    newMemTokens(),
		audit:     &memAudit{},
		authn:     &fakeAuthn{},
		sender:    &fakeSender{},
		analytics: &fakeAnalytics{},
		session: domaintypes.Session{
			ID:           "sess-1",
			Version:      2,
			SharedSecret: bytes.Repeat([]byte{0x44}, 32),
		},
	}
	h.txs = &memTxStore{accounts: h.accounts, tokens: h.tokens}
	h.engine = authz.New(
		bytes.Repeat([]byte{0x13}, 32),
		h.accounts,
		h.txs,
		h.audit,
		h.authn,
		fixedVerifier("123456"),
		h.analytics,
		nil,
	)
	h.engine.Bind(h.sender)
	return h
}

func (h *harness) auditEntries(t *testing.T) []domaintypes.AuditEntry {
	t.Helper()
	entries, err := h.audit.ListAudit(h.session.ID)
	require.NoError(t, err)
	return entries
}

func TestLogin_ReturnsPasswordAndOTP(t *testing.T) {
	h := newHarness(t)
	account := domaintypes.Account{
		ID:        "acct-1",
		Site:      "example.com",
		Username:  "kim",
		Password:  "hunter2",
		OTPSecret: []byte("12345678901234567890"),
	}
	require.NoError(t, h.accounts.SaveAccount(account))

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{
		Type:      domaintypes.MessageLogin,
		TabID:     "tab-9",
		AccountID: "acct-1",
	})
	require.NoError(t, err)
	require.Equal(t, 1, h.authn.calls)

	resp := h.sender.last(t)
	require.Equal(t, domaintypes.MessageLogin, resp.Type)
	require.Equal(t, domaintypes.TabID("tab-9"), resp.TabID)
	require.Equal(t, "hunter2", resp.Password)
	require.Len(t, resp.OTP, 6)

	entries := h.auditEntries(t)
	require.Len(t, entries, 1)
	require.False(t, entries[0].Rejected)
	require.True(t, entries[0].Success)
}

func TestLogin_UnknownAccountDisclosesNothing(t *testing.T) {
	h := newHarness(t)

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{
		Type:      domaintypes.MessageLogin,
		TabID:     "tab-1",
		AccountID: "missing",
	})
	require.NoError(t, err)

	resp := h.sender.last(t)
	require.Equal(t, domaintypes.ErrorCodeDiscloseAccountExists, resp.Error)
	require.Empty(t, resp.Password)
}

func TestUnknownType_FailsClosed(t *testing.T) {
	h := newHarness(t)

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{Type: 99})
	require.ErrorIs(t, err, domain.ErrUnknownMessageType)
	require.Zero(t, h.authn.calls)

	entries := h.auditEntries(t)
	require.Len(t, entries, 1)
	require.True(t, entries[0].Rejected)
	require.True(t, h.sender.last(t).Rejected)
}

func TestMissingData_NeverReachesAuthenticator(t *testing.T) {
	h := newHarness(t)

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{
		Type: domaintypes.MessageLogin, // no account id, no tab id
	})
	require.ErrorIs(t, err, domain.ErrMissingData)
	require.Zero(t, h.authn.calls)
}

func TestVerificationMismatch_NeverInvokesAuthenticator(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.accounts.SaveAccount(domaintypes.Account{
		ID: "acct-1", Site: "example.com", Password: "old",
	}))

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{
		Type:             domaintypes.MessagePasswordChange,
		AccountID:        "acct-1",
		VerificationCode: "000000",
	})
	require.ErrorIs(t, err, domain.ErrVerificationMismatch)
	require.Zero(t, h.authn.calls)

	// Zero vault-state change.
	account, ok, err := h.accounts.LoadAccount("acct-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "old", account.Password)

	require.True(t, h.sender.last(t).Rejected)
}

func TestPasswordChange_MintsDeterministicPassword(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.accounts.SaveAccount(domaintypes.Account{
		ID: "acct-1", Site: "example.com", Password: "old",
	}))

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{
		Type:             domaintypes.MessagePasswordChange,
		AccountID:        "acct-1",
		VerificationCode: "123456",
	})
	require.NoError(t, err)

	resp := h.sender.last(t)
	require.NotEmpty(t, resp.NewPassword)
	require.NotEqual(t, "old", resp.NewPassword)

	account, _, err := h.accounts.LoadAccount("acct-1")
	require.NoError(t, err)
	require.Equal(t, resp.NewPassword, account.Password)
	require.EqualValues(t, 1, account.PasswordIndex)
}

func TestPasswordChange_TokenCommitsWithMutation(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.accounts.SaveAccount(domaintypes.Account{
		ID: "acct-1", Site: "example.com", Password: "old",
	}))

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{
		Type:             domaintypes.MessagePasswordChange,
		AccountID:        "acct-1",
		VerificationCode: "123456",
		Token:            "tok-1",
	})
	require.NoError(t, err)

	seen, err := h.tokens.WasProcessed(h.session.ID, "tok-1")
	require.NoError(t, err)
	require.True(t, seen)

	// The account write and the token record landed in one commit.
	commits := h.txs.committed(t)
	require.Len(t, commits, 1)
	require.Equal(t, []string{"account:acct-1", "token:tok-1"}, commits[0])
}

func TestPasswordChange_RedeliveryAfterFailedCommit(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.accounts.SaveAccount(domaintypes.Account{
		ID: "acct-1", Site: "example.com", Password: "old",
	}))
	h.txs.commitErr = fmt.Errorf("disk full")

	request := domaintypes.Request{
		Type:             domaintypes.MessagePasswordChange,
		AccountID:        "acct-1",
		VerificationCode: "123456",
		Token:            "tok-1",
	}

	// First delivery: the store is down, so neither the new password nor
	// the token record lands, and the channel would keep the message
	// queued.
	require.Error(t, h.engine.Process(context.Background(), h.session, request))
	account, _, err := h.accounts.LoadAccount("acct-1")
	require.NoError(t, err)
	require.Equal(t, "old", account.Password)
	require.EqualValues(t, 0, account.PasswordIndex)
	seen, err := h.tokens.WasProcessed(h.session.ID, "tok-1")
	require.NoError(t, err)
	require.False(t, seen)

	// Redelivery runs the flow from scratch and must leave the same end
	// state as a single successful delivery: one index bump, one password.
	h.txs.commitErr = nil
	require.NoError(t, h.engine.Process(context.Background(), h.session, request))
	account, _, err = h.accounts.LoadAccount("acct-1")
	require.NoError(t, err)
	require.Equal(t, h.sender.last(t).NewPassword, account.Password)
	require.EqualValues(t, 1, account.PasswordIndex)
}

func TestRejection_ConsumesDeliveryToken(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.accounts.SaveAccount(domaintypes.Account{
		ID: "acct-1", Site: "example.com", Password: "old",
	}))

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{
		Type:             domaintypes.MessagePasswordChange,
		AccountID:        "acct-1",
		VerificationCode: "000000",
		Token:            "tok-1",
	})
	require.ErrorIs(t, err, domain.ErrVerificationMismatch)

	// The rejection resolved the request: the token is consumed so a
	// redelivery is re-acknowledged, and the vault is untouched.
	seen, err := h.tokens.WasProcessed(h.session.ID, "tok-1")
	require.NoError(t, err)
	require.True(t, seen)
	account, _, _ := h.accounts.LoadAccount("acct-1")
	require.Equal(t, "old", account.Password)
}

func TestPasswordChange_SharedAccountNonAdmin(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.accounts.SaveAccount(domaintypes.Account{
		ID: "acct-1", Site: "example.com", Password: "old", Shared: true,
	}))

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{
		Type:             domaintypes.MessagePasswordChange,
		AccountID:        "acct-1",
		VerificationCode: "123456",
	})
	require.ErrorIs(t, err, domain.ErrCannotChangeSharedAccount)

	// Generic rejection, password untouched, failure audited.
	require.True(t, h.sender.last(t).Rejected)
	account, _, _ := h.accounts.LoadAccount("acct-1")
	require.Equal(t, "old", account.Password)

	entries := h.auditEntries(t)
	require.Len(t, entries, 1)
	require.False(t, entries[0].Success)
	require.NotEmpty(t, entries[0].Error)
}

func TestBulkImport_PartialFailure(t *testing.T) {
	h := newHarness(t)

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{
		Type:             domaintypes.MessageBulkImport,
		TabID:            "tab-3",
		VerificationCode: "123456",
		Accounts: []domaintypes.ImportAccount{
			{Site: "a.example", Username: "u1", Password: "p1"},
			{Site: "", Username: "u2", Password: "p2"}, // malformed
			{Site: "c.example", Username: "u3", Password: "p3"},
			{Site: "d.example", Username: "", Password: "p4"}, // malformed
			{Site: "e.example", Username: "u5", Password: "p5"},
		},
	})
	require.NoError(t, err)

	resp := h.sender.last(t)
	require.Equal(t, 3, resp.Succeeded)
	require.Equal(t, 2, resp.Failed)
	require.Len(t, resp.Results, 5)

	accounts, err := h.accounts.ListAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	entries := h.auditEntries(t)
	require.Len(t, entries, 1)
	require.Equal(t, 2, entries[0].Failed)
}

func TestBulkImport_ReplayIsNoOp(t *testing.T) {
	h := newHarness(t)
	request := domaintypes.Request{
		Type:             domaintypes.MessageBulkImport,
		VerificationCode: "123456",
		Accounts: []domaintypes.ImportAccount{
			{Site: "a.example", Username: "u1", Password: "p1"},
		},
	}

	require.NoError(t, h.engine.Process(context.Background(), h.session, request))
	require.NoError(t, h.engine.Process(context.Background(), h.session, request))

	accounts, err := h.accounts.ListAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
}

func TestAccountAdd_DuplicateReportsExists(t *testing.T) {
	h := newHarness(t)
	request := domaintypes.Request{
		Type:     domaintypes.MessageAccountAdd,
		Site:     "example.com",
		Username: "kim",
		Password: "pw",
	}

	require.NoError(t, h.engine.Process(context.Background(), h.session, request))
	require.Empty(t, h.sender.last(t).Error)

	require.NoError(t, h.engine.Process(context.Background(), h.session, request))
	require.Equal(t, domaintypes.ErrorCodeAccountExists, h.sender.last(t).Error)

	accounts, err := h.accounts.ListAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
}

func TestAuthenticationFailure_IsAuditedAndGeneric(t *testing.T) {
	h := newHarness(t)
	h.authn.err = fmt.Errorf("user cancelled")
	require.NoError(t, h.accounts.SaveAccount(domaintypes.Account{ID: "acct-1", Password: "pw"}))

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{
		Type:      domaintypes.MessageLogin,
		TabID:     "tab-1",
		AccountID: "acct-1",
	})
	require.ErrorIs(t, err, domain.ErrAuthenticationFailed)

	resp := h.sender.last(t)
	require.True(t, resp.Rejected)
	require.Empty(t, resp.Password)

	entries := h.auditEntries(t)
	require.Len(t, entries, 1)
	require.True(t, entries[0].Rejected)
}

func TestRequestExpired(t *testing.T) {
	h := newHarness(t)

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{
		Type:         domaintypes.MessageSSHSign,
		SSHChallenge: []byte("challenge"),
		IssuedUTC:    1, // 1970: long expired
	})
	require.Error(t, err)
	require.Equal(t, domaintypes.ErrorCodeRequestExpired, h.sender.last(t).Error)
	require.Zero(t, h.authn.calls)
}

func TestWebAuthnSign_VerifiableSignature(t *testing.T) {
	h := newHarness(t)
	challenge := []byte("webauthn-challenge")

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{
		Type:           domaintypes.MessageWebAuthnSign,
		TabID:          "tab-2",
		RelyingPartyID: "login.example.com",
		Challenge:      challenge,
		Algorithms:     []int{-7, -8},
	})
	require.NoError(t, err)

	resp := h.sender.last(t)
	var pub domaintypes.Ed25519Public
	copy(pub[:], resp.PublicKey)
	require.True(t, crypto.Verify(pub, challenge, resp.Signature))
}

func TestExport_BundleOpensWithPassphrase(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.accounts.SaveAccount(domaintypes.Account{
		ID: "acct-1", Site: "example.com", Username: "kim", Password: "pw",
	}))

	err := h.engine.Process(context.Background(), h.session, domaintypes.Request{
		Type:             domaintypes.MessageExport,
		VerificationCode: "123456",
		Passphrase:       "export-passphrase",
	})
	require.NoError(t, err)

	resp := h.sender.last(t)
	require.NotEmpty(t, resp.Export)

	var env struct {
		Salt  []byte `json:"salt"`
		Nonce []byte `json:"nonce"`
		CT    []byte `json:"ct"`
	}
	require.NoError(t, json.Unmarshal(resp.Export, &env))

	kek := argon2.IDKey([]byte("export-passphrase"), env.Salt, 1<<16, 8, 1, chacha20poly1305.KeySize)
	aead, err := chacha20poly1305.New(kek)
	require.NoError(t, err)
	plaintext, err := aead.Open(nil, env.Nonce, env.CT, env.Salt)
	require.NoError(t, err)

	var accounts []domaintypes.Account
	require.NoError(t, json.Unmarshal(plaintext, &accounts))
	require.Len(t, accounts, 1)
	require.Equal(t, "kim", accounts[0].Username)
}
