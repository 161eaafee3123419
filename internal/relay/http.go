package relay

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"vaultlink/internal/domain"
	domaintypes "vaultlink/internal/domain/types"
)

// HTTP is the relay client. One request per call; retry policy is the
// caller's business.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a relay client for the given base URL.
func NewHTTP(base string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{Base: base, HTTP: client}
}

// Publish posts a fire-and-forget ciphertext for the peer of sessionID.
func (c *HTTP) Publish(ctx context.Context, sessionID domaintypes.SessionID, cipher []byte) error {
	return c.post(ctx, "/session/"+url.PathEscape(sessionID.String())+"/publish", struct {
		Cipher string `json:"cipher"`
	}{Cipher: base64.StdEncoding.EncodeToString(cipher)}, nil)
}

// PollPersistent fetches queued messages, holding up to wait if positive.
func (c *HTTP) PollPersistent(
	ctx context.Context,
	sessionID domaintypes.SessionID,
	wait time.Duration,
) ([]domaintypes.QueuedMessage, error) {
	path := "/session/" + url.PathEscape(sessionID.String()) + "/messages"
	if wait > 0 {
		path += "?wait=" + strconv.Itoa(int(wait.Seconds()))
	}
	var out []domaintypes.QueuedMessage
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Acknowledge deletes one queued message by its delivery token.
func (c *HTTP) Acknowledge(ctx context.Context, sessionID domaintypes.SessionID, token domaintypes.AckToken) error {
	return c.post(ctx, "/session/"+url.PathEscape(sessionID.String())+"/ack", struct {
		Token string `json:"token"`
	}{Token: token.String()}, nil)
}

// FetchRotationEntries returns the pending re-key chain in server order.
func (c *HTTP) FetchRotationEntries(
	ctx context.Context,
	sessionID domaintypes.SessionID,
) ([]domaintypes.RotationEntry, error) {
	var out []domaintypes.RotationEntry
	path := "/session/" + url.PathEscape(sessionID.String()) + "/rotation"
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterNewSigningKey installs the post-rotation signing key, fenced by
// the consumed rotation-list length.
func (c *HTTP) RegisterNewSigningKey(
	ctx context.Context,
	sessionID domaintypes.SessionID,
	pub domaintypes.Ed25519Public,
	fence int,
) error {
	return c.post(ctx, "/session/"+url.PathEscape(sessionID.String())+"/signing-key", struct {
		PublicKey string `json:"public_key"`
		Fence     int    `json:"fence"`
	}{PublicKey: base64.StdEncoding.EncodeToString(pub.Slice()), Fence: fence}, nil)
}

func (c *HTTP) post(ctx context.Context, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &domain.RelayError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return &domain.RelayError{Endpoint: path, Status: resp.StatusCode}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *HTTP) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &domain.RelayError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return &domain.RelayError{Endpoint: path, Status: resp.StatusCode}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ domain.RelayClient = (*HTTP)(nil)
