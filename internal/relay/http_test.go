package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vaultlink/internal/domain"
	domaintypes "vaultlink/internal/domain/types"
)

func TestPublish_PostsBase64Cipher(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL, nil)
	require.NoError(t, c.Publish(context.Background(), "sess-1", []byte("cipher")))
	require.Equal(t, "/session/sess-1/publish", gotPath)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("cipher")), gotBody["cipher"])
}

func TestPollPersistent_DecodesQueueAndWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/session/sess-1/messages", r.URL.Path)
		require.Equal(t, "5", r.URL.Query().Get("wait"))
		_ = json.NewEncoder(w).Encode([]domaintypes.QueuedMessage{
			{Cipher: []byte("one"), Token: "t1"},
			{Cipher: []byte("two"), Token: "t2"},
		})
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL, nil)
	msgs, err := c.PollPersistent(context.Background(), "sess-1", 5*time.Second)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, []byte("one"), msgs[0].Cipher)
	require.Equal(t, domaintypes.AckToken("t2"), msgs[1].Token)
}

func TestAcknowledge_PostsToken(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/session/sess-1/ack", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL, nil)
	require.NoError(t, c.Acknowledge(context.Background(), "sess-1", "tok-9"))
	require.Equal(t, "tok-9", gotBody["token"])
}

func TestRegisterNewSigningKey_CarriesFence(t *testing.T) {
	var gotBody struct {
		PublicKey string `json:"public_key"`
		Fence     int    `json:"fence"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/session/sess-1/signing-key", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var pub domaintypes.Ed25519Public
	pub[0] = 0x7f
	c := NewHTTP(srv.URL, nil)
	require.NoError(t, c.RegisterNewSigningKey(context.Background(), "sess-1", pub, 3))
	require.Equal(t, 3, gotBody.Fence)
	require.Equal(t, base64.StdEncoding.EncodeToString(pub.Slice()), gotBody.PublicKey)
}

func TestErrors_WrapRelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "conflict", http.StatusConflict)
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL, nil)
	err := c.RegisterNewSigningKey(context.Background(), "sess-1", domaintypes.Ed25519Public{}, 0)
	require.Error(t, err)

	var relayErr *domain.RelayError
	require.ErrorAs(t, err, &relayErr)
	require.Equal(t, http.StatusConflict, relayErr.Status)
}
