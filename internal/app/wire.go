package app

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"vaultlink/internal/authz"
	"vaultlink/internal/domain"
	"vaultlink/internal/kdf"
	"vaultlink/internal/protocol/pairing"
	"vaultlink/internal/protocol/rotation"
	"vaultlink/internal/relay"
	channelsvc "vaultlink/internal/services/channel"
	sessionsvc "vaultlink/internal/services/session"
	"vaultlink/internal/store"
	"vaultlink/internal/util/memzero"
)

// Wire bundles all stores, services, and clients for the CLI.
//
// The graph comes up in two steps: NewWire opens the store and the relay
// client, Unlock loads the root secret and builds everything keyed on it.
type Wire struct {
	Config Config
	Log    *logrus.Logger
	Store  *store.Store
	Relay  domain.RelayClient

	Sessions domain.SessionService
	Pairing  domain.PairingService
	Rotation domain.RotationService
	Channel  domain.ChannelService
	Engine   *authz.Engine

	root []byte
}

// NewWire constructs the locked dependency graph from cfg. The
// authenticator and analytics sink stay out of Config because they are
// process-level collaborators, not configuration.
func NewWire(cfg Config) (*Wire, error) {
	log := logrus.New()
	if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
		}
		log.SetLevel(level)
	}

	st, err := store.Open(filepath.Join(cfg.Home, "vault"), log)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Wire{
		Config: cfg,
		Log:    log,
		Store:  st,
		Relay:  relay.NewHTTP(cfg.RelayURL, httpClient),
	}, nil
}

// Unlock opens the root secret with passphrase and builds the services
// keyed on it. Everything persisted after this point is sealed with a key
// derived from the root, never with the root itself.
func (w *Wire) Unlock(passphrase string, authn domain.Authenticator, analytics domain.Analytics) error {
	root, err := w.Store.LoadRoot(passphrase)
	if err != nil {
		return err
	}

	storeKey, err := kdf.Derive(root, kdf.ContextLocalStore, 0)
	if err != nil {
		memzero.Zero(root)
		return err
	}
	if err := w.Store.SetStoreKey(storeKey); err != nil {
		memzero.Zero(root)
		return err
	}
	w.root = root

	if analytics == nil {
		analytics = &logAnalytics{log: w.Log}
	}

	w.Sessions = sessionsvc.New(w.Store, w.Log)
	w.Pairing = pairing.New(root, w.Sessions, w.Relay, w.Log)
	w.Rotation = rotation.New(w.Sessions, w.Relay, w.Log)

	verifier := &authz.SessionVerifier{Sessions: w.Sessions}
	engine := authz.New(root, w.Store, w.Store, w.Store, authn, verifier, analytics, w.Log)
	channel := channelsvc.New(w.Relay, w.Sessions, w.Store, engine, w.Log)
	engine.Bind(channel)

	w.Engine = engine
	w.Channel = channel
	return nil
}

// Root exposes the unlocked root secret for derivations owned by the CLI
// (mnemonic display, password generation).
func (w *Wire) Root() []byte { return w.root }

// Close wipes the root secret and releases the store.
func (w *Wire) Close() error {
	memzero.Zero(w.root)
	w.root = nil
	return w.Store.Close()
}

// logAnalytics is the default analytics sink: one debug line per event.
type logAnalytics struct {
	log *logrus.Logger
}

func (a *logAnalytics) Event(name string, fields map[string]any) {
	a.log.WithFields(logrus.Fields(fields)).Debug(name)
}

var _ domain.Analytics = (*logAnalytics)(nil)
