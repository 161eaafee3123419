package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vaultlink/internal/app"
)

var (
	home       string
	passphrase string
	relayURL   string

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:           "vaultlink",
		Short:         "Device-held identity vault with relay-paired peers",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".vaultlink")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}
			if relayURL != "" {
				cfg.RelayURL = relayURL
			}

			wire, err = app.NewWire(cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if wire == nil {
				return nil
			}
			return wire.Close()
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.vaultlink)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the vault")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")

	root.AddCommand(
		initCmd(),
		recoverCmd(),
		mnemonicCmd(),
		pairCmd(),
		listenCmd(),
		pollCmd(),
		sessionsCmd(),
		rotateCmd(),
		accountCmd(),
		passwordCmd(),
		auditCmd(),
	)
	return root.Execute()
}

// unlock loads the root secret and builds the keyed services. Commands
// that touch vault data call this first.
func unlock() error {
	if passphrase == "" {
		return fmt.Errorf("passphrase required (-p)")
	}
	return wire.Unlock(passphrase, &terminalAuthenticator{}, nil)
}
