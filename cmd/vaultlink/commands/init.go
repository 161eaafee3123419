package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vaultlink/internal/kdf"
	"vaultlink/internal/util/memzero"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a root secret and seal it under the passphrase",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if ok, err := wire.Store.HasRoot(); err != nil {
				return err
			} else if ok {
				return fmt.Errorf("vault already initialized in %s", home)
			}

			root, err := kdf.NewRootSecret()
			if err != nil {
				return err
			}
			defer memzero.Zero(root)

			if err := wire.Store.SaveRoot(passphrase, root); err != nil {
				return err
			}

			words, err := kdf.Mnemonic(root)
			if err != nil {
				return err
			}
			fmt.Println("Vault initialized. Write down the recovery phrase:")
			fmt.Println()
			fmt.Println("  " + strings.Join(words, " "))
			return nil
		},
	}
}
