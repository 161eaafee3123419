package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vaultlink/internal/kdf"
	"vaultlink/internal/util/memzero"
)

// recoverCmd rebuilds the vault root from a recovery phrase. Phrases with
// the older checksum format are accepted too.
func recoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recover [words...]",
		Short: "Restore the root secret from a recovery phrase",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if ok, err := wire.Store.HasRoot(); err != nil {
				return err
			} else if ok {
				return fmt.Errorf("vault already initialized in %s", home)
			}

			words := args
			if len(words) == 0 {
				fmt.Print("Recovery phrase: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return err
				}
				words = strings.Fields(line)
			}

			root, err := kdf.RootFromMnemonic(words)
			if err != nil {
				return err
			}
			defer memzero.Zero(root)

			if err := wire.Store.SaveRoot(passphrase, root); err != nil {
				return err
			}
			fmt.Println("Vault recovered. Re-pair your peers; sessions are not part of the phrase.")
			return nil
		},
	}
}

func mnemonicCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mnemonic",
		Short: "Show the recovery phrase for the unlocked vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(); err != nil {
				return err
			}
			words, err := kdf.Mnemonic(wire.Root())
			if err != nil {
				return err
			}
			fmt.Println(strings.Join(words, " "))
			return nil
		},
	}
}
