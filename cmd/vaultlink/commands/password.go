package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"vaultlink/internal/kdf"
)

// password: derive a site password without storing anything. The same
// root, site, and index always yield the same password.
func passwordCmd() *cobra.Command {
	var index uint32

	cmd := &cobra.Command{
		Use:   "password <site>",
		Short: "Derive a deterministic password for a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(); err != nil {
				return err
			}
			password, err := kdf.SitePassword(wire.Root(), args[0], index)
			if err != nil {
				return err
			}
			fmt.Println(password)
			return nil
		},
	}
	cmd.Flags().Uint32Var(&index, "index", 0, "derivation index; bump to rotate")
	return cmd
}
