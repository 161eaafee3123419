package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vaultlink/internal/authz"
	"vaultlink/internal/domain"
	"vaultlink/internal/kdf"
)

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage vault accounts",
	}
	cmd.AddCommand(accountAddCmd(), accountGetCmd(), accountListCmd())
	return cmd
}

func accountAddCmd() *cobra.Command {
	var (
		site     string
		username string
		password string
		notes    string
		generate bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account to the vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(); err != nil {
				return err
			}
			if site == "" || username == "" {
				return fmt.Errorf("--site and --username required")
			}

			id := authz.AccountIDFor(site, username)
			if _, exists, err := wire.Store.LoadAccount(id); err != nil {
				return err
			} else if exists {
				return fmt.Errorf("account for %s at %s already exists", username, site)
			}

			index := uint32(0)
			if generate {
				index = 1
				generated, err := kdf.SitePassword(wire.Root(), site, index)
				if err != nil {
					return err
				}
				password = generated
			}
			if password == "" {
				return fmt.Errorf("--password or --generate required")
			}

			now := time.Now().Unix()
			err := wire.Store.SaveAccount(domain.Account{
				ID:            id,
				Site:          site,
				Username:      username,
				Password:      password,
				Notes:         notes,
				PasswordIndex: index,
				CreatedUTC:    now,
				UpdatedUTC:    now,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Account %s added.\n", id)
			if generate {
				fmt.Printf("Password: %s\n", password)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&site, "site", "", "site the credential belongs to")
	cmd.Flags().StringVar(&username, "username", "", "login name at the site")
	cmd.Flags().StringVar(&password, "password", "", "password to store")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().BoolVar(&generate, "generate", false, "derive the password from the vault root")
	return cmd
}

func accountGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <site> <username>",
		Short: "Show one account's credential",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(); err != nil {
				return err
			}
			account, ok, err := wire.Store.LoadAccount(authz.AccountIDFor(args[0], args[1]))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("account for %s at %s: %w", args[1], args[0], domain.ErrNotFound)
			}
			fmt.Printf("Site:     %s\n", account.Site)
			fmt.Printf("Username: %s\n", account.Username)
			fmt.Printf("Password: %s\n", account.Password)
			if account.Notes != "" {
				fmt.Printf("Notes:    %s\n", account.Notes)
			}
			return nil
		},
	}
}

func accountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vault accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(); err != nil {
				return err
			}
			accounts, err := wire.Store.ListAccounts()
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Println("No accounts stored.")
				return nil
			}
			for _, a := range accounts {
				shared := ""
				if a.Shared {
					shared = "  [shared]"
				}
				fmt.Printf("%s  %s @ %s%s\n", a.ID, a.Username, a.Site, shared)
			}
			return nil
		},
	}
}
