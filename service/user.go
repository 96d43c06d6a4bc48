package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"blogsite/app/services"

	"github.com/spf13/cobra"
)

func newUserCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage author accounts",
	}

	var password string
	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Create an account that can write posts and moderate comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = readPassword(cmd); err != nil {
					return err
				}
			}

			cfg := opts.cfg
			store, err := openStore(cmd.Context(), cfg, quietLogger())
			if err != nil {
				return err
			}
			defer store.Close()

			auth := services.NewAuthService(store.Users, cfg.Auth.Secret, cfg.Auth.TokenTTL, services.SystemClock{})
			user, err := auth.Register(cmd.Context(), args[0], password)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "User %q created with id %d\n", user.Username, user.ID)
			return nil
		},
	}
	create.Flags().StringVarP(&password, "password", "p", "", "password for the new account (prompted when empty)")

	cmd.AddCommand(create)
	return cmd
}

func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
