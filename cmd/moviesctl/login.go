package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Resolve a username and remember it",
		Long: `Resolve a username on the server, creating the user on first use,
and store it in the config file for later commands.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			if username == "" {
				return errors.New("username must not be blank")
			}

			id, err := a.client().EnsureUser(cmd.Context(), username)
			if err != nil {
				return err
			}
			if err := a.saveUsername(username); err != nil {
				return err
			}

			if a.jsonOutput {
				return a.printJSON(map[string]any{"userId": id, "username": username})
			}
			fmt.Fprintf(a.out, "Logged in as %s (user %d)\n", username, id)
			return nil
		},
	}
}
