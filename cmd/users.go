package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUsersCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect the known-users registry",
	}

	cmd.AddCommand(
		newUsersCountCmd(app),
		newUsersImportCmd(app),
	)

	return cmd
}

func newUsersCountCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of registered chats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, closeUsers, err := app.knownUsers(cmd.Context())
			if err != nil {
				return err
			}
			defer closeUsers()

			count, err := users.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("count known users: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), count)
			return err
		},
	}
}

func newUsersImportCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <users.json>",
		Short: "Merge a legacy JSON array of chat ids into the known-users registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.fileUsers()
			if err != nil {
				return err
			}

			added, err := store.ImportJSON(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			// Opening the registry backfills the imported chats into Redis.
			users, closeUsers, err := app.knownUsers(cmd.Context())
			if err != nil {
				return err
			}
			defer closeUsers()

			total, err := users.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("count known users: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d new chats into %s (%d known)\n", added, store.Path(), total)
			return err
		},
	}
}
