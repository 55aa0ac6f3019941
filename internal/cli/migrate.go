package cli

import (
	"errors"
	"fmt"

	intconfig "autotrust/internal/config"
	intdb "autotrust/internal/db"

	"github.com/spf13/cobra"
)

func newMigrateCmd(env *intconfig.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the booking tables, the summary view and the package rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !env.DatabaseEnabled() {
				return errors.New("migrate needs a database: set DB_HOST")
			}
			db, err := intconfig.ConnectDB(*env)
			if err != nil {
				return err
			}
			defer intconfig.CloseDB()

			g := intdb.New(db, env.DBAcquireTimeout)
			if err := g.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d statements\n", len(intdb.Statements()))
			return nil
		},
	}
}
