// Package cli wires the autotrust command tree.
package cli

import (
	intconfig "autotrust/internal/config"
	"autotrust/internal/utils"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCmd() *cobra.Command {
	var env intconfig.Env

	root := &cobra.Command{
		Use:           "autotrust",
		Short:         "AutoTrust car-inspection booking backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env = intconfig.LoadEnv()
			utils.SetupLogger(env.LogLevel, env.LogFormat)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), env)
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), env)
			},
		},
		&cobra.Command{
			Use:   "check-config",
			Short: "Validate the intake configuration and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCheckConfig(cmd, env)
			},
		},
		newExportCmd(&env),
		newMigrateCmd(&env),
		newBookCmd(),
		newHashPasswordCmd(),
	)
	return root
}
