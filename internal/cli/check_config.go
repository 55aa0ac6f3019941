package cli

import (
	"fmt"

	intconfig "autotrust/internal/config"

	"github.com/spf13/cobra"
)

func runCheckConfig(cmd *cobra.Command, env intconfig.Env) error {
	if err := env.ValidateIntake(); err != nil {
		return err
	}
	sa, _ := intconfig.ResolveServiceAccount(env.ServiceAccount)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "spreadsheet:     %s (tab %s)\n", env.SpreadsheetID, env.SheetTab)
	fmt.Fprintf(out, "service account: %s via %s\n", sa.ClientEmail, sa.Kind)
	fmt.Fprintf(out, "smtp:            %s@%s:%d\n", env.EmailUser, env.SMTPHost, env.SMTPPort)
	fmt.Fprintf(out, "admin email:     %s\n", env.AdminEmail)
	if env.DatabaseEnabled() {
		fmt.Fprintf(out, "database:        %s@%s:%d/%s\n", env.DBUser, env.DBHost, env.DBPort, env.DBName)
	} else {
		fmt.Fprintln(out, "database:        disabled")
	}
	fmt.Fprintf(out, "admin auth:      %t\n", env.AdminJWTSecret != "")
	return nil
}
