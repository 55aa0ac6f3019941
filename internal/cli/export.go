package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	intconfig "autotrust/internal/config"
	"autotrust/internal/repositories"
	"autotrust/internal/services"

	"github.com/spf13/cobra"
)

func newExportCmd(env *intconfig.Env) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every stored booking as CSV or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !env.DatabaseEnabled() {
				return errors.New("export needs a database: set DB_HOST")
			}
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q (csv or json)", format)
			}
			db, err := intconfig.ConnectDB(*env)
			if err != nil {
				return err
			}
			defer intconfig.CloseDB()

			svc := services.AdminService{Bookings: repositories.BookingRepository{DB: db, Timeout: env.DBAcquireTimeout}}
			res, err := svc.ExportBookings(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if format == "csv" {
				body, err := services.BookingsCSV(res)
				if err != nil {
					return err
				}
				_, err = w.Write(body)
				return err
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(res.Data)
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}
