package cli

import (
	"errors"
	"fmt"

	"autotrust/internal/catalog"
	"autotrust/internal/wizard"

	"github.com/spf13/cobra"
)

func newBookCmd() *cobra.Command {
	var file, apiURL, pkg string
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Fill the booking form from a YAML file and submit it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !catalog.Default().Valid(pkg) {
				return fmt.Errorf("unknown package %q", pkg)
			}
			form, err := wizard.LoadForm(file)
			if err != nil {
				return err
			}
			w := wizard.New(pkg)
			if err := w.Fill(form); err != nil {
				return fmt.Errorf("step %d (%s): %w", w.Step(), w.Step().Title(), err)
			}
			ack, err := w.Submit(cmd.Context(), wizard.NewHTTPSubmitter(apiURL))
			if err != nil {
				var fe wizard.FieldErrors
				if errors.As(err, &fe) {
					return fmt.Errorf("step %d (%s): %w", w.Step(), w.Step().Title(), err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nbooking reference: %s\n", ack.Message, w.Reference())
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "booking.yaml", "YAML file with the form fields")
	cmd.Flags().StringVar(&apiURL, "api", "http://localhost:5000/api", "API base URL")
	cmd.Flags().StringVar(&pkg, "package", "standard", "package id: basic, standard or premium")
	return cmd
}
