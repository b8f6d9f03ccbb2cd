package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-modalform/pkg/loader"
)

func newSchemaCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema form documents are checked against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), loader.Schema())
			return err
		},
	}
}
