package cli

import (
	"io"

	"gymdesk/internal/service"

	"github.com/spf13/cobra"
)

func NewHashCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := service.HashPassword(args[0])
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, map[string]string{"hash": h}, func(w io.Writer) {
				linef(w, "%s", h)
			})
		},
	}
}
