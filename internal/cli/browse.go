package cli

import (
	"github.com/spf13/cobra"

	"github.com/pranshuparmar/daxprobe/internal/tui"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Run queries interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := rootOpts.connect(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), conn)
		},
	}

	return cmd
}
