package cli

import (
	"github.com/spf13/cobra"
)

func newClassesCmd(root *RootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List the classes found under a source root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := scanCatalog(cmd, dir, root.logger(cmd))
			if err != nil {
				return err
			}
			if root.Format == FormatJSON {
				return writeClassesJSON(cmd.OutOrStdout(), catalog)
			}
			return writeClassesText(cmd.OutOrStdout(), catalog, newPalette(root.NoColor))
		},
	}

	cmd.Flags().StringVar(&dir, "root", ".", "source root to scan")
	return cmd
}
