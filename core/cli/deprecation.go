package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emenda-labs/apigen/pkg/deprecation"
)

// NewDeprecationMessageCmd creates the "deprecation-message" command.
func NewDeprecationMessageCmd(global *GlobalOptions) *cobra.Command {
	var (
		recommendations []string
		availableUntil  string
		libraryName     string
	)

	cmd := &cobra.Command{
		Use:   "deprecation-message NAME",
		Short: "Print the deprecation warning of a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("library-name") {
				proj, err := loadProject(global)
				if err != nil {
					return err
				}
				if proj.Apigen.LibraryName != "" {
					libraryName = proj.Apigen.LibraryName
				}
			}
			msg, err := deprecation.Formatter{LibraryName: libraryName}.Message(args[0], recommendations, availableUntil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&recommendations, "recommend", "r", nil, "replacement to recommend (repeatable)")
	cmd.Flags().StringVar(&availableUntil, "available-until", "", "release the symbol is removed in, as major.minor")
	cmd.Flags().StringVar(&libraryName, "library-name", deprecation.DefaultLibraryName, "library named in the message")

	return cmd
}
