// cmd/list.go
package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/storefront-e2e/internal/suite"
)

func newListCmd() *cobra.Command {
	var filter suite.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lists the registered scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := suite.Default().Select(filter)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SCENARIO\tSITE\tTAGS")
			for _, s := range selected {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Site, strings.Join(s.Tags, ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.Site, "site", "", "only list scenarios for this site")
	cmd.Flags().StringSliceVarP(&filter.Tags, "tag", "t", nil, "only list scenarios carrying any of these tags")
	return cmd
}
