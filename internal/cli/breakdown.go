package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AngelCh415/novaretail/internal/metrics"
)

func newBreakdownCmd(v *viper.Viper) *cobra.Command {
	var channels []string
	var top int
	cmd := &cobra.Command{
		Use:   "breakdown <status|channel|device|sector|company_size|region>",
		Short: "Count leads by a categorical field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := cliApp(v)
			q := channelQuery(cmd, channels)
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

			if args[0] == "status" {
				rep, err := a.svc.Status(q)
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "CHANNEL\tMQL\tSQL\tCLIENT")
				for _, cs := range rep.ByChannel {
					fmt.Fprintf(tw, "%s", cs.Channel)
					for _, sc := range cs.Statuses {
						fmt.Fprintf(tw, "\t%d", sc.Count)
					}
					fmt.Fprintln(tw)
				}
				fmt.Fprintf(tw, "TOTAL")
				for _, sc := range rep.Totals {
					fmt.Fprintf(tw, "\t%d", sc.Count)
				}
				fmt.Fprintln(tw)
				return tw.Flush()
			}

			if cmd.Flags().Changed("top") {
				q.Set("top", strconv.Itoa(top))
			}
			items, err := a.svc.Breakdown(args[0], q)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\tCOUNT\n", metrics.Dimension(args[0]))
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%d\n", it.Name, it.Count)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringSliceVar(&channels, "channel", nil, "acquisition channel to include (repeatable)")
	cmd.Flags().IntVar(&top, "top", 0, "keep only the N largest buckets")
	return cmd
}
