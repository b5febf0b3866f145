package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AngelCh415/novaretail/internal/metrics"
	"github.com/AngelCh415/novaretail/internal/models"
)

type kpiReport struct {
	Summary   models.Summary           `json:"summary"`
	Campaigns []models.CampaignMetrics `json:"campaigns"`
}

func newKPIsCmd(v *viper.Viper) *cobra.Command {
	var channels []string
	var format string
	cmd := &cobra.Command{
		Use:   "kpis",
		Short: "Print global and per-campaign KPIs",
		Example: `  novaretail kpis
  novaretail kpis --channel Emailing --channel "LinkedIn Ads"
  novaretail kpis --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := cliApp(v)
			sel, err := a.svc.Select(channelQuery(cmd, channels))
			if err != nil {
				return err
			}
			rep := kpiReport{Summary: metrics.Summarize(sel), Campaigns: sel.Campaigns}
			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			case "table", "":
				return writeKPITable(cmd.OutOrStdout(), rep)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringSliceVar(&channels, "channel", nil, "acquisition channel to include (repeatable)")
	cmd.Flags().StringVar(&format, "format", "table", "output format (table, json)")
	return cmd
}

func writeKPITable(w io.Writer, rep kpiReport) error {
	s := rep.Summary
	fmt.Fprintf(w, "Spend:            %s €\n", s.TotalSpend.StringFixed(0))
	fmt.Fprintf(w, "Leads:            %d\n", s.TotalLeads)
	fmt.Fprintf(w, "CPL:              %s\n", s.GlobalCPL)
	fmt.Fprintf(w, "Conversion rate:  %.2f %%\n", s.GlobalConversionRate)
	if s.Period != nil {
		fmt.Fprintf(w, "Period:           %s .. %s\n", s.Period.From, s.Period.To)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CAMPAIGN\tCHANNEL\tCOST\tIMPRESSIONS\tCLICKS\tCONVERSIONS\tCTR %\tCONV %\tCPL")
	for _, c := range rep.Campaigns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%.2f\t%.2f\t%s\n",
			c.CampaignID, c.Channel, c.Cost.StringFixed(2), c.Impressions, c.Clicks, c.Conversions,
			c.CTR, c.ConversionRate, c.CPL)
	}
	return tw.Flush()
}
