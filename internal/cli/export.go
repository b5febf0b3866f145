package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AngelCh415/novaretail/internal/export"
	"github.com/AngelCh415/novaretail/internal/models"
)

func newExportCmd(v *viper.Viper) *cobra.Command {
	var channels []string
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered enriched leads as CSV",
		Example: `  novaretail export --channel Emailing
  novaretail export --out novaretail_data_oct2025.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := cliApp(v)
			sel, err := a.svc.Select(channelQuery(cmd, channels))
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				if err := export.WriteLeadsCSV(cmd.OutOrStdout(), sel.Leads); err != nil {
					return err
				}
			} else if err := writeFile(out, sel.Leads); err != nil {
				return err
			}
			a.log.Info("export written", slog.String("out", out), slog.Int("leads", len(sel.Leads)))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&channels, "channel", nil, "acquisition channel to include (repeatable)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

// writeFile exports to path and reports a failed close.
func writeFile(path string, leads []models.EnrichedLead) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteLeadsCSV(f, leads); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
