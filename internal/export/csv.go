package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"

	"github.com/AngelCh415/novaretail/internal/models"
)

// leadRow flattens an enriched lead. CRM columns are pointers so leads
// without enrichment export empty cells.
type leadRow struct {
	LeadID      int            `csv:"lead_id"`
	Date        models.Date    `csv:"date"`
	Channel     string         `csv:"channel"`
	Device      models.Device  `csv:"device"`
	CompanySize *string        `csv:"company_size"`
	Sector      *string        `csv:"sector"`
	Region      *string        `csv:"region"`
	Status      *models.Status `csv:"status"`
}

func toRow(l models.EnrichedLead) leadRow {
	r := leadRow{LeadID: l.LeadID, Date: l.Date, Channel: l.Channel, Device: l.Device}
	if l.CRM != nil {
		c := *l.CRM
		r.CompanySize = &c.CompanySize
		r.Sector = &c.Sector
		r.Region = &c.Region
		r.Status = &c.Status
	}
	return r
}

// WriteLeadsCSV writes one UTF-8 CSV record per lead, header first. The
// header is written even when leads is empty.
func WriteLeadsCSV(w io.Writer, leads []models.EnrichedLead) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(leadRow{}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, l := range leads {
		if err := enc.Encode(toRow(l)); err != nil {
			return fmt.Errorf("write lead %d: %w", l.LeadID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
