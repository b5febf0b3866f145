package ingest

import _ "embed"

var (
	//go:embed data/leads.csv
	leadsCSV []byte

	//go:embed data/campaigns.json
	campaignsJSON []byte

	//go:embed data/crm.json
	crmJSON []byte
)

// Source holds the three raw inputs of the pipeline: a delimited lead
// table, a campaign record list and a CRM table keyed by column.
type Source struct {
	Leads     []byte
	Campaigns []byte
	CRM       []byte
}

// Embedded returns the NovaRetail October 2025 sample shipped with the binary.
func Embedded() Source {
	return Source{Leads: leadsCSV, Campaigns: campaignsJSON, CRM: crmJSON}
}
