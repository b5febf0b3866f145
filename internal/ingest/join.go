package ingest

import (
	"github.com/AngelCh415/novaretail/internal/apperr"
	"github.com/AngelCh415/novaretail/internal/models"
)

// JoinCRM left-joins leads with CRM records on lead_id. Every lead appears
// exactly once and in input order; leads without a CRM row get a nil CRM.
// A lead_id present more than once in crm is a *apperr.DuplicateKeyError.
func JoinCRM(leads []models.Lead, crm []models.CrmRecord) ([]models.EnrichedLead, error) {
	idx := make(map[int]int, len(crm))
	counts := make(map[int]int, len(crm))
	for i, c := range crm {
		counts[c.LeadID]++
		idx[c.LeadID] = i
	}
	for _, c := range crm {
		if n := counts[c.LeadID]; n > 1 {
			return nil, &apperr.DuplicateKeyError{LeadID: c.LeadID, Count: n}
		}
	}

	out := make([]models.EnrichedLead, 0, len(leads))
	for _, l := range leads {
		el := models.EnrichedLead{Lead: l}
		if i, ok := idx[l.LeadID]; ok {
			rec := crm[i]
			el.CRM = &rec
		}
		out = append(out, el)
	}
	return out, nil
}
