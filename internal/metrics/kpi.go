package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/AngelCh415/novaretail/internal/models"
)

// Rate returns num/den*100, or 0 when den is 0.
func Rate(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}

// CostPer divides cost by n. It is undefined when n is 0.
func CostPer(cost decimal.Decimal, n int) models.Metric {
	if n <= 0 {
		return models.Undefined
	}
	return models.Defined(cost.Div(decimal.NewFromInt(int64(n))).InexactFloat64())
}

// ComputeCampaign derives CTR, conversion rate and CPL for one campaign.
func ComputeCampaign(c models.Campaign) models.CampaignMetrics {
	return models.CampaignMetrics{
		Campaign:       c,
		CTR:            Rate(c.Clicks, c.Impressions),
		ConversionRate: Rate(c.Conversions, c.Clicks),
		CPL:            CostPer(c.Cost, c.Conversions),
	}
}

func ComputeCampaigns(cs []models.Campaign) []models.CampaignMetrics {
	out := make([]models.CampaignMetrics, 0, len(cs))
	for _, c := range cs {
		out = append(out, ComputeCampaign(c))
	}
	return out
}

// Summarize computes the global KPI tiles over an already filtered selection.
func Summarize(sel Selection) models.Summary {
	s := models.Summary{
		Channels:   sel.Channels,
		TotalSpend: decimal.Zero,
		LeadRows:   len(sel.Leads),
	}
	for _, c := range sel.Campaigns {
		s.TotalSpend = s.TotalSpend.Add(c.Cost)
		s.TotalLeads += c.Conversions
		s.TotalClicks += c.Clicks
		s.TotalImpressions += c.Impressions
	}
	s.GlobalCPL = CostPer(s.TotalSpend, s.TotalLeads)
	s.GlobalConversionRate = Rate(s.TotalLeads, s.TotalClicks)
	s.GlobalCTR = Rate(s.TotalClicks, s.TotalImpressions)
	s.Period = period(sel.Leads)
	return s
}

func period(leads []models.EnrichedLead) *models.Period {
	if len(leads) == 0 {
		return nil
	}
	p := models.Period{From: leads[0].Date, To: leads[0].Date}
	for _, l := range leads[1:] {
		if l.Date.Before(p.From.Time) {
			p.From = l.Date
		}
		if l.Date.After(p.To.Time) {
			p.To = l.Date
		}
	}
	return &p
}
