package metrics

import (
	"fmt"
	"sort"

	"github.com/AngelCh415/novaretail/internal/models"
)

type Dimension string

const (
	DimChannel     Dimension = "channel"
	DimDevice      Dimension = "device"
	DimSector      Dimension = "sector"
	DimCompanySize Dimension = "company_size"
	DimRegion      Dimension = "region"
)

var Dimensions = []Dimension{DimChannel, DimDevice, DimSector, DimCompanySize, DimRegion}

func ParseDimension(s string) (Dimension, error) {
	for _, d := range Dimensions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// value returns the lead's value for d; ok is false when the CRM field is absent.
func (d Dimension) value(l models.EnrichedLead) (string, bool) {
	switch d {
	case DimChannel:
		return l.Channel, true
	case DimDevice:
		return string(l.Device), true
	}
	if l.CRM == nil {
		return "", false
	}
	switch d {
	case DimSector:
		return l.CRM.Sector, true
	case DimCompanySize:
		return l.CRM.CompanySize, true
	case DimRegion:
		return l.CRM.Region, true
	}
	return "", false
}

// CountBy counts leads per value of d, largest first. Ties keep first
// encounter order. topN <= 0 returns every bucket.
func CountBy(leads []models.EnrichedLead, d Dimension, topN int) []models.BreakdownItem {
	items := []models.BreakdownItem{}
	pos := map[string]int{}
	for _, l := range leads {
		v, ok := d.value(l)
		if !ok {
			continue
		}
		i, seen := pos[v]
		if !seen {
			i = len(items)
			pos[v] = i
			items = append(items, models.BreakdownItem{Name: v})
		}
		items[i].Count++
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Count > items[j].Count })
	if topN > 0 && len(items) > topN {
		items = items[:topN]
	}
	return items
}

func emptyStatusCounts() []models.StatusCount {
	out := make([]models.StatusCount, len(models.Statuses))
	for i, s := range models.Statuses {
		out[i] = models.StatusCount{Status: s}
	}
	return out
}

func addStatus(counts []models.StatusCount, s models.Status) {
	for i := range counts {
		if counts[i].Status == s {
			counts[i].Count++
			return
		}
	}
}

// StatusBreakdown counts enriched leads per funnel stage, always in
// MQL, SQL, Client order. Leads without CRM data are not counted.
func StatusBreakdown(leads []models.EnrichedLead) []models.StatusCount {
	counts := emptyStatusCounts()
	for _, l := range leads {
		if l.CRM != nil {
			addStatus(counts, l.CRM.Status)
		}
	}
	return counts
}

// StatusByChannel is StatusBreakdown per channel, channels in encounter order.
func StatusByChannel(leads []models.EnrichedLead) []models.ChannelStatus {
	out := []models.ChannelStatus{}
	pos := map[string]int{}
	for _, l := range leads {
		i, ok := pos[l.Channel]
		if !ok {
			i = len(out)
			pos[l.Channel] = i
			out = append(out, models.ChannelStatus{Channel: l.Channel, Statuses: emptyStatusCounts()})
		}
		if l.CRM != nil {
			addStatus(out[i].Statuses, l.CRM.Status)
		}
	}
	return out
}
