package metrics

import (
	"strings"

	"github.com/AngelCh415/novaretail/internal/apperr"
	"github.com/AngelCh415/novaretail/internal/models"
)

// Selection is a dataset restricted to one channel set. Campaigns and leads
// are always filtered by the same set.
type Selection struct {
	Channels  []string
	Campaigns []models.CampaignMetrics
	Leads     []models.EnrichedLead
}

// ChannelSet normalizes a list of channel names, dropping blanks and
// duplicates while keeping the first-seen order.
func ChannelSet(channels []string) []string {
	out := make([]string, 0, len(channels))
	seen := map[string]struct{}{}
	for _, c := range channels {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Filter keeps the campaigns and leads whose channel is selected. An empty
// selection is rejected before anything is computed.
func Filter(ds models.Dataset, channels []string) (Selection, error) {
	set := ChannelSet(channels)
	if len(set) == 0 {
		return Selection{}, apperr.ErrEmptySelection
	}
	in := make(map[string]struct{}, len(set))
	for _, c := range set {
		in[c] = struct{}{}
	}

	sel := Selection{
		Channels:  set,
		Campaigns: make([]models.CampaignMetrics, 0, len(ds.Campaigns)),
		Leads:     make([]models.EnrichedLead, 0, len(ds.Leads)),
	}
	for _, c := range ds.Campaigns {
		if _, ok := in[c.Channel]; ok {
			sel.Campaigns = append(sel.Campaigns, c)
		}
	}
	for _, l := range ds.Leads {
		if _, ok := in[l.Channel]; ok {
			sel.Leads = append(sel.Leads, l)
		}
	}
	return sel, nil
}

// Channels lists the selectable channels: distinct campaign channels in
// encounter order.
func Channels(ds models.Dataset) []string {
	names := make([]string, 0, len(ds.Campaigns))
	for _, c := range ds.Campaigns {
		names = append(names, c.Channel)
	}
	return ChannelSet(names)
}
