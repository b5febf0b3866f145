package metrics_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/novaretail/internal/ingest"
	"github.com/AngelCh415/novaretail/internal/metrics"
	"github.com/AngelCh415/novaretail/internal/models"
)

func sample(t *testing.T) models.Dataset {
	t.Helper()
	ds, err := ingest.Build(ingest.Embedded())
	require.NoError(t, err)
	return ds
}

func campaign(cost int64, impressions, clicks, conversions int) models.Campaign {
	return models.Campaign{
		CampaignID:  "T",
		Channel:     "Test",
		Cost:        decimal.NewFromInt(cost),
		Impressions: impressions,
		Clicks:      clicks,
		Conversions: conversions,
	}
}

func TestComputeCampaignSample(t *testing.T) {
	ds := sample(t)
	want := map[string]struct{ ctr, conv, cpl float64 }{
		"NR01": {3.0, 8.333333333, 10.0},
		"NR02": {2.666666667, 8.125, 16.153846154},
		"NR03": {2.2, 8.636363636, 40.0},
	}
	for _, c := range ds.Campaigns {
		w := want[c.CampaignID]
		assert.InDelta(t, w.ctr, c.CTR, 1e-6, c.CampaignID)
		assert.InDelta(t, w.conv, c.ConversionRate, 1e-6, c.CampaignID)
		require.True(t, c.CPL.Defined, c.CampaignID)
		assert.InDelta(t, w.cpl, c.CPL.Value, 1e-6, c.CampaignID)
	}
}

func TestComputeCampaignZeroDenominators(t *testing.T) {
	m := metrics.ComputeCampaign(campaign(100, 0, 0, 0))
	assert.Equal(t, 0.0, m.CTR)
	assert.Equal(t, 0.0, m.ConversionRate)
	assert.False(t, m.CPL.Defined)
	assert.Equal(t, models.Undefined, m.CPL)
	assert.Equal(t, "N/A", m.CPL.String())

	m = metrics.ComputeCampaign(campaign(100, 1000, 0, 0))
	assert.Equal(t, 0.0, m.ConversionRate)
	assert.Equal(t, 0.0, m.CTR)
	assert.False(t, m.CPL.Defined)
}

func TestCPLWithZeroConversionsIsNeverZeroOrInf(t *testing.T) {
	for _, cost := range []int64{0, 1, 5000} {
		m := metrics.ComputeCampaign(campaign(cost, 100, 10, 0))
		assert.False(t, m.CPL.Defined)
		assert.False(t, math.IsInf(m.CPL.Value, 0))
		b, err := json.Marshal(m.CPL)
		require.NoError(t, err)
		assert.JSONEq(t, "null", string(b))
	}
}

func TestCTRBounds(t *testing.T) {
	for _, tc := range []struct{ impressions, clicks int }{
		{1, 0}, {1, 1}, {60000, 1800}, {3, 2}, {1000000, 999999},
	} {
		m := metrics.ComputeCampaign(campaign(1, tc.impressions, tc.clicks, 0))
		assert.GreaterOrEqual(t, m.CTR, 0.0)
		assert.LessOrEqual(t, m.CTR, 100.0)
		assert.Equal(t, tc.clicks == 0, m.CTR == 0)
	}
}

func TestComputeCampaignsIsIdempotent(t *testing.T) {
	cs := []models.Campaign{campaign(4200, 120000, 3200, 260), campaign(7, 3, 3, 3)}
	a := metrics.ComputeCampaigns(cs)
	b := metrics.ComputeCampaigns(cs)
	require.Len(t, a, 2)
	for i := range a {
		assert.Equal(t, math.Float64bits(a[i].CTR), math.Float64bits(b[i].CTR))
		assert.Equal(t, math.Float64bits(a[i].ConversionRate), math.Float64bits(b[i].ConversionRate))
		assert.Equal(t, math.Float64bits(a[i].CPL.Value), math.Float64bits(b[i].CPL.Value))
	}
}

func TestSummarizeAllChannels(t *testing.T) {
	ds := sample(t)
	sel, err := metrics.Filter(ds, metrics.Channels(ds))
	require.NoError(t, err)

	s := metrics.Summarize(sel)
	assert.Equal(t, "9500", s.TotalSpend.String())
	assert.Equal(t, 505, s.TotalLeads)
	assert.Equal(t, 6100, s.TotalClicks)
	assert.Equal(t, 230000, s.TotalImpressions)
	require.True(t, s.GlobalCPL.Defined)
	assert.InDelta(t, 9500.0/505.0, s.GlobalCPL.Value, 1e-9)
	assert.InDelta(t, 505.0/6100.0*100, s.GlobalConversionRate, 1e-9)
	assert.InDelta(t, 6100.0/230000.0*100, s.GlobalCTR, 1e-9)
	assert.Equal(t, 10, s.LeadRows)
	require.NotNil(t, s.Period)
	assert.Equal(t, "2025-10-02", s.Period.From.String())
	assert.Equal(t, "2025-10-11", s.Period.To.String())
}

func TestSummarizeGlobalCPLUsesSameSentinel(t *testing.T) {
	sel := metrics.Selection{
		Channels:  []string{"Test"},
		Campaigns: metrics.ComputeCampaigns([]models.Campaign{campaign(250, 100, 0, 0)}),
	}
	s := metrics.Summarize(sel)
	assert.False(t, s.GlobalCPL.Defined)
	assert.Equal(t, 0.0, s.GlobalConversionRate)
	assert.Equal(t, "250", s.TotalSpend.String())
	assert.Nil(t, s.Period)
}
