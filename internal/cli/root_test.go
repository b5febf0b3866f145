package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/novaretail/internal/apperr"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKPIsJSON(t *testing.T) {
	out, err := run(t, "kpis", "--format", "json")
	require.NoError(t, err)

	var rep struct {
		Summary struct {
			TotalSpend string  `json:"total_spend"`
			TotalLeads int     `json:"total_leads"`
			GlobalCPL  float64 `json:"global_cpl"`
		} `json:"summary"`
		Campaigns []struct {
			CampaignID string `json:"campaign_id"`
		} `json:"campaigns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "9500", rep.Summary.TotalSpend)
	assert.Equal(t, 505, rep.Summary.TotalLeads)
	assert.InDelta(t, 18.81, rep.Summary.GlobalCPL, 0.01)
	assert.Len(t, rep.Campaigns, 3)
}

func TestKPIsTableForOneChannel(t *testing.T) {
	out, err := run(t, "kpis", "--channel", "Emailing")
	require.NoError(t, err)
	assert.Contains(t, out, "Spend:            1500 €")
	assert.Contains(t, out, "CPL:              10.00")
	assert.Contains(t, out, "NR01")
	assert.NotContains(t, out, "NR02")
}

func TestKPIsEmptyChannelIsRejected(t *testing.T) {
	_, err := run(t, "kpis", "--channel", "")
	assert.ErrorIs(t, err, apperr.ErrEmptySelection)
}

func TestKPIsUnknownFormat(t *testing.T) {
	_, err := run(t, "kpis", "--format", "xml")
	assert.EqualError(t, err, `unknown format "xml"`)
}

func TestBreakdownRegion(t *testing.T) {
	out, err := run(t, "breakdown", "region", "--top", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Île-de-France"))
	assert.True(t, strings.HasSuffix(lines[1], "3"))
}

func TestBreakdownStatus(t *testing.T) {
	out, err := run(t, "breakdown", "status", "--channel", "Emailing")
	require.NoError(t, err)
	assert.Contains(t, out, "CHANNEL")
	assert.Contains(t, out, "Emailing")
	assert.Contains(t, out, "TOTAL")
}

func TestBreakdownUnknownDimension(t *testing.T) {
	_, err := run(t, "breakdown", "weather")
	assert.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	_, err := run(t, "export", "--channel", "LinkedIn Ads", "-o", path)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "lead_id,date,channel,device,company_size,sector,region,status", lines[0])
	assert.Equal(t, "203,2025-10-04,LinkedIn Ads,Desktop,50-100,Finance,PACA,Client", lines[1])
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leads.csv")
	require.NoError(t, writeFile(path, nil))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lead_id,date,channel,device,company_size,sector,region,status\n", string(b))

	err = writeFile(filepath.Join(dir, "missing", "leads.csv"), nil)
	assert.ErrorContains(t, err, "create ")
}

func TestChannelQuery(t *testing.T) {
	cmd := newKPIsCmd(nil)
	assert.Empty(t, channelQuery(cmd, nil))

	require.NoError(t, cmd.Flags().Set("channel", ""))
	q := channelQuery(cmd, nil)
	assert.True(t, q.Has("channel"))
	assert.Equal(t, []string{""}, q["channel"])
}
