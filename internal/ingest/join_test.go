package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/novaretail/internal/apperr"
	"github.com/AngelCh415/novaretail/internal/models"
)

func sampleLeads() []models.Lead {
	d := models.NewDate(2025, time.October, 2)
	return []models.Lead{
		{LeadID: 3, Date: d, Channel: "Emailing", Device: models.DeviceDesktop},
		{LeadID: 1, Date: d, Channel: "Google Ads", Device: models.DeviceMobile},
		{LeadID: 2, Date: d, Channel: "Emailing", Device: models.DeviceTablet},
	}
}

func TestJoinCRMAttachesMatchesAndKeepsOrder(t *testing.T) {
	crm := []models.CrmRecord{
		{LeadID: 2, Sector: "SaaS", Status: models.StatusSQL},
		{LeadID: 3, Sector: "Retail", Status: models.StatusMQL},
	}
	out, err := JoinCRM(sampleLeads(), crm)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, []int{3, 1, 2}, []int{out[0].LeadID, out[1].LeadID, out[2].LeadID})
	require.NotNil(t, out[0].CRM)
	assert.Equal(t, "Retail", out[0].CRM.Sector)
	assert.Nil(t, out[1].CRM, "lead without crm row stays unenriched")
	require.NotNil(t, out[2].CRM)
	assert.Equal(t, models.StatusSQL, out[2].CRM.Status)
}

func TestJoinCRMIsLeftTotal(t *testing.T) {
	leads := sampleLeads()
	for name, crm := range map[string][]models.CrmRecord{
		"nil":       nil,
		"empty":     {},
		"unrelated": {{LeadID: 99, Status: models.StatusClient}},
	} {
		t.Run(name, func(t *testing.T) {
			out, err := JoinCRM(leads, crm)
			require.NoError(t, err)
			assert.Len(t, out, len(leads))
			for _, l := range out {
				assert.Nil(t, l.CRM)
			}
		})
	}
}

func TestJoinCRMKeepsEmptyCRMValuesDistinctFromAbsent(t *testing.T) {
	out, err := JoinCRM(sampleLeads(), []models.CrmRecord{{LeadID: 1, Status: models.StatusMQL}})
	require.NoError(t, err)
	require.NotNil(t, out[1].CRM)
	assert.Equal(t, "", out[1].CRM.Sector)
	assert.Nil(t, out[0].CRM)
}

func TestJoinCRMRejectsDuplicateKeys(t *testing.T) {
	crm := []models.CrmRecord{
		{LeadID: 1, Status: models.StatusMQL},
		{LeadID: 1, Status: models.StatusSQL},
	}
	out, err := JoinCRM(sampleLeads(), crm)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)

	var dup *apperr.DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, 1, dup.LeadID)
	assert.Equal(t, 2, dup.Count)
}

func TestJoinCRMRejectsDuplicatesWithoutMatchingLead(t *testing.T) {
	crm := []models.CrmRecord{{LeadID: 42}, {LeadID: 42}}
	_, err := JoinCRM(sampleLeads(), crm)
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)
}

func TestJoinCRMDoesNotAliasInput(t *testing.T) {
	crm := []models.CrmRecord{{LeadID: 1, Sector: "SaaS"}}
	out, err := JoinCRM(sampleLeads(), crm)
	require.NoError(t, err)
	crm[0].Sector = "changed"
	assert.Equal(t, "SaaS", out[1].CRM.Sector)
}
