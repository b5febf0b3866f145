package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/shopspring/decimal"

	"github.com/AngelCh415/novaretail/internal/apperr"
	"github.com/AngelCh415/novaretail/internal/models"
)

// ParseLeads decodes the delimited lead table. Any bad row fails the whole table.
func ParseLeads(raw []byte) ([]models.Lead, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.TrimLeadingSpace = true

	dec, err := csvutil.NewDecoder(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: leads: missing header", apperr.ErrMalformedInput)
		}
		return nil, fmt.Errorf("%w: leads header: %v", apperr.ErrMalformedInput, err)
	}
	dec.DisallowMissingColumns = true
	if err := checkHeader(dec.Header()); err != nil {
		return nil, err
	}

	var out []models.Lead
	seen := map[int]struct{}{}
	for row := 1; ; row++ {
		var l models.Lead
		if err := dec.Decode(&l); err == io.EOF {
			break
		} else if err != nil {
			return nil, apperr.Malformed("leads", row, "%v", err)
		}
		l.Channel = strings.TrimSpace(l.Channel)
		if l.Channel == "" {
			return nil, apperr.Malformed("leads", row, "empty channel")
		}
		if _, dup := seen[l.LeadID]; dup {
			return nil, apperr.Malformed("leads", row, "duplicate lead_id %d", l.LeadID)
		}
		seen[l.LeadID] = struct{}{}
		out = append(out, l)
	}
	return out, nil
}

// checkHeader fails when a lead column is absent, even with no data rows.
func checkHeader(got []string) error {
	want, err := csvutil.Header(models.Lead{}, "csv")
	if err != nil {
		return fmt.Errorf("leads header: %w", err)
	}
	have := make(map[string]struct{}, len(got))
	for _, h := range got {
		have[strings.TrimSpace(h)] = struct{}{}
	}
	for _, col := range want {
		if _, ok := have[col]; !ok {
			return fmt.Errorf("%w: leads header: missing column %s", apperr.ErrMalformedInput, col)
		}
	}
	return nil
}

// decodeAll decodes exactly one JSON value from raw.
func decodeAll(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return errors.New("unexpected data after top-level value")
	}
	return nil
}

type campaignRow struct {
	CampaignID  string           `json:"campaign_id" validate:"required"`
	Channel     string           `json:"channel" validate:"required"`
	Cost        *decimal.Decimal `json:"cost" validate:"required"`
	Impressions *int             `json:"impressions" validate:"required,gtefield=Clicks"`
	Clicks      *int             `json:"clicks" validate:"required,gtefield=Conversions"`
	Conversions *int             `json:"conversions" validate:"required,gte=0"`
}

// ParseCampaigns decodes the campaign list and enforces
// impressions >= clicks >= conversions >= 0 and cost >= 0.
func ParseCampaigns(raw []byte) ([]models.Campaign, error) {
	var rows []campaignRow
	if err := decodeAll(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: campaigns: %v", apperr.ErrMalformedInput, err)
	}

	out := make([]models.Campaign, 0, len(rows))
	seen := map[string]struct{}{}
	for i, r := range rows {
		row := i + 1
		r.CampaignID = strings.TrimSpace(r.CampaignID)
		r.Channel = strings.TrimSpace(r.Channel)
		if err := validate.Struct(r); err != nil {
			return nil, apperr.Malformed("campaigns", row, "%s", describe(err))
		}
		id, ch := r.CampaignID, r.Channel
		if _, dup := seen[id]; dup {
			return nil, apperr.Malformed("campaigns", row, "duplicate campaign_id %s", id)
		}
		seen[id] = struct{}{}
		out = append(out, models.Campaign{
			CampaignID:  id,
			Channel:     ch,
			Cost:        *r.Cost,
			Impressions: *r.Impressions,
			Clicks:      *r.Clicks,
			Conversions: *r.Conversions,
		})
	}
	return out, nil
}

type crmColumns struct {
	LeadID      []int    `json:"lead_id" validate:"required"`
	CompanySize []string `json:"company_size" validate:"required"`
	Sector      []string `json:"sector" validate:"required"`
	Region      []string `json:"region" validate:"required"`
	Status      []string `json:"status" validate:"required"`
}

// ParseCRM decodes the column-keyed CRM table. Every column is required and
// all columns must have the same length.
func ParseCRM(raw []byte) ([]models.CrmRecord, error) {
	var cols crmColumns
	if err := decodeAll(raw, &cols); err != nil {
		return nil, fmt.Errorf("%w: crm: %v", apperr.ErrMalformedInput, err)
	}
	if err := validate.Struct(cols); err != nil {
		return nil, fmt.Errorf("%w: crm: %s", apperr.ErrMalformedInput, describe(err))
	}

	n := len(cols.LeadID)
	out := make([]models.CrmRecord, 0, n)
	for i := 0; i < n; i++ {
		st, err := models.ParseStatus(cols.Status[i])
		if err != nil {
			return nil, apperr.Malformed("crm", i+1, "%v", err)
		}
		out = append(out, models.CrmRecord{
			LeadID:      cols.LeadID[i],
			CompanySize: strings.TrimSpace(cols.CompanySize[i]),
			Sector:      strings.TrimSpace(cols.Sector[i]),
			Region:      strings.TrimSpace(cols.Region[i]),
			Status:      st,
		})
	}
	return out, nil
}
