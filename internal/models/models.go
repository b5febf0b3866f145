package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/novaretail/internal/apperr"
)

const DateLayout = "2006-01-02"

// Date is a calendar day without time of day.
type Date struct{ time.Time }

func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	p, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// MarshalJSON shadows the promoted time.Time encoder so dates stay YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

type Device string

const (
	DeviceDesktop Device = "Desktop"
	DeviceMobile  Device = "Mobile"
	DeviceTablet  Device = "Tablet"
)

func (d *Device) UnmarshalText(b []byte) error {
	switch v := Device(strings.TrimSpace(string(b))); v {
	case DeviceDesktop, DeviceMobile, DeviceTablet:
		*d = v
		return nil
	default:
		return fmt.Errorf("unknown device %q", string(b))
	}
}

// Status is a funnel stage. The numeric value is the funnel ordinal.
type Status int

const (
	StatusMQL Status = iota + 1
	StatusSQL
	StatusClient
)

// Statuses lists every funnel stage in funnel order.
var Statuses = []Status{StatusMQL, StatusSQL, StatusClient}

func (s Status) String() string {
	switch s {
	case StatusMQL:
		return "MQL"
	case StatusSQL:
		return "SQL"
	case StatusClient:
		return "Client"
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

func ParseStatus(v string) (Status, error) {
	for _, s := range Statuses {
		if s.String() == strings.TrimSpace(v) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", v)
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	p, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = p
	return nil
}

type Lead struct {
	LeadID  int    `csv:"lead_id" json:"lead_id"`
	Date    Date   `csv:"date" json:"date"`
	Channel string `csv:"channel" json:"channel"`
	Device  Device `csv:"device" json:"device"`
}

type Campaign struct {
	CampaignID  string          `json:"campaign_id"`
	Channel     string          `json:"channel"`
	Cost        decimal.Decimal `json:"cost"`
	Impressions int             `json:"impressions"`
	Clicks      int             `json:"clicks"`
	Conversions int             `json:"conversions"`
}

type CrmRecord struct {
	LeadID      int    `json:"lead_id"`
	CompanySize string `json:"company_size"`
	Sector      string `json:"sector"`
	Region      string `json:"region"`
	Status      Status `json:"status"`
}

// EnrichedLead is a lead with its CRM record, if any. CRM is nil when the
// CRM table has no row for the lead.
type EnrichedLead struct {
	Lead
	CRM *CrmRecord `json:"crm"`
}

// Metric is a ratio that may be undefined (zero denominator).
type Metric struct {
	Value   float64
	Defined bool
}

func Defined(v float64) Metric { return Metric{Value: v, Defined: true} }

var Undefined = Metric{}

func (m Metric) String() string {
	if !m.Defined {
		return "N/A"
	}
	return strconv.FormatFloat(m.Value, 'f', 2, 64)
}

// Float64 returns the value, or ErrUndefinedMetric.
func (m Metric) Float64() (float64, error) {
	if !m.Defined {
		return 0, apperr.ErrUndefinedMetric
	}
	return m.Value, nil
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

type CampaignMetrics struct {
	Campaign
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
	CPL            Metric  `json:"cpl"`
}

// Dataset is the loaded pipeline result. It is never mutated after load.
type Dataset struct {
	Campaigns []CampaignMetrics `json:"campaigns"`
	Leads     []EnrichedLead    `json:"leads"`
}

type Period struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// Summary holds the global KPI tiles over a filtered selection.
type Summary struct {
	Channels             []string        `json:"channels"`
	TotalSpend           decimal.Decimal `json:"total_spend"`
	TotalLeads           int             `json:"total_leads"`
	TotalClicks          int             `json:"total_clicks"`
	TotalImpressions     int             `json:"total_impressions"`
	GlobalCPL            Metric          `json:"global_cpl"`
	GlobalConversionRate float64         `json:"global_conversion_rate"`
	GlobalCTR            float64         `json:"global_ctr"`
	LeadRows             int             `json:"lead_rows"`
	Period               *Period         `json:"period,omitempty"`
}

type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

type ChannelStatus struct {
	Channel  string        `json:"channel"`
	Statuses []StatusCount `json:"statuses"`
}

type BreakdownItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
