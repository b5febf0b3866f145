package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/AngelCh415/novaretail/internal/apperr"
	"github.com/AngelCh415/novaretail/internal/models"
	"github.com/AngelCh415/novaretail/internal/store"
	"github.com/AngelCh415/novaretail/internal/utils"
)

// Provider hands out the loaded dataset.
type Provider interface {
	Load() (models.Dataset, error)
}

type Service struct {
	p          Provider
	st         *store.MemoryStore
	tel        *utils.Telemetry
	topRegions int
}

func NewService(p Provider, st *store.MemoryStore, tel *utils.Telemetry, topRegions int) *Service {
	return &Service{p: p, st: st, tel: tel, topRegions: topRegions}
}

type LeadPage struct {
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
	Leads  []models.EnrichedLead `json:"leads"`
}

type StatusReport struct {
	Totals    []models.StatusCount   `json:"totals"`
	ByChannel []models.ChannelStatus `json:"by_channel"`
}

var ErrLeadNotFound = apperr.New(http.StatusNotFound, "lead not found", nil)

func csvSet(vals []string) []string {
	var parts []string
	for _, v := range vals {
		parts = append(parts, strings.Split(v, ",")...)
	}
	return ChannelSet(parts)
}

func (s *Service) Channels() ([]string, error) {
	ds, err := s.p.Load()
	if err != nil {
		return nil, err
	}
	return Channels(ds), nil
}

// Select filters the dataset by the "channel" query values. Without a
// channel parameter every channel is selected; a parameter that names no
// channel is an empty selection.
func (s *Service) Select(v url.Values) (Selection, error) {
	ds, err := s.p.Load()
	if err != nil {
		return Selection{}, err
	}
	channels := Channels(ds)
	if v.Has("channel") {
		channels = csvSet(v["channel"])
	}
	sel, err := Filter(ds, channels)
	s.tel.ObserveSelection(errors.Is(err, apperr.ErrEmptySelection))
	return sel, err
}

func (s *Service) Campaigns(v url.Values) ([]models.CampaignMetrics, error) {
	sel, err := s.Select(v)
	if err != nil {
		return nil, err
	}
	return sel.Campaigns, nil
}

func (s *Service) Summary(v url.Values) (models.Summary, error) {
	sel, err := s.Select(v)
	if err != nil {
		return models.Summary{}, err
	}
	return Summarize(sel), nil
}

func (s *Service) Leads(v url.Values) (LeadPage, error) {
	sel, err := s.Select(v)
	if err != nil {
		return LeadPage{}, err
	}
	limit := atoiDef(v.Get("limit"), 100)
	offset := atoiDef(v.Get("offset"), 0)
	limit, offset = clampLimitOffset(limit, offset, len(sel.Leads))
	return LeadPage{
		Total:  len(sel.Leads),
		Limit:  limit,
		Offset: offset,
		Leads:  paginate(sel.Leads, limit, offset),
	}, nil
}

func (s *Service) Lead(id int) (models.EnrichedLead, error) {
	if _, err := s.p.Load(); err != nil {
		return models.EnrichedLead{}, err
	}
	found := s.st.Query(func(l models.EnrichedLead) bool { return l.LeadID == id })
	if len(found) == 0 {
		return models.EnrichedLead{}, ErrLeadNotFound
	}
	return found[0], nil
}

func (s *Service) Status(v url.Values) (StatusReport, error) {
	sel, err := s.Select(v)
	if err != nil {
		return StatusReport{}, err
	}
	return StatusReport{
		Totals:    StatusBreakdown(sel.Leads),
		ByChannel: StatusByChannel(sel.Leads),
	}, nil
}

// Breakdown counts filtered leads by dimension. "top" limits the buckets;
// regions default to the configured top-N.
func (s *Service) Breakdown(dimension string, v url.Values) ([]models.BreakdownItem, error) {
	d, err := ParseDimension(dimension)
	if err != nil {
		return nil, apperr.New(http.StatusBadRequest, err.Error(), err)
	}
	def := 0
	if d == DimRegion {
		def = s.topRegions
	}
	top := def
	if raw := v.Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, apperr.New(http.StatusBadRequest, fmt.Sprintf("invalid top %q", raw), err)
		}
		top = n
	}
	sel, err := s.Select(v)
	if err != nil {
		return nil, err
	}
	return CountBy(sel.Leads, d, top), nil
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset > n {
		offset = n
	}
	return limit, offset
}
