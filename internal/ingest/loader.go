package ingest

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AngelCh415/novaretail/internal/metrics"
	"github.com/AngelCh415/novaretail/internal/models"
	"github.com/AngelCh415/novaretail/internal/store"
	"github.com/AngelCh415/novaretail/internal/utils"
)

// Build runs parse, join and campaign metrics over src. It is pure.
func Build(src Source) (models.Dataset, error) {
	leads, err := ParseLeads(src.Leads)
	if err != nil {
		return models.Dataset{}, err
	}
	campaigns, err := ParseCampaigns(src.Campaigns)
	if err != nil {
		return models.Dataset{}, err
	}
	crm, err := ParseCRM(src.CRM)
	if err != nil {
		return models.Dataset{}, err
	}
	enriched, err := JoinCRM(leads, crm)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("join leads with crm: %w", err)
	}
	return models.Dataset{
		Campaigns: metrics.ComputeCampaigns(campaigns),
		Leads:     enriched,
	}, nil
}

// Loader loads the dataset once per process. The outcome, success or
// failure, is kept for the loader's lifetime; the source is static so a
// second attempt cannot differ.
type Loader struct {
	src Source
	st  *store.MemoryStore
	log *slog.Logger
	tel *utils.Telemetry

	once sync.Once
	ds   models.Dataset
	err  error
}

func NewLoader(src Source, st *store.MemoryStore, log *slog.Logger, tel *utils.Telemetry) *Loader {
	return &Loader{src: src, st: st, log: log, tel: tel}
}

func (l *Loader) Load() (models.Dataset, error) {
	l.once.Do(func() {
		start := time.Now()
		l.ds, l.err = Build(l.src)
		if l.err != nil {
			l.log.Error("dataset load failed", slog.String("err", l.err.Error()))
			return
		}
		l.st.Replace(l.ds)
		l.tel.SetRows("campaigns", len(l.ds.Campaigns))
		l.tel.SetRows("leads", len(l.ds.Leads))
		l.log.Info("dataset loaded",
			slog.Int("campaigns", len(l.ds.Campaigns)),
			slog.Int("leads", len(l.ds.Leads)),
			slog.Int("unenriched", countUnenriched(l.ds.Leads)),
			slog.Duration("took", time.Since(start)))
	})
	if l.err != nil {
		return models.Dataset{}, l.err
	}
	ds, _ := l.st.Snapshot()
	return ds, nil
}

func countUnenriched(leads []models.EnrichedLead) int {
	n := 0
	for _, l := range leads {
		if l.CRM == nil {
			n++
		}
	}
	return n
}
