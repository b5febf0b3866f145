package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AngelCh415/novaretail/internal/apperr"
	"github.com/AngelCh415/novaretail/internal/export"
	"github.com/AngelCh415/novaretail/internal/metrics"
	"github.com/AngelCh415/novaretail/internal/store"
	"github.com/AngelCh415/novaretail/internal/utils"
)

type Options struct {
	ExportFilename string
}

func NewRouter(log *slog.Logger, st *store.MemoryStore, mSvc *metrics.Service, tel *utils.Telemetry, opts Options) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(tel.Instrument)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !st.Loaded() {
			http.Error(w, "dataset not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})
	mux.Handle("/metrics", tel.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Get("/channels", func(w http.ResponseWriter, r *http.Request) {
			chs, err := mSvc.Channels()
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, map[string]any{"channels": chs})
		})

		r.Get("/campaigns", func(w http.ResponseWriter, r *http.Request) {
			rows, err := mSvc.Campaigns(r.URL.Query())
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, rows)
		})

		r.Get("/summary", func(w http.ResponseWriter, r *http.Request) {
			sum, err := mSvc.Summary(r.URL.Query())
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, sum)
		})

		r.Get("/leads", func(w http.ResponseWriter, r *http.Request) {
			page, err := mSvc.Leads(r.URL.Query())
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, page)
		})

		r.Get("/leads/{leadID}", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.Atoi(chi.URLParam(r, "leadID"))
			if err != nil {
				writeError(w, log, apperr.New(http.StatusBadRequest, "bad lead id", err))
				return
			}
			lead, err := mSvc.Lead(id)
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, lead)
		})

		r.Get("/breakdown/status", func(w http.ResponseWriter, r *http.Request) {
			rep, err := mSvc.Status(r.URL.Query())
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, rep)
		})

		r.Get("/breakdown/{dimension}", func(w http.ResponseWriter, r *http.Request) {
			items, err := mSvc.Breakdown(chi.URLParam(r, "dimension"), r.URL.Query())
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, items)
		})

		r.Get("/export.csv", func(w http.ResponseWriter, r *http.Request) {
			sel, err := mSvc.Select(r.URL.Query())
			if err != nil {
				writeError(w, log, err)
				return
			}
			var buf bytes.Buffer
			if err := export.WriteLeadsCSV(&buf, sel.Leads); err != nil {
				writeError(w, log, err)
				return
			}
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", opts.ExportFilename))
			w.WriteHeader(http.StatusOK)
			w.Write(buf.Bytes())
		})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	e := apperr.From(err)
	if e.Code >= 500 {
		log.Error("request failed", slog.String("err", err.Error()))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Code)
	w.Write([]byte(e.JSON()))
}
