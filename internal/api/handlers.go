package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
)

// defaultTopLimit is the leaderboard size when no limit is given.
const defaultTopLimit = 10

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) storeStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.svc.Stores.GetSupplierStore().GetStatus(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// queryLimit parses ?limit, bounded by the configured maximum.
func queryLimit(r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > contract.MaxResultLimit {
		return 0, false
	}
	return n, true
}

func (s *Server) listSuppliers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, ok := queryLimit(r, s.cfg.ResultLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(contract.MaxResultLimit))
		return
	}
	filter := schema.SupplierFilter{
		Industry:  q.Get("industry"),
		Country:   q.Get("country"),
		RiskLevel: schema.RiskLevel(strings.ToLower(q.Get("risk_level"))),
		Limit:     limit,
	}
	if filter.RiskLevel != "" {
		if _, ok := schema.ValidRiskLevels[filter.RiskLevel]; !ok {
			writeError(w, http.StatusBadRequest, "unknown risk_level "+strconv.Quote(string(filter.RiskLevel)))
			return
		}
	}
	records, err := s.svc.ListSuppliers(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if records == nil {
		records = []schema.SupplierRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) getSupplier(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Supplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// createSupplier stores a new supplier and returns its evaluation.
func (s *Server) createSupplier(w http.ResponseWriter, r *http.Request) {
	var m schema.SupplierMetrics
	if !decode(w, r, &m) {
		return
	}
	m.ID = ""
	result, err := s.svc.Evaluate(r.Context(), m, true)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// updateSupplier replaces the metrics of an existing supplier and rescores it.
func (s *Server) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.svc.Stores.GetSupplierStore().GetSupplier(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	var m schema.SupplierMetrics
	if !decode(w, r, &m) {
		return
	}
	m.ID = id
	result, err := s.svc.Evaluate(r.Context(), m, true)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteSupplier(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// evaluate scores a record. It is stored unless ?dry_run=true.
func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	dryRun := false
	if raw := r.URL.Query().Get("dry_run"); raw != "" {
		v, err := contract.ParseBoolString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		dryRun = v
	}
	var m schema.SupplierMetrics
	if !decode(w, r, &m) {
		return
	}
	result, err := s.svc.Evaluate(r.Context(), m, !dryRun)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	status := http.StatusOK
	if !dryRun {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

func (s *Server) rescore(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.Rescore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) rescoreAll(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.RescoreAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) analysis(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Analyze(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.svc.Recommendations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) explanation(w http.ResponseWriter, r *http.Request) {
	exp, err := s.svc.Explanation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

type simulateRequest struct {
	Changes map[string]float64 `json:"changes"`
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !decode(w, r, &req) {
		return
	}
	changes := make(map[schema.MetricKey]float64, len(req.Changes))
	for k, v := range req.Changes {
		key, err := schema.ParseMetricKey(k)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		changes[key] = v
	}
	result, err := s.svc.Simulate(r.Context(), chi.URLParam(r, "id"), changes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) reports(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.svc.Stores.GetSupplierStore().GetSupplier(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	reports, err := s.svc.ListReports(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if reports == nil {
		reports = []schema.ESGReport{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) listControversies(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Stores.GetSignalStore().ListControversies(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []schema.Controversy{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) addControversy(w http.ResponseWriter, r *http.Request) {
	var c schema.Controversy
	if !decode(w, r, &c) {
		return
	}
	c.SupplierID = chi.URLParam(r, "id")
	if err := s.svc.AddControversy(r.Context(), &c); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) listMedia(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Stores.GetSignalStore().ListMediaSignals(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []schema.MediaSignal{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) addMedia(w http.ResponseWriter, r *http.Request) {
	var m schema.MediaSignal
	if !decode(w, r, &m) {
		return
	}
	m.SupplierID = chi.URLParam(r, "id")
	if err := s.svc.AddMediaSignal(r.Context(), &m); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) topSuppliers(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(r, defaultTopLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(contract.MaxResultLimit))
		return
	}
	ranked, err := s.svc.TopSuppliers(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if ranked == nil {
		ranked = []schema.RankedSupplier{}
	}
	writeJSON(w, http.StatusOK, ranked)
}

func (s *Server) weights(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"preset":  s.svc.ActivePreset(),
		"weights": s.svc.Engine.Weights(),
	})
}

func (s *Server) listPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.svc.Presets(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if presets == nil {
		presets = []schema.WeightPreset{}
	}
	writeJSON(w, http.StatusOK, presets)
}

func (s *Server) getPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Preset(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// savePreset upserts a preset. Omitted weights start from the built-in defaults.
func (s *Server) savePreset(w http.ResponseWriter, r *http.Request) {
	p := schema.WeightPreset{Weights: schema.DefaultWeights()}
	if !decode(w, r, &p) {
		return
	}
	if err := s.svc.SavePreset(r.Context(), &p); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) setDefaultPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.svc.SetDefaultPreset(r.Context(), name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"default": name})
}

func (s *Server) deletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeletePreset(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clusterStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.svc.ClusterStatus(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) trainClusters(w http.ResponseWriter, r *http.Request) {
	if _, err := s.svc.TrainClusters(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.clusterStatus(w, r)
}
