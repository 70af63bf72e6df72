package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// peersCacheKey is where the scoring peer collection is memoized.
const peersCacheKey = "peers"

// Service connects the engine to the stores. It backs the CLI commands, the
// HTTP API and the MCP tools.
type Service struct {
	Engine  *Engine
	Stores  contract.StoreManager
	Workers int

	// Cache memoizes the peer collection. It may be nil.
	Cache contract.PeerCache

	// Source labels the score history rows this service writes.
	Source string

	// preset names the active weights in score history rows.
	preset atomic.Pointer[string]

	// generation counts invalidations so a slow peer read never caches a
	// snapshot taken before a concurrent write.
	generation atomic.Uint64
}

// NewService wires an engine to a store manager.
func NewService(engine *Engine, stores contract.StoreManager, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{Engine: engine, Stores: stores, Workers: workers, Source: "cli"}
}

// ResolveWeights picks the weights for a run. A named preset wins, then the
// stored default preset, then fallback. The second return value names the source.
func (s *Service) ResolveWeights(ctx context.Context, preset string, fallback schema.WeightConfig) (schema.WeightConfig, string, error) {
	presets := s.Stores.GetPresetStore()
	if preset != "" {
		p, err := presets.GetPreset(ctx, preset)
		if err != nil {
			return schema.WeightConfig{}, "", eris.Wrapf(err, "load preset %q", preset)
		}
		return p.Weights, p.Name, nil
	}

	p, err := presets.DefaultPreset(ctx)
	switch {
	case err == nil:
		return p.Weights, p.Name, nil
	case errors.Is(err, contract.ErrNotFound):
		return fallback, "config", nil
	default:
		return schema.WeightConfig{}, "", eris.Wrap(err, "load default preset")
	}
}

// ActivePreset names the weights currently used for scoring.
func (s *Service) ActivePreset() string {
	if p := s.preset.Load(); p != nil {
		return *p
	}
	return ""
}

// ApplyWeights swaps the engine weights and labels them source in score history.
func (s *Service) ApplyWeights(w schema.WeightConfig, source string) {
	s.Engine.SetWeights(w)
	s.preset.Store(&source)
}

// UsePreset resolves weights as ResolveWeights does and applies them.
func (s *Service) UsePreset(ctx context.Context, preset string, fallback schema.WeightConfig) (string, error) {
	w, source, err := s.ResolveWeights(ctx, preset, fallback)
	if err != nil {
		return "", err
	}
	s.ApplyWeights(w, source)
	return source, nil
}

// Presets lists the stored weight presets by name.
func (s *Service) Presets(ctx context.Context) ([]schema.WeightPreset, error) {
	return s.Stores.GetPresetStore().ListPresets(ctx)
}

// Preset loads one stored preset.
func (s *Service) Preset(ctx context.Context, name string) (schema.WeightPreset, error) {
	return s.Stores.GetPresetStore().GetPreset(ctx, name)
}

// SavePreset upserts a preset. A preset saved as default takes effect
// immediately unless it is displaced later by SetDefaultPreset.
func (s *Service) SavePreset(ctx context.Context, p *schema.WeightPreset) error {
	if err := s.Stores.GetPresetStore().SavePreset(ctx, p); err != nil {
		return eris.Wrapf(err, "save preset %q", p.Name)
	}
	if p.IsDefault {
		s.ApplyWeights(p.Weights, p.Name)
	}
	return nil
}

// SetDefaultPreset marks a stored preset as the default and applies its weights.
func (s *Service) SetDefaultPreset(ctx context.Context, name string) error {
	presets := s.Stores.GetPresetStore()
	if err := presets.SetDefaultPreset(ctx, name); err != nil {
		return err
	}
	p, err := presets.GetPreset(ctx, name)
	if err != nil {
		return err
	}
	s.ApplyWeights(p.Weights, p.Name)
	return nil
}

// DeletePreset removes a stored preset. The active weights are left alone.
func (s *Service) DeletePreset(ctx context.Context, name string) error {
	return s.Stores.GetPresetStore().DeletePreset(ctx, name)
}

// Peers returns the metrics of every stored supplier, enriched with stored signals.
func (s *Service) Peers(ctx context.Context) ([]schema.SupplierMetrics, error) {
	if s.Cache != nil {
		if v, ok := s.Cache.Get(peersCacheKey); ok {
			if peers, ok := v.([]schema.SupplierMetrics); ok {
				return peers, nil
			}
		}
	}

	gen := s.generation.Load()
	records, err := s.Stores.GetSupplierStore().ListSuppliers(ctx, schema.SupplierFilter{})
	if err != nil {
		return nil, eris.Wrap(err, "list peers")
	}
	signals, err := s.allSignals(ctx)
	if err != nil {
		return nil, err
	}

	peers := make([]schema.SupplierMetrics, len(records))
	for i, r := range records {
		peers[i] = r.SupplierMetrics
		if sig, ok := signals[r.ID]; ok {
			peers[i] = EnrichSignals(r.SupplierMetrics, sig)
		}
	}

	if s.Cache != nil && s.generation.Load() == gen {
		s.Cache.Set(peersCacheKey, peers, 0)
	}
	return peers, nil
}

// invalidate drops memoized peers after a write.
func (s *Service) invalidate() {
	s.generation.Add(1)
	if s.Cache != nil {
		s.Cache.Delete(peersCacheKey)
	}
}

// allSignals summarizes stored signals for every supplier in two queries.
func (s *Service) allSignals(ctx context.Context) (map[string]schema.SupplierSignals, error) {
	signals := s.Stores.GetSignalStore()
	controversies, err := signals.ListControversies(ctx, "")
	if err != nil {
		return nil, eris.Wrap(err, "list controversies")
	}
	media, err := signals.ListMediaSignals(ctx, "")
	if err != nil {
		return nil, eris.Wrap(err, "list media signals")
	}

	byControversy := make(map[string][]schema.Controversy)
	for _, c := range controversies {
		byControversy[c.SupplierID] = append(byControversy[c.SupplierID], c)
	}
	byMedia := make(map[string][]schema.MediaSignal)
	for _, m := range media {
		byMedia[m.SupplierID] = append(byMedia[m.SupplierID], m)
	}

	out := make(map[string]schema.SupplierSignals, len(byControversy)+len(byMedia))
	for id := range byControversy {
		out[id] = SummarizeSignals(byControversy[id], byMedia[id])
	}
	for id := range byMedia {
		if _, ok := out[id]; !ok {
			out[id] = SummarizeSignals(nil, byMedia[id])
		}
	}
	return out, nil
}

// SignalsFor summarizes the stored signals of one supplier.
func (s *Service) SignalsFor(ctx context.Context, id string) (schema.SupplierSignals, error) {
	signals := s.Stores.GetSignalStore()
	controversies, err := signals.ListControversies(ctx, id)
	if err != nil {
		return schema.SupplierSignals{}, eris.Wrap(err, "list controversies")
	}
	media, err := signals.ListMediaSignals(ctx, id)
	if err != nil {
		return schema.SupplierSignals{}, eris.Wrap(err, "list media signals")
	}
	return SummarizeSignals(controversies, media), nil
}

// Supplier loads a stored supplier with its signals applied.
func (s *Service) Supplier(ctx context.Context, id string) (schema.SupplierRecord, error) {
	rec, err := s.Stores.GetSupplierStore().GetSupplier(ctx, id)
	if err != nil {
		return schema.SupplierRecord{}, err
	}
	sig, err := s.SignalsFor(ctx, id)
	if err != nil {
		return schema.SupplierRecord{}, err
	}
	rec.SupplierMetrics = EnrichSignals(rec.SupplierMetrics, sig)
	return rec, nil
}

// Evaluate scores m. When save is set the supplier is stored (created or
// updated by ID) with its score, and a score history row is appended.
func (s *Service) Evaluate(ctx context.Context, m schema.SupplierMetrics, save bool) (schema.EvaluationResult, error) {
	if err := m.Validate(); err != nil {
		return schema.EvaluationResult{}, eris.Wrapf(contract.ErrInvalid, "supplier: %v", err)
	}
	if !save {
		return s.Engine.Evaluate(m, nil), nil
	}

	rec := schema.SupplierRecord{SupplierMetrics: m}
	suppliers := s.Stores.GetSupplierStore()
	if m.ID == "" {
		if err := suppliers.CreateSupplier(ctx, &rec); err != nil {
			return schema.EvaluationResult{}, eris.Wrap(err, "create supplier")
		}
	} else if err := suppliers.UpdateSupplier(ctx, &rec); err != nil {
		if !errors.Is(err, contract.ErrNotFound) {
			return schema.EvaluationResult{}, eris.Wrap(err, "update supplier")
		}
		if err := suppliers.CreateSupplier(ctx, &rec); err != nil {
			return schema.EvaluationResult{}, eris.Wrap(err, "create supplier")
		}
	}
	s.invalidate()

	enriched, err := s.Supplier(ctx, rec.ID)
	switch {
	case errors.Is(err, contract.ErrNotFound):
		// the none backend accepts writes without retaining them
		enriched = rec
	case err != nil:
		return schema.EvaluationResult{}, err
	}
	result := s.Engine.Evaluate(enriched.SupplierMetrics, nil)
	result.ID = rec.ID
	if err := s.persistScore(ctx, rec.ID, result.Scores, result.ClusterID); err != nil {
		return schema.EvaluationResult{}, err
	}
	return result, nil
}

// persistScore stores the latest score and appends a history row.
func (s *Service) persistScore(ctx context.Context, id string, b schema.ScoreBundle, clusterID *int) error {
	if err := s.Stores.GetSupplierStore().SaveScore(ctx, id, b, clusterID); err != nil {
		return eris.Wrapf(err, "save score for %s", id)
	}
	report := &schema.ESGReport{
		SupplierID: id,
		ReportYear: time.Now().Year(),
		Source:     s.Source,
		Preset:     s.ActivePreset(),
		Scores:     b,
	}
	if err := s.Stores.GetSignalStore().AddReport(ctx, report); err != nil {
		return eris.Wrapf(err, "record score history for %s", id)
	}
	s.invalidate()
	return nil
}

// Rescore recomputes and stores the score of one supplier.
func (s *Service) Rescore(ctx context.Context, id string) (schema.EvaluationResult, error) {
	rec, err := s.Supplier(ctx, id)
	if err != nil {
		return schema.EvaluationResult{}, err
	}
	result := s.Engine.Evaluate(rec.SupplierMetrics, nil)
	if err := s.persistScore(ctx, id, result.Scores, result.ClusterID); err != nil {
		return schema.EvaluationResult{}, err
	}
	return result, nil
}

// RescoreAll recomputes every stored supplier with bounded concurrency.
// Individual failures are counted but do not stop the run.
func (s *Service) RescoreAll(ctx context.Context) (schema.BatchResult, error) {
	records, err := s.Stores.GetSupplierStore().ListSuppliers(ctx, schema.SupplierFilter{})
	if err != nil {
		return schema.BatchResult{}, eris.Wrap(err, "list suppliers")
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return s.runBatch(ctx, "rescore", len(ids), func(gctx context.Context, i int) (string, error) {
		_, err := s.Rescore(gctx, ids[i])
		return ids[i], err
	})
}

// Import evaluates and stores every supplier with bounded concurrency.
func (s *Service) Import(ctx context.Context, suppliers []schema.SupplierMetrics) (schema.BatchResult, error) {
	return s.runBatch(ctx, "import", len(suppliers), func(gctx context.Context, i int) (string, error) {
		result, err := s.Evaluate(gctx, suppliers[i], true)
		if err != nil {
			return suppliers[i].Name, err
		}
		return result.ID, nil
	})
}

func (s *Service) runBatch(ctx context.Context, op string, n int, fn func(context.Context, int) (string, error)) (schema.BatchResult, error) {
	zap.L().Info("batch started", zap.String("op", op), zap.Int("items", n), zap.Int("workers", s.Workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.Workers))

	var (
		mu     sync.Mutex
		result schema.BatchResult
	)
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			id, err := fn(gctx, i)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				zap.L().Warn("batch item failed", zap.String("op", op), zap.String("item", id), zap.Error(err))
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", id, err))
				return nil
			}
			result.Succeeded++
			result.IDs = append(result.IDs, id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, eris.Wrapf(err, "%s batch", op)
	}

	zap.L().Info("batch complete", zap.String("op", op),
		zap.Int("succeeded", result.Succeeded), zap.Int("failed", result.Failed))
	return result, nil
}

// Analyze builds the detailed report of a stored supplier.
func (s *Service) Analyze(ctx context.Context, id string) (schema.DetailedAnalysis, error) {
	rec, peers, err := s.supplierWithPeers(ctx, id)
	if err != nil {
		return schema.DetailedAnalysis{}, err
	}
	return s.Engine.Analyze(rec.SupplierMetrics, peers), nil
}

// Recommendations returns the recommendations of a stored supplier.
func (s *Service) Recommendations(ctx context.Context, id string) ([]schema.Recommendation, error) {
	rec, peers, err := s.supplierWithPeers(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Engine.Recommend(rec.SupplierMetrics, peers), nil
}

// Explanation returns the explanation of a stored supplier.
func (s *Service) Explanation(ctx context.Context, id string) (schema.Explanation, error) {
	rec, peers, err := s.supplierWithPeers(ctx, id)
	if err != nil {
		return schema.Explanation{}, err
	}
	return s.Engine.Explain(rec.SupplierMetrics, peers), nil
}

// Simulate predicts the effect of changes on a stored supplier.
func (s *Service) Simulate(ctx context.Context, id string, changes map[schema.MetricKey]float64) (schema.SimulationResult, error) {
	rec, err := s.Supplier(ctx, id)
	if err != nil {
		return schema.SimulationResult{}, err
	}
	return schema.SimulationResult{
		ID:         rec.ID,
		Name:       rec.Name,
		Prediction: s.Engine.PredictImpact(rec.SupplierMetrics, changes),
	}, nil
}

func (s *Service) supplierWithPeers(ctx context.Context, id string) (schema.SupplierRecord, []schema.SupplierMetrics, error) {
	rec, err := s.Supplier(ctx, id)
	if err != nil {
		return schema.SupplierRecord{}, nil, err
	}
	peers, err := s.Peers(ctx)
	if err != nil {
		return schema.SupplierRecord{}, nil, err
	}
	return rec, peers, nil
}

// Dashboard aggregates every stored supplier.
func (s *Service) Dashboard(ctx context.Context) (schema.Dashboard, error) {
	records, err := s.Stores.GetSupplierStore().ListSuppliers(ctx, schema.SupplierFilter{})
	if err != nil {
		return schema.Dashboard{}, eris.Wrap(err, "list suppliers")
	}
	return BuildDashboard(records), nil
}

// TopSuppliers ranks stored suppliers by their last overall score.
func (s *Service) TopSuppliers(ctx context.Context, limit int) ([]schema.RankedSupplier, error) {
	records, err := s.Stores.GetSupplierStore().ListSuppliers(ctx, schema.SupplierFilter{})
	if err != nil {
		return nil, eris.Wrap(err, "list suppliers")
	}
	return TopSuppliers(records, limit), nil
}

// TrainClusters trains on every stored supplier, persists the model and
// writes the resulting cluster ids back to the suppliers.
func (s *Service) TrainClusters(ctx context.Context) (*schema.ClusterModel, error) {
	peers, err := s.Peers(ctx)
	if err != nil {
		return nil, err
	}
	model, err := s.Engine.TrainClusters(peers)
	if err != nil {
		return nil, err
	}
	if err := SaveClusterModel(ctx, s.Stores.GetArtifactStore(), model); err != nil {
		return nil, err
	}

	weights := s.Engine.Weights()
	for _, p := range peers {
		id, ok := s.Engine.assign(model, p)
		if !ok {
			continue
		}
		if err := s.Stores.GetSupplierStore().SaveScore(ctx, p.ID, s.Engine.Score(p, &weights), &id); err != nil {
			return nil, eris.Wrapf(err, "save cluster for %s", p.ID)
		}
	}
	s.invalidate()
	return model, nil
}

// LoadClusterModel swaps the persisted model into the engine. It reports
// false when no usable model is stored.
func (s *Service) LoadClusterModel(ctx context.Context) (bool, error) {
	if !s.Engine.ClusteringEnabled() {
		return false, nil
	}
	model, _, err := LoadClusterModel(ctx, s.Stores.GetArtifactStore())
	if errors.Is(err, contract.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.Engine.SetModel(model)
	zap.L().Debug("cluster model loaded", zap.Int("k", model.K), zap.Int("peers", model.PeerCount))
	return true, nil
}

// ClusterStatus reports on the active model and the persisted artifact.
func (s *Service) ClusterStatus(ctx context.Context) (schema.ClusterStatus, error) {
	status := s.Engine.ClusterStatus()
	_, at, err := LoadClusterModel(ctx, s.Stores.GetArtifactStore())
	switch {
	case err == nil:
		status.Persisted = true
		status.ArtifactAt = at
	case !errors.Is(err, contract.ErrNotFound):
		return status, err
	}
	return status, nil
}

// ListReports returns the score history of one supplier, or all when id is empty.
func (s *Service) ListReports(ctx context.Context, id string) ([]schema.ESGReport, error) {
	return s.Stores.GetSignalStore().ListReports(ctx, id)
}

// AddControversy stores a controversy against an existing supplier.
func (s *Service) AddControversy(ctx context.Context, c *schema.Controversy) error {
	if _, err := s.Stores.GetSupplierStore().GetSupplier(ctx, c.SupplierID); err != nil {
		return err
	}
	if err := s.Stores.GetSignalStore().AddControversy(ctx, c); err != nil {
		return eris.Wrap(err, "add controversy")
	}
	s.invalidate()
	return nil
}

// AddMediaSignal stores a sentiment observation against an existing supplier.
func (s *Service) AddMediaSignal(ctx context.Context, m *schema.MediaSignal) error {
	if _, err := s.Stores.GetSupplierStore().GetSupplier(ctx, m.SupplierID); err != nil {
		return err
	}
	if err := s.Stores.GetSignalStore().AddMediaSignal(ctx, m); err != nil {
		return eris.Wrap(err, "add media signal")
	}
	s.invalidate()
	return nil
}

// DeleteSupplier removes a supplier.
func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	if err := s.Stores.GetSupplierStore().DeleteSupplier(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// ListSuppliers returns stored suppliers matching the filter.
func (s *Service) ListSuppliers(ctx context.Context, filter schema.SupplierFilter) ([]schema.SupplierRecord, error) {
	return s.Stores.GetSupplierStore().ListSuppliers(ctx, filter)
}
