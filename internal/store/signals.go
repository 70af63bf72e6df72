package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
)

// AddReport appends a score history row.
func (s *SQLStore) AddReport(ctx context.Context, r *schema.ESGReport) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now()
	}
	if s.db == nil {
		return nil
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, supplier_id, report_year, source, preset, overall_score,
		environmental_score, social_score, governance_score, risk_level, score_fallback, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quoteTableName(reportsTable, s.backend))
	_, err := s.exec(ctx, s.db, query,
		r.ID, r.SupplierID, r.ReportYear, r.Source, r.Preset,
		r.Scores.OverallScore, r.Scores.EnvironmentalScore, r.Scores.SocialScore, r.Scores.GovernanceScore,
		string(r.Scores.RiskLevel), boolInt(r.Scores.Fallback), r.RecordedAt.Unix())
	return eris.Wrapf(err, "store: add report for %s", r.SupplierID)
}

// ListReports returns the score history of one supplier, or of every supplier when
// supplierID is empty, oldest first.
func (s *SQLStore) ListReports(ctx context.Context, supplierID string) ([]schema.ESGReport, error) {
	if s.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT id, supplier_id, report_year, source, preset, overall_score, environmental_score,
		social_score, governance_score, risk_level, score_fallback, recorded_at FROM %s`, quoteTableName(reportsTable, s.backend))
	rows, err := s.queryBySupplier(ctx, query, supplierID, "recorded_at")
	if err != nil {
		return nil, eris.Wrap(err, "store: list reports")
	}
	defer func() { _ = rows.Close() }()

	var reports []schema.ESGReport
	for rows.Next() {
		var (
			r        schema.ESGReport
			preset   sql.NullString
			risk     string
			fallback int
			recorded int64
		)
		if err := rows.Scan(&r.ID, &r.SupplierID, &r.ReportYear, &r.Source, &preset,
			&r.Scores.OverallScore, &r.Scores.EnvironmentalScore, &r.Scores.SocialScore, &r.Scores.GovernanceScore,
			&risk, &fallback, &recorded); err != nil {
			return nil, eris.Wrap(err, "store: scan report")
		}
		r.Preset = preset.String
		r.Scores.RiskLevel = schema.RiskLevel(risk)
		r.Scores.Fallback = fallback != 0
		r.RecordedAt = time.Unix(recorded, 0)
		reports = append(reports, r)
	}
	return reports, eris.Wrap(rows.Err(), "store: iterate reports")
}

// AddControversy records an incident. Severity and status default to medium and unresolved.
func (s *SQLStore) AddControversy(ctx context.Context, c *schema.Controversy) error {
	if err := normalizeControversy(c); err != nil {
		return err
	}
	if s.db == nil {
		return nil
	}
	query := fmt.Sprintf("INSERT INTO %s (id, supplier_id, title, severity, status, occurred_at) VALUES (?, ?, ?, ?, ?, ?)",
		quoteTableName(controversiesTable, s.backend))
	_, err := s.exec(ctx, s.db, query, c.ID, c.SupplierID, c.Title, string(c.Severity), string(c.Status), c.OccurredAt.Unix())
	return eris.Wrapf(err, "store: add controversy for %s", c.SupplierID)
}

// normalizeControversy fills defaults and validates the enums.
func normalizeControversy(c *schema.Controversy) error {
	if strings.TrimSpace(c.Title) == "" {
		return eris.Wrap(ErrInvalid, "store: controversy title is required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Severity == "" {
		c.Severity = schema.SeverityMedium
	}
	if c.Status == "" {
		c.Status = schema.StatusUnresolved
	}
	if c.OccurredAt.IsZero() {
		c.OccurredAt = time.Now()
	}
	if _, ok := schema.ValidSeverities[c.Severity]; !ok {
		return eris.Wrapf(ErrInvalid, "store: controversy severity %q", c.Severity)
	}
	if _, ok := schema.ValidControversyStatuses[c.Status]; !ok {
		return eris.Wrapf(ErrInvalid, "store: controversy status %q", c.Status)
	}
	return nil
}

// ListControversies returns incidents for one supplier, or for all when supplierID is empty.
func (s *SQLStore) ListControversies(ctx context.Context, supplierID string) ([]schema.Controversy, error) {
	if s.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT id, supplier_id, title, severity, status, occurred_at FROM %s",
		quoteTableName(controversiesTable, s.backend))
	rows, err := s.queryBySupplier(ctx, query, supplierID, "occurred_at")
	if err != nil {
		return nil, eris.Wrap(err, "store: list controversies")
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Controversy
	for rows.Next() {
		var (
			c                schema.Controversy
			severity, status string
			occurred         int64
		)
		if err := rows.Scan(&c.ID, &c.SupplierID, &c.Title, &severity, &status, &occurred); err != nil {
			return nil, eris.Wrap(err, "store: scan controversy")
		}
		c.Severity = schema.ControversySeverity(severity)
		c.Status = schema.ControversyStatus(status)
		c.OccurredAt = time.Unix(occurred, 0)
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate controversies")
}

// AddMediaSignal records one sentiment observation.
func (s *SQLStore) AddMediaSignal(ctx context.Context, m *schema.MediaSignal) error {
	if err := normalizeMediaSignal(m); err != nil {
		return err
	}
	if s.db == nil {
		return nil
	}
	query := fmt.Sprintf("INSERT INTO %s (id, supplier_id, source, score, headline, recorded_at) VALUES (?, ?, ?, ?, ?, ?)",
		quoteTableName(mediaSignalsTable, s.backend))
	_, err := s.exec(ctx, s.db, query, m.ID, m.SupplierID, string(m.Source), m.Score, m.Headline, m.RecordedAt.Unix())
	return eris.Wrapf(err, "store: add media signal for %s", m.SupplierID)
}

// normalizeMediaSignal fills defaults and checks the score against the source's scale.
func normalizeMediaSignal(m *schema.MediaSignal) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now()
	}
	var key schema.MetricKey
	switch m.Source {
	case schema.SourceSocialMedia:
		key = schema.MetricSocialMedia
	case schema.SourceNews:
		key = schema.MetricNewsSentiment
	case schema.SourceWorkerReview:
		key = schema.MetricWorkerSatisfaction
	default:
		return eris.Wrapf(ErrInvalid, "store: media signal source %q", m.Source)
	}
	spec := schema.MetricSpecs[key]
	if m.Score < spec.Min || m.Score > spec.Max {
		return eris.Wrapf(ErrInvalid, "store: %s score must be within [%v, %v] (received %v)", m.Source, spec.Min, spec.Max, m.Score)
	}
	return nil
}

// ListMediaSignals returns observations for one supplier, or for all when supplierID is empty.
func (s *SQLStore) ListMediaSignals(ctx context.Context, supplierID string) ([]schema.MediaSignal, error) {
	if s.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT id, supplier_id, source, score, headline, recorded_at FROM %s",
		quoteTableName(mediaSignalsTable, s.backend))
	rows, err := s.queryBySupplier(ctx, query, supplierID, "recorded_at")
	if err != nil {
		return nil, eris.Wrap(err, "store: list media signals")
	}
	defer func() { _ = rows.Close() }()

	var out []schema.MediaSignal
	for rows.Next() {
		var (
			m        schema.MediaSignal
			source   string
			headline sql.NullString
			recorded int64
		)
		if err := rows.Scan(&m.ID, &m.SupplierID, &source, &m.Score, &headline, &recorded); err != nil {
			return nil, eris.Wrap(err, "store: scan media signal")
		}
		m.Source = schema.SignalSource(source)
		m.Headline = headline.String
		m.RecordedAt = time.Unix(recorded, 0)
		out = append(out, m)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate media signals")
}

// queryBySupplier appends an optional supplier filter and a stable ordering.
func (s *SQLStore) queryBySupplier(ctx context.Context, query, supplierID, orderBy string) (*sql.Rows, error) {
	var args []any
	if supplierID != "" {
		query += " WHERE supplier_id = ?"
		args = append(args, supplierID)
	}
	query += fmt.Sprintf(" ORDER BY %s ASC, id ASC", orderBy)
	return s.db.QueryContext(ctx, s.rebind(query), args...)
}
