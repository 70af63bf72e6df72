package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
)

// metricColumns are named after the metric keys.
var metricColumns = func() []string {
	cols := make([]string, len(schema.AllMetricKeys))
	for i, k := range schema.AllMetricKeys {
		cols[i] = string(k)
	}
	return cols
}()

var scoreColumns = []string{
	"overall_score", "environmental_score", "social_score", "governance_score",
	"risk_level", "score_fallback", "cluster_id",
}

// supplierSelect lists the columns read by scanSupplier, in order.
var supplierSelect = "id, name, country, industry, " +
	strings.Join(metricColumns, ", ") + ", " +
	strings.Join(scoreColumns, ", ") + ", created_at, updated_at"

// metricArgs returns the metric values in column order, nil when absent.
func metricArgs(m schema.SupplierMetrics) []any {
	args := make([]any, len(schema.AllMetricKeys))
	for i, k := range schema.AllMetricKeys {
		if k == schema.MetricControversyCount {
			args[i] = nullInt(m.ControversyCount)
			continue
		}
		args[i] = nullFloat(m.Lookup(k))
	}
	return args
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSupplier reads one row selected with supplierSelect.
func scanSupplier(row rowScanner) (schema.SupplierRecord, error) {
	var (
		rec               schema.SupplierRecord
		country, industry sql.NullString
		metrics           = make([]sql.NullFloat64, len(schema.AllMetricKeys))
		overall, env      sql.NullFloat64
		social, gov       sql.NullFloat64
		risk              sql.NullString
		fallback          int
		clusterID         sql.NullInt64
		created, updated  int64
	)

	dest := []any{&rec.ID, &rec.Name, &country, &industry}
	for i := range metrics {
		dest = append(dest, &metrics[i])
	}
	dest = append(dest, &overall, &env, &social, &gov, &risk, &fallback, &clusterID, &created, &updated)
	if err := row.Scan(dest...); err != nil {
		return rec, err
	}

	rec.Country = country.String
	rec.Industry = industry.String
	for i, k := range schema.AllMetricKeys {
		if metrics[i].Valid {
			_ = rec.Set(k, metrics[i].Float64)
		}
	}
	if overall.Valid && risk.Valid {
		rec.Score = &schema.ScoreBundle{
			OverallScore:       overall.Float64,
			EnvironmentalScore: env.Float64,
			SocialScore:        social.Float64,
			GovernanceScore:    gov.Float64,
			RiskLevel:          schema.RiskLevel(risk.String),
			Fallback:           fallback != 0,
		}
	}
	rec.ClusterID = intPtr(clusterID)
	rec.CreatedAt = time.Unix(created, 0)
	rec.UpdatedAt = time.Unix(updated, 0)
	return rec, nil
}

// CreateSupplier inserts a new record. An empty ID is filled in with a UUID.
func (s *SQLStore) CreateSupplier(ctx context.Context, rec *schema.SupplierRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now()
	rec.CreatedAt, rec.UpdatedAt = now, now
	if s.db == nil {
		return nil
	}

	cols := append([]string{"id", "name", "country", "industry"}, metricColumns...)
	cols = append(cols, "created_at", "updated_at")
	args := append([]any{rec.ID, rec.Name, rec.Country, rec.Industry}, metricArgs(rec.SupplierMetrics)...)
	args = append(args, now.Unix(), now.Unix())

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteTableName(suppliersTable, s.backend),
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	if _, err := s.exec(ctx, s.db, query, args...); err != nil {
		return eris.Wrapf(err, "store: create supplier %s", rec.ID)
	}
	return nil
}

// GetSupplier returns a record by ID.
func (s *SQLStore) GetSupplier(ctx context.Context, id string) (schema.SupplierRecord, error) {
	if s.db == nil {
		return schema.SupplierRecord{}, notFound("supplier", id)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", supplierSelect, quoteTableName(suppliersTable, s.backend))
	rec, err := scanSupplier(s.db.QueryRowContext(ctx, s.rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return rec, notFound("supplier", id)
	}
	if err != nil {
		return rec, eris.Wrapf(err, "store: get supplier %s", id)
	}
	return rec, nil
}

// ListSuppliers returns records matching the filter, most recently updated first.
func (s *SQLStore) ListSuppliers(ctx context.Context, filter schema.SupplierFilter) ([]schema.SupplierRecord, error) {
	if s.db == nil {
		return nil, nil
	}

	var where []string
	var args []any
	if filter.Industry != "" {
		where = append(where, "LOWER(industry) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(filter.Industry)))
	}
	if filter.Country != "" {
		where = append(where, "LOWER(country) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(filter.Country)))
	}
	if filter.RiskLevel != "" {
		where = append(where, "risk_level = ?")
		args = append(args, string(filter.RiskLevel))
	}

	query := fmt.Sprintf("SELECT %s FROM %s", supplierSelect, quoteTableName(suppliersTable, s.backend))
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY updated_at DESC, id ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, eris.Wrap(err, "store: list suppliers")
	}
	defer func() { _ = rows.Close() }()

	var records []schema.SupplierRecord
	for rows.Next() {
		rec, err := scanSupplier(rows)
		if err != nil {
			return nil, eris.Wrap(err, "store: scan supplier")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "store: iterate suppliers")
}

// UpdateSupplier replaces the identity and metric fields of an existing record.
// The stored score is left untouched until the next SaveScore.
func (s *SQLStore) UpdateSupplier(ctx context.Context, rec *schema.SupplierRecord) error {
	if s.db == nil {
		return notFound("supplier", rec.ID)
	}
	now := time.Now()

	sets := []string{"name = ?", "country = ?", "industry = ?"}
	for _, c := range metricColumns {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "updated_at = ?")
	args := append([]any{rec.Name, rec.Country, rec.Industry}, metricArgs(rec.SupplierMetrics)...)
	args = append(args, now.Unix(), rec.ID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", quoteTableName(suppliersTable, s.backend), strings.Join(sets, ", "))
	res, err := s.exec(ctx, s.db, query, args...)
	if err != nil {
		return eris.Wrapf(err, "store: update supplier %s", rec.ID)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("supplier", rec.ID)
	}
	rec.UpdatedAt = now
	return nil
}

// DeleteSupplier removes a record together with its reports and signals.
func (s *SQLStore) DeleteSupplier(ctx context.Context, id string) error {
	if s.db == nil {
		return notFound("supplier", id)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{reportsTable, controversiesTable, mediaSignalsTable} {
			query := fmt.Sprintf("DELETE FROM %s WHERE supplier_id = ?", quoteTableName(table, s.backend))
			if _, err := s.exec(ctx, tx, query, id); err != nil {
				return eris.Wrapf(err, "store: delete %s of %s", table, id)
			}
		}
		query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", quoteTableName(suppliersTable, s.backend))
		res, err := s.exec(ctx, tx, query, id)
		if err != nil {
			return eris.Wrapf(err, "store: delete supplier %s", id)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return notFound("supplier", id)
		}
		return nil
	})
}

// SaveScore stores the latest score bundle and cluster id for a supplier.
func (s *SQLStore) SaveScore(ctx context.Context, id string, score schema.ScoreBundle, clusterID *int) error {
	if s.db == nil {
		return nil
	}
	query := fmt.Sprintf(`UPDATE %s SET overall_score = ?, environmental_score = ?, social_score = ?,
		governance_score = ?, risk_level = ?, score_fallback = ?, cluster_id = ?, updated_at = ? WHERE id = ?`,
		quoteTableName(suppliersTable, s.backend))
	res, err := s.exec(ctx, s.db, query,
		score.OverallScore, score.EnvironmentalScore, score.SocialScore, score.GovernanceScore,
		string(score.RiskLevel), boolInt(score.Fallback), nullInt(clusterID), time.Now().Unix(), id)
	if err != nil {
		return eris.Wrapf(err, "store: save score for %s", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("supplier", id)
	}
	return nil
}
