package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
)

const presetSelect = "name, description, is_default, weights, created_at, updated_at"

// scanPreset reads one row selected with presetSelect.
func scanPreset(row rowScanner) (schema.WeightPreset, error) {
	var (
		p                schema.WeightPreset
		description      sql.NullString
		isDefault        int
		weights          string
		created, updated int64
	)
	if err := row.Scan(&p.Name, &description, &isDefault, &weights, &created, &updated); err != nil {
		return p, err
	}
	if err := json.Unmarshal([]byte(weights), &p.Weights); err != nil {
		return p, eris.Wrapf(err, "store: decode weights of preset %s", p.Name)
	}
	p.Description = description.String
	p.IsDefault = isDefault != 0
	p.CreatedAt = time.Unix(created, 0)
	p.UpdatedAt = time.Unix(updated, 0)
	return p, nil
}

// getUpsertPresetQuery returns the backend-specific upsert for presets.
func (s *SQLStore) getUpsertPresetQuery() string {
	table := quoteTableName(presetsTable, s.backend)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (name, description, is_default, weights, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE description = new.description, is_default = new.is_default,
			weights = new.weights, updated_at = new.updated_at`, table)
	default:
		return fmt.Sprintf(`INSERT INTO %s (name, description, is_default, weights, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, is_default = EXCLUDED.is_default,
			weights = EXCLUDED.weights, updated_at = EXCLUDED.updated_at`, table)
	}
}

// SavePreset upserts a preset by name. Saving a default clears every other
// default in the same transaction.
func (s *SQLStore) SavePreset(ctx context.Context, p *schema.WeightPreset) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return eris.Wrap(ErrInvalid, "store: preset name is required")
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if s.db == nil {
		return nil
	}

	weights, err := json.Marshal(p.Weights)
	if err != nil {
		return eris.Wrapf(err, "store: encode weights of preset %s", p.Name)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if p.IsDefault {
			query := fmt.Sprintf("UPDATE %s SET is_default = 0 WHERE name <> ?", quoteTableName(presetsTable, s.backend))
			if _, err := s.exec(ctx, tx, query, p.Name); err != nil {
				return eris.Wrap(err, "store: clear default preset")
			}
		}
		_, err := s.exec(ctx, tx, s.getUpsertPresetQuery(),
			p.Name, p.Description, boolInt(p.IsDefault), string(weights), p.CreatedAt.Unix(), p.UpdatedAt.Unix())
		return eris.Wrapf(err, "store: save preset %s", p.Name)
	})
}

// GetPreset returns a preset by name.
func (s *SQLStore) GetPreset(ctx context.Context, name string) (schema.WeightPreset, error) {
	if s.db == nil {
		return schema.WeightPreset{}, notFound("preset", name)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE name = ?", presetSelect, quoteTableName(presetsTable, s.backend))
	p, err := scanPreset(s.db.QueryRowContext(ctx, s.rebind(query), strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return p, notFound("preset", name)
	}
	if err != nil {
		return p, eris.Wrapf(err, "store: get preset %s", name)
	}
	return p, nil
}

// ListPresets returns every preset ordered by name.
func (s *SQLStore) ListPresets(ctx context.Context) ([]schema.WeightPreset, error) {
	if s.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY name", presetSelect, quoteTableName(presetsTable, s.backend))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "store: list presets")
	}
	defer func() { _ = rows.Close() }()

	var presets []schema.WeightPreset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, eris.Wrap(err, "store: scan preset")
		}
		presets = append(presets, p)
	}
	return presets, eris.Wrap(rows.Err(), "store: iterate presets")
}

// DefaultPreset returns the preset flagged as default.
func (s *SQLStore) DefaultPreset(ctx context.Context) (schema.WeightPreset, error) {
	if s.db == nil {
		return schema.WeightPreset{}, notFound("preset", "default")
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE is_default = 1", presetSelect, quoteTableName(presetsTable, s.backend))
	p, err := scanPreset(s.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return p, notFound("preset", "default")
	}
	if err != nil {
		return p, eris.Wrap(err, "store: get default preset")
	}
	return p, nil
}

// SetDefaultPreset flags an existing preset as the only default.
func (s *SQLStore) SetDefaultPreset(ctx context.Context, name string) error {
	if s.db == nil {
		return notFound("preset", name)
	}
	name = strings.TrimSpace(name)
	table := quoteTableName(presetsTable, s.backend)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx, fmt.Sprintf("UPDATE %s SET is_default = 1, updated_at = ? WHERE name = ?", table), time.Now().Unix(), name)
		if err != nil {
			return eris.Wrapf(err, "store: set default preset %s", name)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return notFound("preset", name)
		}
		_, err = s.exec(ctx, tx, fmt.Sprintf("UPDATE %s SET is_default = 0 WHERE name <> ?", table), name)
		return eris.Wrap(err, "store: clear default preset")
	})
}

// DeletePreset removes a preset by name.
func (s *SQLStore) DeletePreset(ctx context.Context, name string) error {
	if s.db == nil {
		return notFound("preset", name)
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE name = ?", quoteTableName(presetsTable, s.backend))
	res, err := s.exec(ctx, s.db, query, strings.TrimSpace(name))
	if err != nil {
		return eris.Wrapf(err, "store: delete preset %s", name)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("preset", name)
	}
	return nil
}
