package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ne3mer/supplychainweb/schema"
	"gopkg.in/yaml.v3"
)

// decodeFile unmarshals a JSON or YAML file into out. The extension picks the
// format; anything other than .json is read as YAML.
func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// readSuppliers loads one supplier or a list of suppliers from a file.
func readSuppliers(path string) ([]schema.SupplierMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	isJSON := strings.EqualFold(filepath.Ext(path), ".json")
	trimmed := bytes.TrimSpace(data)
	isList := (isJSON && bytes.HasPrefix(trimmed, []byte("["))) || (!isJSON && bytes.HasPrefix(trimmed, []byte("-")))

	if isList {
		var list []schema.SupplierMetrics
		if err := decodeFile(path, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var one schema.SupplierMetrics
	if err := decodeFile(path, &one); err != nil {
		return nil, err
	}
	return []schema.SupplierMetrics{one}, nil
}

// parseAssignments turns "metric=value" pairs into metric changes.
func parseAssignments(pairs []string) (map[schema.MetricKey]float64, error) {
	changes := make(map[schema.MetricKey]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid assignment %q, expected metric=value", pair)
		}
		key, err := schema.ParseMetricKey(name)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		changes[key] = v
	}
	return changes, nil
}

// applyAssignments sets each "metric=value" pair on m.
func applyAssignments(m *schema.SupplierMetrics, pairs []string) error {
	changes, err := parseAssignments(pairs)
	if err != nil {
		return err
	}
	for key, v := range changes {
		if err := m.Set(key, v); err != nil {
			return err
		}
	}
	return nil
}
