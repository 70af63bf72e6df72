package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
)

// PrintPresets writes the stored weight presets, marking the default.
func PrintPresets(presets []schema.WeightPreset, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return write(cfg, view{
		name: "presets",
		data: presets,
		table: func(w io.Writer) error {
			if len(presets) == 0 {
				fmt.Fprintln(w, "No presets stored; the built-in weights are in use")
				return nil
			}
			table := newTable(w, "Name", "Default", "Env", "Social", "Gov", "External", "Updated")
			rows := make([][]string, 0, len(presets))
			for _, p := range presets {
				def := ""
				if p.IsDefault {
					def = "✓"
				}
				c := p.Weights.Categories
				rows = append(rows, []string{
					p.Name, def,
					fmtFloat(c.Environmental), fmtFloat(c.Social), fmtFloat(c.Governance), fmtFloat(c.ExternalData),
					p.UpdatedAt.Format(contract.DateTimeFormat),
				})
			}
			return renderTable(table, rows)
		},
		header: append([]string{"name", "description", "is_default"}, schema.WeightKeys...),
		rows: func(w *csv.Writer) error {
			for _, p := range presets {
				flat := p.Weights.Flatten()
				row := []string{p.Name, p.Description, strconv.FormatBool(p.IsDefault)}
				for _, key := range schema.WeightKeys {
					row = append(row, fmtFloat(flat[key]))
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

// PrintWeights writes a weight table keyed by dotted path.
func PrintWeights(weights schema.WeightConfig, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	flat := weights.Flatten()
	return write(cfg, view{
		name: "weights",
		data: weights,
		table: func(w io.Writer) error {
			table := newTable(w, "Weight", "Value")
			rows := make([][]string, 0, len(schema.WeightKeys))
			for _, key := range schema.WeightKeys {
				rows = append(rows, []string{key, fmtFloat(flat[key])})
			}
			return renderTable(table, rows)
		},
		header: []string{"key", "value"},
		rows: func(w *csv.Writer) error {
			for _, key := range schema.WeightKeys {
				if err := w.Write([]string{key, fmtFloat(flat[key])}); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

// PrintClusterStatus writes whether the peer model is trained and persisted.
func PrintClusterStatus(status schema.ClusterStatus, cfg *contract.Config) error {
	return write(cfg, view{
		name: "cluster status",
		data: status,
		table: func(w io.Writer) error {
			if !status.Enabled {
				fmt.Fprintln(w, "Clustering: disabled")
				return nil
			}
			if !status.Trained {
				fmt.Fprintln(w, "Clustering: enabled, not trained")
				return nil
			}
			fmt.Fprintf(w, "Clustering: trained with k=%d on %d suppliers at %s\n",
				status.K, status.PeerCount, status.TrainedAt.Format(contract.DateTimeFormat))
			table := newTable(w, "Cluster", "Suppliers")
			rows := make([][]string, 0, len(status.Sizes))
			for i, size := range status.Sizes {
				rows = append(rows, []string{strconv.Itoa(i), strconv.Itoa(size)})
			}
			if err := renderTable(table, rows); err != nil {
				return err
			}
			if status.Persisted {
				fmt.Fprintf(w, "Persisted at %s\n", status.ArtifactAt.Format(contract.DateTimeFormat))
			} else {
				fmt.Fprintln(w, "Not persisted")
			}
			return nil
		},
		header: []string{"cluster", "suppliers"},
		rows: func(w *csv.Writer) error {
			for i, size := range status.Sizes {
				if err := w.Write([]string{strconv.Itoa(i), strconv.Itoa(size)}); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
