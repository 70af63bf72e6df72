// Package main provides a performance benchmarking tool for the supplychain CLI.
// It generates synthetic supplier portfolios of increasing size, imports each
// into a fresh SQLite store and times the portfolio-wide commands, treating the
// first successful run as cold and averaging the rest as warm. Results are
// written as CSV for performance analysis and documentation.
//
// Prerequisites:
// - supplychain binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated fixtures and databases (default: a temp dir)
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset  string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir    string
	Timeout    time.Duration
	Workers    int
	Runs       int
	Sizes      []int
	Industries []string
	Countries  []string
}

// benchCommand is one timed CLI invocation.
type benchCommand struct {
	name string
	args []string
}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "supplychain-bench-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:    workDir,
		Timeout:    5 * time.Minute,
		Workers:    8,
		Runs:       4,
		Sizes:      []int{100, 1000, 5000},
		Industries: []string{"Textiles", "Electronics", "Agriculture", "Mining", "Logistics"},
		Countries:  []string{"Bangladesh", "India", "Vietnam", "Mexico", "Germany", "Brazil"},
	}

	if _, err := exec.LookPath("supplychain"); err != nil {
		fmt.Printf("Prerequisites check failed: supplychain binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks generates each dataset and benchmarks the commands against it.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d workers, %d runs\n",
		len(config.Sizes), config.Timeout, config.Workers, config.Runs)

	for _, size := range config.Sizes {
		dataset := fmt.Sprintf("%d suppliers", size)
		fmt.Printf("Benchmarking %s\n", dataset)

		fixture := filepath.Join(config.WorkDir, fmt.Sprintf("suppliers_%d.json", size))
		if err := writeFixture(config, fixture, size); err != nil {
			fmt.Printf("  Skipping: %v\n", err)
			continue
		}
		dbPath := filepath.Join(config.WorkDir, fmt.Sprintf("bench_%d.db", size))
		_ = os.Remove(dbPath)

		env := []string{
			"SUPPLYCHAIN_DB_BACKEND=sqlite",
			"SUPPLYCHAIN_DB_CONNECT=" + dbPath,
			fmt.Sprintf("SUPPLYCHAIN_WORKERS=%d", config.Workers),
			"SUPPLYCHAIN_LOG_LEVEL=warn",
		}

		// Import is timed once; every run adds another copy of the portfolio.
		importTime := "FAILED"
		if elapsed, ok := runOnce(config, env, []string{"suppliers", "import", fixture, "--output", "json"}); ok {
			importTime = fmt.Sprintf("%.3fs", elapsed)
		}
		fmt.Printf("  import: %s\n", importTime)
		results = append(results, BenchmarkResult{Dataset: dataset, Command: "import", ColdTime: importTime, WarmTime: "-"})

		for _, c := range []benchCommand{
			{"rescore", []string{"suppliers", "rescore", "--output", "json"}},
			{"cluster-train", []string{"cluster", "train"}},
			{"dashboard", []string{"dashboard", "--output", "json"}},
			{"top", []string{"top", "--output", "json"}},
		} {
			results = append(results, runBenchmarkSuite(config, env, dataset, c))
		}
	}

	return results
}

// writeFixture writes size deterministic synthetic suppliers to path.
func writeFixture(config BenchmarkConfig, path string, size int) error {
	rng := rand.New(rand.NewPCG(uint64(size), 42))
	unit := func() float64 { return float64(int(rng.Float64()*100)) / 100 }

	suppliers := make([]map[string]any, 0, size)
	for i := range size {
		suppliers = append(suppliers, map[string]any{
			"name":                      fmt.Sprintf("Supplier %05d", i),
			"industry":                  config.Industries[i%len(config.Industries)],
			"country":                   config.Countries[i%len(config.Countries)],
			"co2_emissions":             float64(rng.IntN(120)),
			"water_usage":               float64(rng.IntN(120)),
			"energy_efficiency":         unit(),
			"waste_management_score":    unit(),
			"wage_fairness":             unit(),
			"human_rights_index":        unit(),
			"diversity_inclusion_score": unit(),
			"community_engagement":      unit(),
			"transparency_score":        unit(),
			"corruption_risk":           unit(),
		})
	}

	data, err := json.Marshal(suppliers)
	if err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// runBenchmarkSuite runs a command config.Runs times and summarizes the timings.
func runBenchmarkSuite(config BenchmarkConfig, env []string, dataset string, c benchCommand) BenchmarkResult {
	var times []float64
	for range config.Runs {
		if elapsed, ok := runOnce(config, env, c.args); ok {
			times = append(times, elapsed)
		}
	}

	result := BenchmarkResult{Dataset: dataset, Command: c.name, ColdTime: "FAILED", WarmTime: "FAILED"}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}

	fmt.Printf("  %s: cold %s, warm average %s\n", c.name, result.ColdTime, result.WarmTime)
	return result
}

// runOnce executes the CLI once and reports the elapsed seconds.
func runOnce(config BenchmarkConfig, env, args []string) (float64, bool) {
	cmd := exec.Command("supplychain", args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Dir = config.WorkDir

	start := time.Now()
	done := make(chan error, 1)
	if err := cmd.Start(); err != nil {
		return 0, false
	}
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return time.Since(start).Seconds(), err == nil
	case <-time.After(config.Timeout):
		_ = cmd.Process.Kill()
		<-done
		return 0, false
	}
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("supplychain_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-16s %-14s cold: %-10s warm: %s\n", result.Dataset, result.Command, result.ColdTime, result.WarmTime)
	}
}
