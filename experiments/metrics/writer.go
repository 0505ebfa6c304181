package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Writer stores experiment output under root/name/<timestamp>/, one
// CSV file per record type.
type Writer struct {
	baseDir string
}

func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

// BaseDir returns the run directory this writer stores into.
func (w *Writer) BaseDir() string {
	return w.baseDir
}

func (w *Writer) WriteConfigs(configs []Config) error {
	path := filepath.Join(w.baseDir, "configs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create configs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "simulations", "exploration", "max_depth", "trees", "seed"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write configs header: %w", err)
	}

	for _, config := range configs {
		row := []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Simulations),
			strconv.FormatFloat(config.Exploration, 'g', -1, 64),
			strconv.Itoa(config.MaxDepth),
			strconv.Itoa(config.Trees),
			strconv.FormatUint(config.Seed, 10),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write config row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteDecisionRecords(records []DecisionRecord) error {
	path := filepath.Join(w.baseDir, "decision_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create decision records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"config", "agent", "step", "action", "value", "visits", "children", "truncated", "duration"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write decision records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Config),
			record.Agent,
			strconv.Itoa(record.Step),
			record.Action,
			strconv.FormatFloat(record.Value, 'g', -1, 64),
			strconv.Itoa(record.Visits),
			strconv.Itoa(record.Children),
			strconv.Itoa(record.Truncated),
			record.Elapsed.String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write decision record row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteSummaries(summaries []Summary) error {
	path := filepath.Join(w.baseDir, "summaries.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summaries file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"config", "decisions", "mean_value", "stddev_value", "mean_elapsed_ms", "truncation_rate"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write summaries header: %w", err)
	}

	for _, summary := range summaries {
		row := []string{
			strconv.Itoa(summary.Config),
			strconv.Itoa(summary.Decisions),
			strconv.FormatFloat(summary.MeanValue, 'g', -1, 64),
			strconv.FormatFloat(summary.StdDevValue, 'g', -1, 64),
			strconv.FormatFloat(summary.MeanElapsedMs, 'g', -1, 64),
			strconv.FormatFloat(summary.TruncationRate, 'g', -1, 64),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteThroughputRecords(records []ThroughputRecord) error {
	path := filepath.Join(w.baseDir, "throughput_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create throughput records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"trees", "simulations", "duration", "per_second"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write throughput records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Trees),
			strconv.Itoa(record.Simulations),
			record.Elapsed.String(),
			strconv.FormatFloat(record.PerSecond, 'g', -1, 64),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write throughput record row: %w", err)
		}
	}

	return nil
}
