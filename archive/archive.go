// Package archive persists decisions as parquet files for offline
// analysis. Every write lands on a temp path first and is renamed into
// place, so readers never observe a partial file.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/planeflake/sworn/decide"
)

const schemaName = "decision_row_v1"

// Row is one archived decision. Low-cardinality columns are dictionary
// encoded; Target is null for actions without one.
type Row struct {
	RunID      string  `parquet:"run_id,dict"`
	Tick       int32   `parquet:"tick"`
	Agent      string  `parquet:"agent,dict"`
	Kind       string  `parquet:"kind,dict"`
	Status     string  `parquet:"status,dict"`
	ActionType string  `parquet:"action_type,dict"`
	Target     string  `parquet:"target,dict,optional"`
	Detail     string  `parquet:"detail"`
	Visits     int32   `parquet:"visits"`
	Children   int32   `parquet:"children"`
	Truncated  int32   `parquet:"truncated"`
	Value      float64 `parquet:"value"`
	ElapsedMs  int64   `parquet:"elapsed_ms"`
	UnixMs     int64   `parquet:"unix_ms"`
}

// FromOutcome flattens one decision into its archive row, stamped with
// the current wall clock.
func FromOutcome(runID string, tick int, outcome decide.Outcome) Row {
	return Row{
		RunID:      runID,
		Tick:       int32(tick),
		Agent:      outcome.Agent,
		Kind:       outcome.Kind,
		Status:     outcome.Status,
		ActionType: outcome.ActionType,
		Target:     outcome.Target,
		Detail:     outcome.Detail,
		Visits:     int32(outcome.Stats.Visits),
		Children:   int32(outcome.Stats.Children),
		Truncated:  int32(outcome.Stats.Truncated),
		Value:      outcome.Stats.Value,
		ElapsedMs:  outcome.Stats.ElapsedMs,
		UnixMs:     time.Now().UnixMilli(),
	}
}

// WriteRows writes rows to path, replacing whatever was there.
func WriteRows(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaName),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write archive: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename archive: %w", err)
	}
	return nil
}

// WriteBatch writes rows to a fresh, uniquely named file under dir and
// returns its path. Concurrent writers never collide.
func WriteBatch(dir string, rows []Row) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	tmpDir := filepath.Join(dir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("batch_%d.parquet", time.Now().UnixNano())
	finalPath := filepath.Join(dir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaName),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write archive: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename archive: %w", err)
	}

	return finalPath, nil
}

// ReadRows loads every row of one archive file.
func ReadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[Row](f)
	defer reader.Close()

	rows := make([]Row, 0, reader.NumRows())
	buf := make([]Row, 256)
	for {
		n, err := reader.Read(buf)
		rows = append(rows, buf[:n]...)
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}
	}
}
