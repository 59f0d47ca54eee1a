// Package export writes the acquired dataset in columnar form.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	log "github.com/sirupsen/logrus"

	"github.com/menta2k/image-acquisition/pkg/registry"
)

// Row is one saved image joined with its subject annotations
type Row struct {
	Path      string `json:"path" parquet:"path"`
	Name      string `json:"name" parquet:"name"`
	URL       string `json:"url" parquet:"url"`
	Dir       string `json:"dir" parquet:"dir"`
	Sequence  int32  `json:"sequence" parquet:"sequence"`
	Gender    string `json:"gender" parquet:"gender"`
	Ethnicity string `json:"ethnicity" parquet:"ethnicity"`
}

// Rows builds one row per index record of a loaded registry
func Rows(reg *registry.Registry) ([]Row, error) {
	records, err := reg.Records()
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		dir, seq, err := registry.SplitPath(rec.Path)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		row := Row{
			Path:     rec.Path,
			Name:     rec.Name,
			URL:      rec.URL,
			Dir:      dir,
			Sequence: int32(seq),
		}
		if s, ok := reg.Lookup(rec.Name); ok {
			row.Gender = string(s.Gender)
			row.Ethnicity = string(s.Ethnicity)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteParquet exports the registry to a Parquet file and returns the row count
func WriteParquet(reg *registry.Registry, path string) (int, error) {
	rows, err := Rows(reg)
	if err != nil {
		return 0, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return 0, fmt.Errorf("failed to write parquet: %w", err)
	}

	log.WithFields(log.Fields{"path": path, "rows": len(rows)}).Info("dataset exported")
	return len(rows), nil
}

// ReadParquet loads rows written by WriteParquet
func ReadParquet(path string) ([]Row, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet: %w", err)
	}
	return rows, nil
}
