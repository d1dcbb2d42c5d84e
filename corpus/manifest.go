package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ManifestColumns is the header of every manifest CSV.
var ManifestColumns = []string{"audio", "rt60", "drr", "c50", "lufs", "duration_s", "clean_id", "rir_id", "split"}

// RIRMetricsColumns is the header of metadata/rir_metrics.csv.
var RIRMetricsColumns = []string{"rir_id", "path", "rt60", "drr", "c50"}

const (
	MetadataDir     = "metadata"
	StatsDir        = "stats"
	ManifestName    = "metadata.csv"
	RIRMetricsName  = "rir_metrics.csv"
	SummaryName     = "build_summary.json"
	SQLiteIndexName = "metadata.db"
)

func (r Record) row() []string {
	return []string{
		r.Audio,
		formatFloat(r.RT60),
		formatFloat(r.DRR),
		formatFloat(r.C50),
		formatFloat(r.LUFS),
		formatFloat(r.DurationS),
		r.CleanID,
		r.RIRID,
		string(r.Split),
	}
}

// WriteManifests writes metadata.csv with every record in production
// order, then train.csv, dev.csv and test.csv with the matching subsets.
// Each file carries the header even when it has no rows.
func WriteManifests(metaDir string, records []Record) error {
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	if err := writeManifest(filepath.Join(metaDir, ManifestName), records, ""); err != nil {
		return err
	}
	for _, s := range Splits {
		if err := writeManifest(filepath.Join(metaDir, string(s)+".csv"), records, s); err != nil {
			return err
		}
	}
	return nil
}

func writeManifest(path string, records []Record, only Split) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write(ManifestColumns); err != nil {
			return err
		}
		for _, r := range records {
			if only != "" && r.Split != only {
				continue
			}
			if err := w.Write(r.row()); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteRIRMetrics writes the per-RIR metric cache in shuffled order.
func WriteRIRMetrics(path string, rirs []RIR) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write(RIRMetricsColumns); err != nil {
			return err
		}
		for _, r := range rirs {
			row := []string{
				r.ID,
				filepath.ToSlash(r.Path),
				formatFloat(r.Metrics.RT60),
				formatFloat(r.Metrics.DRR),
				formatFloat(r.Metrics.C50),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, fill func(w *csv.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := fill(w); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// ReadManifest parses a manifest written by WriteManifests. Columns are
// located by header name, so extra or reordered columns are tolerated; the
// returned slice names any required column that is absent.
func ReadManifest(r io.Reader) ([]Record, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, append([]string(nil), ManifestColumns...), nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[name] = i
	}
	var missing []string
	for _, name := range ManifestColumns {
		if _, ok := pos[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, missing, nil
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", line, err)
		}
		get := func(name string) string {
			if i := pos[name]; i < len(row) {
				return row[i]
			}
			return ""
		}
		rec := Record{
			Audio:   get("audio"),
			CleanID: get("clean_id"),
			RIRID:   get("rir_id"),
			Split:   Split(get("split")),
			Index:   len(records),
		}
		for _, f := range []struct {
			name string
			dst  *float64
		}{
			{"rt60", &rec.RT60},
			{"drr", &rec.DRR},
			{"c50", &rec.C50},
			{"lufs", &rec.LUFS},
			{"duration_s", &rec.DurationS},
		} {
			v, err := parseFloat(get(f.name))
			if err != nil {
				return nil, nil, fmt.Errorf("row %d column %s: %w", line, f.name, err)
			}
			*f.dst = v
		}
		records = append(records, rec)
	}
	return records, nil, nil
}
