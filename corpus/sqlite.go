package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

const indexSchema = `
CREATE TABLE runs (
	run_id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	seed INTEGER NOT NULL,
	sr INTEGER NOT NULL,
	requested_outputs INTEGER NOT NULL,
	total_outputs INTEGER NOT NULL,
	max_variants_per_clean INTEGER NOT NULL,
	shard_size INTEGER NOT NULL,
	num_clean_files_found INTEGER NOT NULL,
	num_rir_files_found INTEGER NOT NULL,
	dry_run INTEGER NOT NULL
);
CREATE TABLE samples (
	idx INTEGER PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	audio TEXT NOT NULL UNIQUE,
	shard INTEGER NOT NULL,
	rt60 REAL,
	drr REAL,
	c50 REAL,
	lufs REAL,
	duration_s REAL,
	clean_id TEXT NOT NULL,
	rir_id TEXT NOT NULL,
	split TEXT NOT NULL
);
CREATE INDEX idx_samples_split ON samples(split);
CREATE INDEX idx_samples_clean ON samples(clean_id);
CREATE INDEX idx_samples_rir ON samples(rir_id);
`

// WriteSQLiteIndex writes a fresh SQLite copy of the manifest to path,
// replacing any previous index. Non-finite metrics are stored as NULL.
func WriteSQLiteIndex(ctx context.Context, path string, s Summary, records []Record) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale index: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin index tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, indexSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at, seed, sr, requested_outputs, total_outputs,
			max_variants_per_clean, shard_size, num_clean_files_found, num_rir_files_found, dry_run)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, time.Now().UTC().Format(time.RFC3339), s.Seed, s.SampleRate, s.RequestedOutputs,
		s.TotalOutputs, s.MaxVariantsPerClean, s.ShardSize, s.NumCleanFilesFound, s.NumRIRFilesFound,
		boolInt(s.DryRun),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO samples (idx, run_id, audio, shard, rt60, drr, c50, lufs, duration_s, clean_id, rir_id, split)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Index, s.RunID, r.Audio, r.Shard,
			nullFloat(r.RT60), nullFloat(r.DRR), nullFloat(r.C50), nullFloat(r.LUFS), nullFloat(r.DurationS),
			r.CleanID, r.RIRID, string(r.Split),
		); err != nil {
			return fmt.Errorf("insert sample %d: %w", r.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index: %w", err)
	}
	return nil
}

func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
