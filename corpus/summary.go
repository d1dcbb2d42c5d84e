package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Summary is written to stats/build_summary.json. TotalOutputs is the
// number of records actually produced; RequestedOutputs is the cap.
type Summary struct {
	Seed                int64         `json:"seed"`
	SampleRate          int           `json:"sr"`
	TotalOutputs        int           `json:"total_outputs"`
	MaxVariantsPerClean int           `json:"max_variants_per_clean"`
	ShardSize           int           `json:"shard_size"`
	NumCleanFilesFound  int           `json:"num_clean_files_found"`
	NumRIRFilesFound    int           `json:"num_rir_files_found"`
	DryRun              bool          `json:"dry_run"`
	RequestedOutputs    int           `json:"requested_outputs"`
	ShardCount          int           `json:"shard_count"`
	SplitCounts         map[Split]int `json:"split_counts"`
	RunID               string        `json:"run_id"`
}

// WriteSummary writes s as indented JSON.
func WriteSummary(path string, s Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}

// ReadSummary loads a summary written by WriteSummary.
func ReadSummary(path string) (Summary, error) {
	var s Summary
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	err = json.Unmarshal(b, &s)
	return s, err
}
