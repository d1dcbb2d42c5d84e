package corpus

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultCheckLimit is how many audio paths Validate checks by default.
const DefaultCheckLimit = 2000

// Report is the outcome of Validate.
type Report struct {
	Manifest       string
	Rows           int
	MissingColumns []string
	Checked        int
	MissingAudio   []string
	SplitCounts    map[Split]int
}

// OK reports whether the manifest has every column and every checked audio
// file exists.
func (r Report) OK() bool {
	return len(r.MissingColumns) == 0 && len(r.MissingAudio) == 0
}

// Validate inspects a built corpus: required manifest columns, existence
// of the first checkLimit audio paths, and the split distribution. A
// missing or unreadable manifest is an error; findings go into the Report.
func Validate(outRoot string, checkLimit int) (Report, error) {
	if checkLimit < 0 {
		checkLimit = DefaultCheckLimit
	}
	manifest := filepath.Join(outRoot, MetadataDir, ManifestName)
	rep := Report{Manifest: manifest}

	f, err := os.Open(manifest)
	if err != nil {
		return rep, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	records, missing, err := ReadManifest(f)
	if err != nil {
		return rep, fmt.Errorf("%s: %w", manifest, err)
	}
	if len(missing) > 0 {
		rep.MissingColumns = missing
		return rep, nil
	}

	rep.Rows = len(records)
	rep.SplitCounts = SplitCounts(records)
	for i, r := range records {
		if i >= checkLimit {
			break
		}
		rep.Checked++
		if _, err := os.Stat(filepath.Join(outRoot, filepath.FromSlash(r.Audio))); err != nil {
			rep.MissingAudio = append(rep.MissingAudio, r.Audio)
		}
	}
	return rep, nil
}
