package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateReportsMissingAudio(t *testing.T) {
	out := t.TempDir()
	records := sampleRecords()
	if err := WriteManifests(filepath.Join(out, MetadataDir), records); err != nil {
		t.Fatalf("WriteManifests: %v", err)
	}
	touch(t, filepath.Join(out, filepath.FromSlash(records[0].Audio)))

	rep, err := Validate(out, DefaultCheckLimit)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rep.OK() {
		t.Fatal("expected report with missing audio")
	}
	if rep.Rows != 3 || rep.Checked != 3 || len(rep.MissingAudio) != 2 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if rep.SplitCounts[SplitTrain] != 2 || rep.SplitCounts[SplitTest] != 1 {
		t.Fatalf("split counts = %v", rep.SplitCounts)
	}

	rep, err = Validate(out, 1)
	if err != nil {
		t.Fatalf("Validate(limit 1): %v", err)
	}
	if !rep.OK() || rep.Checked != 1 {
		t.Fatalf("limit 1 report %+v", rep)
	}
}

func TestValidateMissingColumns(t *testing.T) {
	out := t.TempDir()
	path := filepath.Join(out, MetadataDir, ManifestName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("audio,split\nx.wav,train\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rep, err := Validate(out, DefaultCheckLimit)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rep.OK() || len(rep.MissingColumns) != 7 {
		t.Fatalf("unexpected report %+v", rep)
	}
}

func TestValidateMissingManifest(t *testing.T) {
	if _, err := Validate(t.TempDir(), DefaultCheckLimit); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
