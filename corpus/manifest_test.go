package corpus

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleRecords() []Record {
	nan := math.NaN()
	return []Record{
		{Audio: "audio/shard_000/a__r1__000000.wav", RT60: 0.5, DRR: 3.25, C50: 12, LUFS: -23.5, DurationS: 1.25, CleanID: "a", RIRID: "r1", Split: SplitTrain},
		{Audio: "audio/shard_000/a__r2__000001.wav", RT60: nan, DRR: nan, C50: -1.5e-05, LUFS: math.Inf(-1), DurationS: 2, CleanID: "a", RIRID: "r2", Split: SplitTrain},
		{Audio: "audio/shard_001/b__r1__000002.wav", RT60: 0.25, DRR: 1, C50: 2, LUFS: nan, DurationS: nan, CleanID: "b", RIRID: "r1", Split: SplitTest},
	}
}

func TestWriteManifestsFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "metadata")
	if err := WriteManifests(dir, sampleRecords()); err != nil {
		t.Fatalf("WriteManifests: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	want := strings.Join([]string{
		"audio,rt60,drr,c50,lufs,duration_s,clean_id,rir_id,split",
		"audio/shard_000/a__r1__000000.wav,0.5,3.25,12.0,-23.5,1.25,a,r1,train",
		"audio/shard_000/a__r2__000001.wav,,,-1.5e-05,-inf,2.0,a,r2,train",
		"audio/shard_001/b__r1__000002.wav,0.25,1.0,2.0,,,b,r1,test",
		"",
	}, "\n")
	if string(got) != want {
		t.Fatalf("manifest mismatch:\n%s\nwant:\n%s", got, want)
	}

	wantRows := map[Split]int{SplitTrain: 2, SplitDev: 0, SplitTest: 1}
	for split, n := range wantRows {
		b, err := os.ReadFile(filepath.Join(dir, string(split)+".csv"))
		if err != nil {
			t.Fatalf("read %s.csv: %v", split, err)
		}
		lines := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
		if lines[0] != strings.Join(ManifestColumns, ",") {
			t.Fatalf("%s.csv header = %q", split, lines[0])
		}
		if len(lines)-1 != n {
			t.Fatalf("%s.csv rows = %d, want %d", split, len(lines)-1, n)
		}
	}
}

func TestReadManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := sampleRecords()
	if err := WriteManifests(dir, in); err != nil {
		t.Fatalf("WriteManifests: %v", err)
	}
	f, err := os.Open(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	out, missing, err := ReadManifest(f)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("unexpected missing columns: %v", missing)
	}
	if len(out) != len(in) {
		t.Fatalf("read %d records, want %d", len(out), len(in))
	}
	same := func(a, b float64) bool { return a == b || (math.IsNaN(a) && math.IsNaN(b)) }
	for i := range in {
		a, b := in[i], out[i]
		if a.Audio != b.Audio || a.CleanID != b.CleanID || a.RIRID != b.RIRID || a.Split != b.Split {
			t.Fatalf("record %d strings differ: %+v vs %+v", i, a, b)
		}
		if !same(a.RT60, b.RT60) || !same(a.DRR, b.DRR) || !same(a.C50, b.C50) || !same(a.LUFS, b.LUFS) || !same(a.DurationS, b.DurationS) {
			t.Fatalf("record %d floats differ: %+v vs %+v", i, a, b)
		}
	}
}

func TestReadManifestMissingColumns(t *testing.T) {
	_, missing, err := ReadManifest(strings.NewReader("audio,rt60,split\nx.wav,1.0,train\n"))
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	want := []string{"drr", "c50", "lufs", "duration_s", "clean_id", "rir_id"}
	if strings.Join(missing, ",") != strings.Join(want, ",") {
		t.Fatalf("missing = %v, want %v", missing, want)
	}

	_, missing, err = ReadManifest(strings.NewReader(""))
	if err != nil || len(missing) != len(ManifestColumns) {
		t.Fatalf("empty manifest: missing=%v err=%v", missing, err)
	}
}

func TestWriteRIRMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m", RIRMetricsName)
	rirs := []RIR{
		{Source: Source{Path: "/rirs/r1.wav", ID: "r1"}},
		{Source: Source{Path: "/rirs/r2.wav", ID: "r2"}},
	}
	rirs[0].Metrics.RT60, rirs[0].Metrics.DRR, rirs[0].Metrics.C50 = 0.5, 2, 10
	rirs[1].Metrics.RT60, rirs[1].Metrics.DRR, rirs[1].Metrics.C50 = math.NaN(), 4.5, math.NaN()
	if err := WriteRIRMetrics(path, rirs); err != nil {
		t.Fatalf("WriteRIRMetrics: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "rir_id,path,rt60,drr,c50\nr1,/rirs/r1.wav,0.5,2.0,10.0\nr2,/rirs/r2.wav,,4.5,\n"
	if string(got) != want {
		t.Fatalf("rir metrics:\n%s\nwant:\n%s", got, want)
	}
}

func TestSplitCountsIncludesEmptySplits(t *testing.T) {
	counts := SplitCounts(sampleRecords())
	if counts[SplitTrain] != 2 || counts[SplitDev] != 0 || counts[SplitTest] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if _, ok := counts[SplitDev]; !ok {
		t.Fatal("dev split missing from counts")
	}
}
