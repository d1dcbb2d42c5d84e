package corpus

import (
	"errors"
	"fmt"
	"testing"
)

func sources(prefix string, n int) []Source {
	out := make([]Source, n)
	for i := range out {
		id := fmt.Sprintf("%s%d", prefix, i)
		out[i] = Source{Path: "/in/" + id + ".wav", ID: id}
	}
	return out
}

func TestPlanRespectsCaps(t *testing.T) {
	tests := []struct {
		name        string
		clean       int
		total       int
		maxVariants int
		want        int
	}{
		{name: "global cap", clean: 3, total: 5, maxVariants: 2, want: 5},
		{name: "variant cap", clean: 3, total: 100, maxVariants: 2, want: 6},
		{name: "zero total", clean: 3, total: 0, maxVariants: 2, want: 0},
		{name: "zero variants", clean: 3, total: 10, maxVariants: 0, want: 0},
		{name: "exact", clean: 4, total: 8, maxVariants: 2, want: 8},
	}
	for _, tt := range tests {
		plan, err := Plan(sources("c", tt.clean), sources("r", 2), PlanOptions{
			TotalOutputs:        tt.total,
			MaxVariantsPerClean: tt.maxVariants,
			ShardSize:           1000,
		})
		if err != nil {
			t.Fatalf("%s: Plan: %v", tt.name, err)
		}
		if len(plan) != tt.want {
			t.Fatalf("%s: len(plan) = %d, want %d", tt.name, len(plan), tt.want)
		}
	}
}

func TestPlanFiveOfSix(t *testing.T) {
	plan, err := Plan(sources("c", 3), sources("r", 2), PlanOptions{
		TotalOutputs:        5,
		MaxVariantsPerClean: 2,
		ShardSize:           1000,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	wantClean := []int{0, 0, 1, 1, 2}
	wantRIR := []int{0, 1, 0, 1, 0}
	for i, p := range plan {
		if p.Index != i {
			t.Fatalf("plan[%d].Index = %d", i, p.Index)
		}
		if p.Clean != wantClean[i] || p.RIR != wantRIR[i] {
			t.Fatalf("plan[%d] = clean %d rir %d, want clean %d rir %d", i, p.Clean, p.RIR, wantClean[i], wantRIR[i])
		}
	}
	want := "audio/shard_000/c2__r0__000004.wav"
	if plan[4].Audio != want {
		t.Fatalf("audio path = %q, want %q", plan[4].Audio, want)
	}
}

func TestPlanRIRCursorIsGlobal(t *testing.T) {
	// Three RIRs and two variants per clean: the cursor keeps running
	// across clean files instead of restarting at zero.
	plan, err := Plan(sources("c", 3), sources("r", 3), PlanOptions{
		TotalOutputs:        100,
		MaxVariantsPerClean: 2,
		ShardSize:           10,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := []int{0, 1, 2, 0, 1, 2}
	for i, p := range plan {
		if p.RIR != want[i] {
			t.Fatalf("plan[%d].RIR = %d, want %d", i, p.RIR, want[i])
		}
	}
}

func TestPlanShardIndices(t *testing.T) {
	plan, err := Plan(sources("c", 7), sources("r", 2), PlanOptions{
		TotalOutputs:        7,
		MaxVariantsPerClean: 1,
		ShardSize:           3,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := []int{0, 0, 0, 1, 1, 1, 2}
	if len(plan) != len(want) {
		t.Fatalf("len(plan) = %d", len(plan))
	}
	for i, p := range plan {
		if p.Shard != want[i] {
			t.Fatalf("plan[%d].Shard = %d, want %d", i, p.Shard, want[i])
		}
	}
	if ShardCount(plan) != 3 {
		t.Fatalf("ShardCount = %d, want 3", ShardCount(plan))
	}
	if plan[6].Audio != "audio/shard_002/c6__r0__000006.wav" {
		t.Fatalf("unexpected audio path %q", plan[6].Audio)
	}
}

func TestPlanUniqueAudioPaths(t *testing.T) {
	clean := sources("c", 40)
	clean = append(clean, Source{Path: "/other/c0.flac", ID: "c0"})
	plan, err := Plan(clean, sources("r", 7), PlanOptions{
		TotalOutputs:        1000,
		MaxVariantsPerClean: 5,
		ShardSize:           17,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	seen := map[string]bool{}
	for _, p := range plan {
		if seen[p.Audio] {
			t.Fatalf("duplicate audio path %q", p.Audio)
		}
		seen[p.Audio] = true
	}
}

func TestPlanSplitFollowsCleanID(t *testing.T) {
	plan, err := Plan(sources("c", 10), sources("r", 3), PlanOptions{
		TotalOutputs:        100,
		MaxVariantsPerClean: 3,
		ShardSize:           5,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for _, p := range plan {
		if p.Split != AssignSplit(p.CleanID) {
			t.Fatalf("pairing %d split %s, want %s", p.Index, p.Split, AssignSplit(p.CleanID))
		}
	}
}

func TestPlanFatalInputs(t *testing.T) {
	opts := PlanOptions{TotalOutputs: 1, MaxVariantsPerClean: 1, ShardSize: 1}
	if _, err := Plan(nil, sources("r", 1), opts); !errors.Is(err, ErrNoCleanFiles) {
		t.Fatalf("expected ErrNoCleanFiles, got %v", err)
	}
	if _, err := Plan(sources("c", 1), nil, opts); !errors.Is(err, ErrNoRIRFiles) {
		t.Fatalf("expected ErrNoRIRFiles, got %v", err)
	}
	opts.ShardSize = 0
	if _, err := Plan(sources("c", 1), sources("r", 1), opts); err == nil {
		t.Fatal("expected error for zero shard size")
	}
}
