package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "catalog.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertRomIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		err := db.UpsertRom(ctx, "gb", "tetris|world", "tetris", "world", "Tetris (World).gb", "/lib/gb/Tetris (World).gb", 1)
		if err != nil {
			t.Fatal(err)
		}
	}

	roms, err := db.ListRoms(ctx, ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(roms) != 1 {
		t.Fatalf("roms = %d, want 1", len(roms))
	}
	if roms[0].System != "gb" || roms[0].Identity != "tetris|world" {
		t.Fatalf("rom = %+v", roms[0])
	}
}

func TestListRomsFiltersBySystem(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.UpsertRom(ctx, "gb", "tetris", "tetris", "", "Tetris.gb", "", 1); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertRom(ctx, "snes", "game|usa", "game", "usa", "Game (USA).sfc", "", 1); err != nil {
		t.Fatal(err)
	}

	roms, err := db.ListRoms(ctx, ListOptions{System: "gb"})
	if err != nil {
		t.Fatal(err)
	}
	if len(roms) != 1 || roms[0].System != "gb" {
		t.Fatalf("roms = %+v", roms)
	}
}

func TestUpsertMatchReplacesEarlier(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.UpsertMatch(ctx, "gb", "Tetris (World)", "Tetris (Japan)", "basename", "boxart"); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertMatch(ctx, "gb", "Tetris (World)", "Tetris (World)", "exact", "boxart"); err != nil {
		t.Fatal(err)
	}

	matches, err := db.ListMatches(ctx, ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
	if matches[0].Candidate != "Tetris (World)" || matches[0].Tier != "exact" {
		t.Fatalf("match = %+v", matches[0])
	}
}

func TestRunLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	runID, err := db.BeginRun(ctx, "consolidate")
	if err != nil {
		t.Fatal(err)
	}
	if runID == 0 {
		t.Fatal("runID = 0, want a real id")
	}

	runs, err := db.ListRuns(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Kind != "consolidate" {
		t.Fatalf("runs = %+v", runs)
	}
	if runs[0].FinishedAt != "" {
		t.Fatalf("FinishedAt = %q, want empty before FinishRun", runs[0].FinishedAt)
	}

	if err := db.FinishRun(ctx, runID, 10, 3, 1); err != nil {
		t.Fatal(err)
	}
	runs, err = db.ListRuns(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	r := runs[0]
	if r.Accepted != 10 || r.Skipped != 3 || r.Errors != 1 {
		t.Fatalf("run = %+v", r)
	}
	if r.FinishedAt == "" {
		t.Fatal("FinishedAt empty after FinishRun")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, kind := range []string{"consolidate", "thumbnails"} {
		if _, err := db.BeginRun(ctx, kind); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := db.ListRuns(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Kind != "thumbnails" {
		t.Fatalf("runs = %+v, want the latest run only", runs)
	}
}

func TestUpsertRomStampsLatestRun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first, err := db.BeginRun(ctx, "consolidate")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertRom(ctx, "gb", "tetris", "tetris", "", "Tetris.gb", "", first); err != nil {
		t.Fatal(err)
	}

	second, err := db.BeginRun(ctx, "consolidate")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertRom(ctx, "gb", "tetris", "tetris", "", "Tetris.gb", "", second); err != nil {
		t.Fatal(err)
	}

	roms, err := db.ListRoms(ctx, ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(roms) != 1 {
		t.Fatalf("roms = %d, want 1", len(roms))
	}
	if roms[0].RunID != second {
		t.Fatalf("RunID = %d, want %d (latest run)", roms[0].RunID, second)
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	seed := []struct{ system, identity string }{
		{"gb", "tetris"},
		{"gb", "kirby"},
		{"snes", "game|usa"},
	}
	for _, s := range seed {
		if err := db.UpsertRom(ctx, s.system, s.identity, s.identity, "", s.identity+".bin", "", 1); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.UpsertMatch(ctx, "gb", "Tetris", "Tetris (World)", "basename", "boxart"); err != nil {
		t.Fatal(err)
	}

	stats, err := db.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRoms != 3 || stats.RomsBySystem["gb"] != 2 || stats.RomsBySystem["snes"] != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.TotalMatches != 1 || stats.MatchesByTier["basename"] != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}
