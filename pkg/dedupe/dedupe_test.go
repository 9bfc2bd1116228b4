package dedupe

import (
	"testing"

	"github.com/romshelf/romshelf/pkg/romname"
)

func mustParse(t *testing.T, filename string) romname.ParsedName {
	t.Helper()
	p, err := romname.ParseFilename(filename)
	if err != nil {
		t.Fatalf("ParseFilename(%q): %v", filename, err)
	}
	return p
}

func TestBuildKeyIgnoresPrefixAndExtension(t *testing.T) {
	a := BuildKey("gb", mustParse(t, "Game (USA).bin"))
	b := BuildKey("gb", mustParse(t, "001 Game (USA).zip"))
	if a != b {
		t.Errorf("keys differ: %+v vs %+v", a, b)
	}
}

func TestBuildKeyCaseFolds(t *testing.T) {
	a := BuildKey("GB", mustParse(t, "GAME (usa).bin"))
	b := BuildKey("gb", mustParse(t, "game (USA).bin"))
	if a != b {
		t.Errorf("keys differ: %+v vs %+v", a, b)
	}
}

func TestBuildKeyTagSetIsOrderIndependent(t *testing.T) {
	a := BuildKey("snes", mustParse(t, "Game (USA) (Rev 1).sfc"))
	b := BuildKey("snes", mustParse(t, "Game (Rev 1) (USA).sfc"))
	if a != b {
		t.Errorf("tag order changed identity: %+v vs %+v", a, b)
	}
}

func TestBuildKeyDistinguishesTags(t *testing.T) {
	base := BuildKey("gb", mustParse(t, "Game (USA).bin"))
	tests := []string{
		"Game (Europe).bin",
		"Game (USA) (Rev 1).bin",
		"Game (USA, Europe).bin",
		"Game.bin",
	}
	for _, other := range tests {
		if k := BuildKey("gb", mustParse(t, other)); k == base {
			t.Errorf("%q collided with Game (USA)", other)
		}
	}
}

func TestBuildKeyDistinguishesSystems(t *testing.T) {
	a := BuildKey("gb", mustParse(t, "Tetris.gb"))
	b := BuildKey("nes", mustParse(t, "Tetris.nes"))
	if a == b {
		t.Error("same key across systems")
	}
}

func TestIndexFirstWins(t *testing.T) {
	ix := NewIndex()
	first := BuildKey("snes", mustParse(t, "Game (USA).bin"))
	second := BuildKey("snes", mustParse(t, "001 Game (USA).bin"))

	if !ix.TryAccept(first) {
		t.Fatal("first file rejected")
	}
	if ix.TryAccept(second) {
		t.Fatal("prefixed duplicate accepted")
	}
	if ix.Len() != 1 {
		t.Fatalf("Len = %d, want 1", ix.Len())
	}
}

func TestIndexKeepsRegionVariants(t *testing.T) {
	ix := NewIndex()
	files := []string{
		"Game (USA).bin",
		"Game (Europe).bin",
		"Game (USA) (Rev 1).bin",
	}
	for _, f := range files {
		if !ix.TryAccept(BuildKey("md", mustParse(t, f))) {
			t.Errorf("%q rejected, want accepted", f)
		}
	}
	if ix.Len() != 3 {
		t.Fatalf("Len = %d, want 3", ix.Len())
	}
}

func TestTagSetCollapsesDuplicates(t *testing.T) {
	p := romname.ParsedName{BaseTitle: "Game", Tags: []string{"USA", "usa", " USA "}}
	k := BuildKey("gb", p)
	if k.Tags != "usa" {
		t.Errorf("Tags = %q, want %q", k.Tags, "usa")
	}
}
