package thumbs

import (
	"testing"

	"github.com/romshelf/romshelf/pkg/romname"
)

func localName(t *testing.T, filename string) romname.ParsedName {
	t.Helper()
	p, err := romname.ParseFilename(filename)
	if err != nil {
		t.Fatalf("ParseFilename(%q): %v", filename, err)
	}
	return p
}

func TestMatchExact(t *testing.T) {
	got := Match(localName(t, "Tetris (World).gb"), []string{
		"Tetris (Japan)",
		"Tetris (World)",
		"Tetris 2 (World)",
	})
	if got.Tier != TierExact || got.Candidate != "Tetris (World)" {
		t.Fatalf("got %+v, want exact Tetris (World)", got)
	}
}

func TestMatchExactIsCaseInsensitive(t *testing.T) {
	got := Match(localName(t, "TETRIS (WORLD).GB"), []string{"tetris (world)"})
	if got.Tier != TierExact {
		t.Fatalf("got %+v, want exact", got)
	}
}

func TestMatchBaseName(t *testing.T) {
	// Local has no tags, candidate does: base titles still agree.
	got := Match(localName(t, "Blade.chd"), []string{
		"Blade Runner (USA)",
		"Blade (USA)",
	})
	if got.Tier != TierBaseName || got.Candidate != "Blade (USA)" {
		t.Fatalf("got %+v, want basename Blade (USA)", got)
	}
}

func TestMatchBaseNameBeatsCase(t *testing.T) {
	got := Match(localName(t, "TETRIS.GB"), []string{"tetris (world)"})
	if got.Tier == TierNone || got.Tier > TierBaseName {
		t.Fatalf("got %+v, want BaseName or better", got)
	}
}

func TestMatchDivergentTagSetsFallToBaseName(t *testing.T) {
	got := Match(localName(t, "Pokemon Red Version (USA).gb"), []string{
		"Pokemon Red Version (USA, Europe)",
	})
	if got.Tier != TierBaseName {
		t.Fatalf("got %+v, want basename (tag sets differ)", got)
	}
}

func TestMatchNormalized(t *testing.T) {
	// Punctuation differs, letters and digits agree, tags included.
	got := Match(localName(t, "Super Mario Bros. 3 (USA).nes"), []string{
		"Super Mario Bros 3 (USA)",
	})
	if got.Tier == TierNone || got.Tier > TierNormalized {
		t.Fatalf("got %+v, want Normalized or better", got)
	}
}

func TestMatchBaseNormalized(t *testing.T) {
	// Full normalized forms differ (different tags), base titles differ in
	// punctuation only: tier 4 is the first to hit.
	got := Match(localName(t, "Super Mario Bros. 3 (USA).nes"), []string{
		"Super Mario Bros 3 (World)",
	})
	if got.Tier != TierBaseNormalized {
		t.Fatalf("got %+v, want base-normalized", got)
	}
}

func TestMatchPartial(t *testing.T) {
	got := Match(localName(t, "Street Fighter II.sfc"), []string{
		"Mega Man X (USA)",
		"Street Fighter II Turbo (USA)",
	})
	if got.Tier != TierPartial || got.Candidate != "Street Fighter II Turbo (USA)" {
		t.Fatalf("got %+v, want partial Street Fighter II Turbo (USA)", got)
	}
}

func TestMatchPartialPrefersLongerOverlap(t *testing.T) {
	// Both candidates contain the local title; the one that shares more
	// characters with it should win regardless of listing order.
	got := Match(localName(t, "Street Fighter II Turbo.sfc"), []string{
		"Street Fighter (USA)",
		"Street Fighter II (USA)",
	})
	if got.Tier != TierPartial || got.Candidate != "Street Fighter II (USA)" {
		t.Fatalf("got %+v, want Street Fighter II (USA)", got)
	}
}

func TestMatchPartialTieBreaksOnListingOrder(t *testing.T) {
	got := Match(localName(t, "Sonic.md"), []string{
		"Sonic 1 (USA)",
		"Sonic 2 (USA)",
	})
	if got.Tier != TierPartial || got.Candidate != "Sonic 1 (USA)" {
		t.Fatalf("got %+v, want first qualifying candidate", got)
	}
}

func TestMatchTierOrdering(t *testing.T) {
	// Exact and partial candidates both present: the exact one must win.
	got := Match(localName(t, "Tetris (World).gb"), []string{
		"Tetris (World) Special Edition",
		"Tetris (World)",
	})
	if got.Tier != TierExact || got.Candidate != "Tetris (World)" {
		t.Fatalf("got %+v, want exact over partial", got)
	}
}

func TestMatchNone(t *testing.T) {
	got := Match(localName(t, "Obscure Homebrew.gb"), []string{
		"Tetris (World)",
		"Super Mario Land (World)",
	})
	if got.Tier != TierNone || got.Candidate != "" {
		t.Fatalf("got %+v, want no match", got)
	}
}

func TestMatchEmptyListing(t *testing.T) {
	got := Match(localName(t, "Tetris.gb"), nil)
	if got.Tier != TierNone {
		t.Fatalf("got %+v, want no match", got)
	}
}

func TestMatchFirstCandidateWinsWithinTier(t *testing.T) {
	got := Match(localName(t, "Tetris.gb"), []string{
		"Tetris (World)",
		"Tetris (Japan)",
	})
	if got.Tier != TierBaseName || got.Candidate != "Tetris (World)" {
		t.Fatalf("got %+v, want first candidate in listing order", got)
	}
}

func TestTierString(t *testing.T) {
	tests := map[Tier]string{
		TierNone:           "none",
		TierExact:          "exact",
		TierBaseName:       "basename",
		TierNormalized:     "normalized",
		TierBaseNormalized: "base-normalized",
		TierPartial:        "partial",
	}
	for tier, want := range tests {
		if got := tier.String(); got != want {
			t.Errorf("Tier(%d).String() = %q, want %q", tier, got, want)
		}
	}
}
