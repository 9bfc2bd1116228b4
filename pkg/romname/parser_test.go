package romname

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		in        string
		base      string
		tags      []string
		prefix    int
		hasPrefix bool
	}{
		{"Go Go Ackman.zip", "Go Go Ackman", nil, 0, false},
		{"005 Go Go Ackman.zip", "Go Go Ackman", nil, 5, true},
		{"049 Shining the Holy Ark (USA).bin", "Shining the Holy Ark", []string{"USA"}, 49, true},
		{"Bomberman Wars (Japan).bin", "Bomberman Wars", []string{"Japan"}, 0, false},
		{"Game (USA) (Rev 1).zip", "Game", []string{"USA", "Rev 1"}, 0, false},
		{"Title (Japan) (Disc 1) (Proto).bin", "Title", []string{"Japan", "Disc 1", "Proto"}, 0, false},
		{"Pokemon Red Version (USA, Europe).gb", "Pokemon Red Version", []string{"USA, Europe"}, 0, false},
		{"3DConstructionKit.lha", "3DConstructionKit", nil, 0, false},
		{"001 3DConstructionKit (USA).lha", "3DConstructionKit", []string{"USA"}, 1, true},
		// No whitespace after the digits: not a prefix.
		{"1942.zip", "1942", nil, 0, false},
		// Square brackets are ordinary text, not tags.
		{"Game [!].nes", "Game [!]", nil, 0, false},
		{"Game [T+Eng] (USA).smc", "Game [T+Eng]", []string{"USA"}, 0, false},
		{"  Spaced Out  .gb", "Spaced Out", nil, 0, false},
	}

	for _, tt := range tests {
		got, err := ParseFilename(tt.in)
		if err != nil {
			t.Fatalf("ParseFilename(%q): %v", tt.in, err)
		}
		if got.BaseTitle != tt.base {
			t.Errorf("ParseFilename(%q).BaseTitle = %q, want %q", tt.in, got.BaseTitle, tt.base)
		}
		if !reflect.DeepEqual(got.Tags, tt.tags) {
			t.Errorf("ParseFilename(%q).Tags = %#v, want %#v", tt.in, got.Tags, tt.tags)
		}
		if got.HasPrefix != tt.hasPrefix || got.Prefix != tt.prefix {
			t.Errorf("ParseFilename(%q) prefix = (%d,%v), want (%d,%v)",
				tt.in, got.Prefix, got.HasPrefix, tt.prefix, tt.hasPrefix)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", ".gb"} {
		if _, err := ParseFilename(in); !errors.Is(err, ErrEmptyName) {
			t.Errorf("ParseFilename(%q) error = %v, want ErrEmptyName", in, err)
		}
	}
}

// Re-parsing a base title must be a fixed point: no prefix, no tags, same
// title. This is what lets both consumers agree on identity.
func TestParseIdempotent(t *testing.T) {
	inputs := []string{
		"005 Go Go Ackman.zip",
		"049 Shining the Holy Ark (USA).bin",
		"Legend of Zelda, The - A Link to the Past (USA, Europe) (Rev 1).sfc",
		"1942.zip",
		"Dr. Mario (World).nes",
	}
	for _, in := range inputs {
		first, err := ParseFilename(in)
		if err != nil {
			t.Fatalf("ParseFilename(%q): %v", in, err)
		}
		second, err := Parse(first.BaseTitle)
		if err != nil {
			t.Fatalf("Parse(%q): %v", first.BaseTitle, err)
		}
		if second.BaseTitle != first.BaseTitle {
			t.Errorf("re-parse of %q changed base title: %q", first.BaseTitle, second.BaseTitle)
		}
		if len(second.Tags) != 0 || second.HasPrefix {
			t.Errorf("re-parse of %q found prefix/tags: %+v", first.BaseTitle, second)
		}
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"005 Go Go Ackman.zip", "Go Go Ackman"},
		{"049 Shining the Holy Ark (USA).bin", "Shining the Holy Ark (USA)"},
		{"Bomberman Wars (Japan).bin", "Bomberman Wars (Japan)"},
		{"1942.zip", "1942"},
	}
	for _, tt := range tests {
		p, err := ParseFilename(tt.in)
		if err != nil {
			t.Fatalf("ParseFilename(%q): %v", tt.in, err)
		}
		if got := p.Clean(); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
