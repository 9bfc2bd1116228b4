package systems

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownSystem is returned when a shorthand cannot be resolved against
// the registry.
var ErrUnknownSystem = errors.New("unknown system")

// System describes one known platform. Libretro is the repository name on
// the libretro-thumbnails server ("Nintendo_-_Game_Boy"); empty when no
// thumbnail collection exists for the platform.
type System struct {
	Key      string
	FullName string
	Libretro string
}

// registry maps shorthand system codes, as they appear as folder names in
// ROM sets, to their descriptive names and thumbnail repositories. Shorthand
// conventions vary between sets, so common aliases are listed too.
var registry = map[string]System{
	"3do":           {FullName: "Panasonic 3DO Interactive Multiplayer", Libretro: "The_3DO_Company_-_3DO"},
	"amiga500":      {FullName: "Commodore Amiga 500", Libretro: "Commodore_-_Amiga"},
	"amiga1200":     {FullName: "Commodore Amiga 1200", Libretro: "Commodore_-_Amiga"},
	"amigacd32":     {FullName: "Commodore Amiga CD32", Libretro: "Commodore_-_CD32"},
	"amstradcpc":    {FullName: "Amstrad CPC", Libretro: "Amstrad_-_CPC"},
	"arcade":        {FullName: "Arcade (various)", Libretro: "MAME"},
	"atari800":      {FullName: "Atari 8-bit (400/800/XL/XE)", Libretro: "Atari_-_8-bit"},
	"atari2600":     {FullName: "Atari 2600", Libretro: "Atari_-_2600"},
	"atari5200":     {FullName: "Atari 5200", Libretro: "Atari_-_5200"},
	"atari7800":     {FullName: "Atari 7800", Libretro: "Atari_-_7800"},
	"atarist":       {FullName: "Atari ST", Libretro: "Atari_-_ST"},
	"c64":           {FullName: "Commodore 64", Libretro: "Commodore_-_64"},
	"c128":          {FullName: "Commodore 128", Libretro: "Commodore_-_128"},
	"cdi":           {FullName: "Philips CD-i", Libretro: "Philips_-_CD-i"},
	"colecovision":  {FullName: "ColecoVision", Libretro: "Coleco_-_ColecoVision"},
	"cps1":          {FullName: "Capcom CPS-1 (arcade)", Libretro: "MAME"},
	"cps2":          {FullName: "Capcom CPS-2 (arcade)", Libretro: "MAME"},
	"cps3":          {FullName: "Capcom CPS-3 (arcade)", Libretro: "MAME"},
	"dos":           {FullName: "MS-DOS/PC (various ports)", Libretro: "DOS"},
	"dreamcast":     {FullName: "Sega Dreamcast", Libretro: "Sega_-_Dreamcast"},
	"fbneo":         {FullName: "FinalBurn Neo (arcade)", Libretro: "FBNeo_-_Arcade_Games"},
	"fds":           {FullName: "Nintendo Famicom Disk System", Libretro: "Nintendo_-_Family_Computer_Disk_System"},
	"gamegear":      {FullName: "Sega Game Gear", Libretro: "Sega_-_Game_Gear"},
	"gameandwatch":  {FullName: "Nintendo Game & Watch", Libretro: "Handheld_Electronic_Game"},
	"gb":            {FullName: "Nintendo Game Boy", Libretro: "Nintendo_-_Game_Boy"},
	"gba":           {FullName: "Nintendo Game Boy Advance", Libretro: "Nintendo_-_Game_Boy_Advance"},
	"gbc":           {FullName: "Nintendo Game Boy Color", Libretro: "Nintendo_-_Game_Boy_Color"},
	"genesis":       {FullName: "Sega Genesis/Mega Drive", Libretro: "Sega_-_Mega_Drive_-_Genesis"},
	"intellivision": {FullName: "Mattel Intellivision", Libretro: "Mattel_-_Intellivision"},
	"jaguar":        {FullName: "Atari Jaguar", Libretro: "Atari_-_Jaguar"},
	"lynx":          {FullName: "Atari Lynx", Libretro: "Atari_-_Lynx"},
	"mame":          {FullName: "MAME (arcade)", Libretro: "MAME"},
	"mastersystem":  {FullName: "Sega Master System", Libretro: "Sega_-_Master_System_-_Mark_III"},
	"megadrive":     {FullName: "Sega Mega Drive (Genesis)", Libretro: "Sega_-_Mega_Drive_-_Genesis"},
	"msx1":          {FullName: "MSX1", Libretro: "Microsoft_-_MSX"},
	"msx2":          {FullName: "MSX2", Libretro: "Microsoft_-_MSX2"},
	"n64":           {FullName: "Nintendo 64", Libretro: "Nintendo_-_Nintendo_64"},
	"nds":           {FullName: "Nintendo DS", Libretro: "Nintendo_-_Nintendo_DS"},
	"neogeo":        {FullName: "SNK Neo Geo AES/MVS", Libretro: "SNK_-_Neo_Geo"},
	"neogeocd":      {FullName: "SNK Neo Geo CD", Libretro: "SNK_-_Neo_Geo_CD"},
	"nes":           {FullName: "Nintendo Entertainment System", Libretro: "Nintendo_-_Nintendo_Entertainment_System"},
	"ngp":           {FullName: "SNK Neo Geo Pocket", Libretro: "SNK_-_Neo_Geo_Pocket"},
	"ngpc":          {FullName: "SNK Neo Geo Pocket Color", Libretro: "SNK_-_Neo_Geo_Pocket_Color"},
	"pcengine":      {FullName: "NEC PC Engine / TurboGrafx-16", Libretro: "NEC_-_PC_Engine_-_TurboGrafx_16"},
	"pcenginecd":    {FullName: "NEC PC Engine CD / TurboGrafx-CD", Libretro: "NEC_-_PC_Engine_CD_-_TurboGrafx-CD"},
	"pokemini":      {FullName: "Pokemon Mini", Libretro: "Nintendo_-_Pokemon_Mini"},
	"ports":         {FullName: "Various game ports"},
	"psp":           {FullName: "Sony PlayStation Portable", Libretro: "Sony_-_PlayStation_Portable"},
	"psx":           {FullName: "Sony PlayStation", Libretro: "Sony_-_PlayStation"},
	"ps1":           {FullName: "Sony PlayStation", Libretro: "Sony_-_PlayStation"}, // alias for psx
	"satellaview":   {FullName: "Nintendo Satellaview (BS-X)", Libretro: "Nintendo_-_Satellaview"},
	"saturn":        {FullName: "Sega Saturn", Libretro: "Sega_-_Saturn"},
	"scummvm":       {FullName: "ScummVM (adventure games)", Libretro: "ScummVM"},
	"sega32x":       {FullName: "Sega 32X", Libretro: "Sega_-_32X"},
	"segacd":        {FullName: "Sega CD", Libretro: "Sega_-_Mega-CD_-_Sega_CD"},
	"sfc":           {FullName: "Super Famicom (SNES Japan)", Libretro: "Nintendo_-_Super_Nintendo_Entertainment_System"},
	"sg1000":        {FullName: "Sega SG-1000", Libretro: "Sega_-_SG-1000"},
	"snes":          {FullName: "Super Nintendo Entertainment System", Libretro: "Nintendo_-_Super_Nintendo_Entertainment_System"},
	"supergrafx":    {FullName: "NEC SuperGrafx", Libretro: "NEC_-_PC_Engine_SuperGrafx"},
	"supervision":   {FullName: "Supervision handheld", Libretro: "Watara_-_Supervision"},
	"tg16":          {FullName: "NEC TurboGrafx-16", Libretro: "NEC_-_PC_Engine_-_TurboGrafx_16"},
	"vectrex":       {FullName: "GCE Vectrex", Libretro: "GCE_-_Vectrex"},
	"virtualboy":    {FullName: "Nintendo Virtual Boy", Libretro: "Nintendo_-_Virtual_Boy"},
	"wswan":         {FullName: "Bandai WonderSwan", Libretro: "Bandai_-_WonderSwan"},
	"wswanc":        {FullName: "WonderSwan Color", Libretro: "Bandai_-_WonderSwan_Color"},
	"x68000":        {FullName: "Sharp X68000", Libretro: "Sharp_-_X68000"},
	"zx81":          {FullName: "Sinclair ZX81", Libretro: "Sinclair_-_ZX_81"},
	"zxspectrum":    {FullName: "Sinclair ZX Spectrum", Libretro: "Sinclair_-_ZX_Spectrum"},
	// Uppercase shorthands used by some ROM sets.
	"FC": {FullName: "Nintendo Famicom / NES", Libretro: "Nintendo_-_Nintendo_Entertainment_System"},
	"GG": {FullName: "Sega Game Gear", Libretro: "Sega_-_Game_Gear"},
	"GW": {FullName: "Nintendo Game & Watch", Libretro: "Handheld_Electronic_Game"},
	"MD": {FullName: "Sega Mega Drive / Genesis", Libretro: "Sega_-_Mega_Drive_-_Genesis"},
	"MS": {FullName: "Sega Master System", Libretro: "Sega_-_Master_System_-_Mark_III"},
	"PS": {FullName: "Sony PlayStation", Libretro: "Sony_-_PlayStation"},
	"SS": {FullName: "Sega Saturn", Libretro: "Sega_-_Saturn"},
	"WS": {FullName: "Bandai WonderSwan", Libretro: "Bandai_-_WonderSwan"},
}

// sortedKeys caches registry keys longest-first for the contains-match pass.
var sortedKeys = func() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Resolve finds the system for a folder name. Matching priority:
//  1. exact key match
//  2. case-insensitive key match
//  3. contains match ("Nintendo - N64" contains "n64"); keys shorter than
//     three characters are skipped here to avoid false positives, and longer
//     keys are tried first so "mastersystem" wins over "master".
func Resolve(key string) (System, error) {
	if s, ok := registry[key]; ok {
		s.Key = key
		return s, nil
	}

	lower := strings.ToLower(key)
	for k, s := range registry {
		if strings.ToLower(k) == lower {
			s.Key = k
			return s, nil
		}
	}

	compact := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(lower)
	for _, k := range sortedKeys {
		if len(k) <= 2 {
			continue
		}
		kl := strings.ToLower(k)
		if strings.Contains(lower, kl) || strings.Contains(compact, kl) {
			s := registry[k]
			s.Key = k
			return s, nil
		}
	}

	return System{}, fmt.Errorf("resolve %q: %w", key, ErrUnknownSystem)
}

// IsKnown reports whether a folder name resolves to a registered system.
func IsKnown(key string) bool {
	_, err := Resolve(key)
	return err == nil
}

// OutputFolderName returns the consolidated library folder for a system,
// formatted "key-Full Name" (e.g. "psp-Sony PlayStation Portable"). Unknown
// keys fall back to the raw folder name so consolidation can proceed.
func OutputFolderName(key string) string {
	s, err := Resolve(key)
	if err != nil {
		return key
	}
	return s.Key + "-" + s.FullName
}

// All returns every registered system sorted by key, for display.
func All() []System {
	out := make([]System, 0, len(registry))
	for k, s := range registry {
		s.Key = k
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
