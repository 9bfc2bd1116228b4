package romname

import "strings"

// Forms holds the progressively looser canonical representations of a parsed
// name. Exact keeps prefix and tags, Base is the title alone, Alnum and
// BaseAlnum reduce those to ASCII letters and digits only.
type Forms struct {
	Exact     string
	Base      string
	Alnum     string
	BaseAlnum string
}

// Normalize derives all comparison forms from a parsed name. Pure function;
// simple ASCII case folding is all the matching engine needs, so no
// locale-aware casing is applied.
func Normalize(p ParsedName) Forms {
	exact := strings.ToLower(p.Name)
	base := strings.ToLower(p.BaseTitle)
	return Forms{
		Exact:     exact,
		Base:      base,
		Alnum:     stripNonAlnum(exact),
		BaseAlnum: stripNonAlnum(base),
	}
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
