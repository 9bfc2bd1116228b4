package thumbs

import (
	"strings"

	"github.com/romshelf/romshelf/pkg/romname"
)

// Tier identifies which matching strategy produced a result, from strictest
// (exact string) to loosest (substring). TierNone means no candidate
// qualified at any tier; that is a normal outcome, not an error.
type Tier int

const (
	TierNone Tier = iota
	TierExact
	TierBaseName
	TierNormalized
	TierBaseNormalized
	TierPartial
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierBaseName:
		return "basename"
	case TierNormalized:
		return "normalized"
	case TierBaseNormalized:
		return "base-normalized"
	case TierPartial:
		return "partial"
	default:
		return "none"
	}
}

// MatchResult reports the selected remote candidate, if any, and the tier
// that selected it.
type MatchResult struct {
	Candidate string
	Tier      Tier
}

type candidate struct {
	raw   string
	forms romname.Forms
}

// Match selects the best thumbnail candidate for a local parsed name from a
// remote listing. Candidates are parsed with the same name parser as local
// files so both sides agree on what counts as the same game. Tiers run in
// strict priority order and the first tier with a hit wins:
//
//  1. exact       — full case-folded name, tags included
//  2. basename    — base titles, tags ignored on both sides
//  3. normalized  — full names reduced to letters and digits
//  4. base-normalized — base titles reduced to letters and digits
//  5. partial     — one base title contains the other
//
// Within tiers 1-4 the first candidate in listing order wins. Tier 5 prefers
// the longer overlap, then the shorter candidate title, then listing order.
func Match(local romname.ParsedName, candidates []string) MatchResult {
	if len(candidates) == 0 {
		return MatchResult{Tier: TierNone}
	}

	lf := romname.Normalize(local)

	parsed := make([]candidate, 0, len(candidates))
	for _, raw := range candidates {
		p, err := romname.Parse(raw)
		if err != nil {
			continue
		}
		parsed = append(parsed, candidate{raw: raw, forms: romname.Normalize(p)})
	}

	for _, c := range parsed {
		if c.forms.Exact == lf.Exact {
			return MatchResult{Candidate: c.raw, Tier: TierExact}
		}
	}

	for _, c := range parsed {
		if lf.Base != "" && c.forms.Base == lf.Base {
			return MatchResult{Candidate: c.raw, Tier: TierBaseName}
		}
	}

	for _, c := range parsed {
		if lf.Alnum != "" && c.forms.Alnum == lf.Alnum {
			return MatchResult{Candidate: c.raw, Tier: TierNormalized}
		}
	}

	// Tier 4 only differs from tier 3 when a prefix or tag makes the full
	// normalized strings diverge while the bare titles still agree.
	for _, c := range parsed {
		if lf.BaseAlnum != "" && c.forms.BaseAlnum == lf.BaseAlnum {
			return MatchResult{Candidate: c.raw, Tier: TierBaseNormalized}
		}
	}

	return matchPartial(lf, parsed)
}

func matchPartial(lf romname.Forms, parsed []candidate) MatchResult {
	if lf.Base == "" {
		return MatchResult{Tier: TierNone}
	}

	best := -1
	bestOverlap := 0
	for i, c := range parsed {
		if c.forms.Base == "" {
			continue
		}
		if !strings.Contains(c.forms.Base, lf.Base) && !strings.Contains(lf.Base, c.forms.Base) {
			continue
		}
		// The overlap of a substring relation is the shorter of the two
		// titles.
		overlap := len(c.forms.Base)
		if len(lf.Base) < overlap {
			overlap = len(lf.Base)
		}
		switch {
		case best < 0, overlap > bestOverlap:
			best, bestOverlap = i, overlap
		case overlap == bestOverlap && len(parsed[i].forms.Base) < len(parsed[best].forms.Base):
			best = i
		}
	}

	if best < 0 {
		return MatchResult{Tier: TierNone}
	}
	return MatchResult{Candidate: parsed[best].raw, Tier: TierPartial}
}
