package dedupe

import (
	"sort"
	"strings"

	"github.com/romshelf/romshelf/pkg/romname"
)

// Key identifies one release of a game for deduplication. Two filenames map
// to the same Key iff they belong to the same system, share a case-folded
// base title, and carry the same set of tags. Numeric prefixes and file
// extensions never reach the Key.
type Key struct {
	System string
	Base   string
	Tags   string
}

// BuildKey folds the system shorthand and base title and collapses the
// ordered tag list into a sorted, de-duplicated set representation. Tag order
// within a filename matters for display only, never for identity.
func BuildKey(system string, p romname.ParsedName) Key {
	return Key{
		System: strings.ToLower(system),
		Base:   strings.ToLower(p.BaseTitle),
		Tags:   tagSet(p.Tags),
	}
}

func tagSet(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(tags))
	folded := make([]string, 0, len(tags))
	for _, t := range tags {
		f := strings.ToLower(strings.TrimSpace(t))
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		folded = append(folded, f)
	}
	sort.Strings(folded)
	return strings.Join(folded, "|")
}
