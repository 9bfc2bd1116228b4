package romname

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ErrEmptyName is returned when a filename is empty, or empty once the
// extension is removed.
var ErrEmptyName = errors.New("empty filename")

// ParsedName is the structured form of a ROM filename. Name holds the
// original string with the extension removed; Tags preserve the left-to-right
// order of parenthesized groups as they appeared in the source.
type ParsedName struct {
	Name      string
	Prefix    int
	HasPrefix bool
	BaseTitle string
	Tags      []string
}

var (
	prefixPattern = regexp.MustCompile(`^(\d+)\s+`)
	tagPattern    = regexp.MustCompile(`\(([^)]*)\)`)
)

// Parse decomposes an extension-free filename into a numeric prefix (if any),
// a base title and its ordered tag list. It never fails on a non-empty input:
// a name with no prefix and no parenthesized groups yields the trimmed string
// as BaseTitle and an empty tag list.
func Parse(name string) (ParsedName, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ParsedName{}, fmt.Errorf("parse %q: %w", name, ErrEmptyName)
	}

	p := ParsedName{Name: trimmed}

	working := trimmed
	if m := prefixPattern.FindStringSubmatch(working); m != nil {
		// Prefixes in curated sets are small list indexes; a parse
		// failure here would mean the regexp and strconv disagree.
		n, err := strconv.Atoi(m[1])
		if err == nil {
			p.Prefix = n
			p.HasPrefix = true
			working = working[len(m[0]):]
		}
	}

	if loc := tagPattern.FindStringIndex(working); loc != nil {
		p.BaseTitle = strings.TrimSpace(working[:loc[0]])
		for _, m := range tagPattern.FindAllStringSubmatch(working, -1) {
			p.Tags = append(p.Tags, strings.TrimSpace(m[1]))
		}
	} else {
		p.BaseTitle = strings.TrimSpace(working)
	}

	return p, nil
}

// ParseFilename strips the file extension and parses the remainder.
// The extension never participates in identity or matching.
func ParseFilename(filename string) (ParsedName, error) {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(name) == "" {
		return ParsedName{}, fmt.Errorf("parse %q: %w", filename, ErrEmptyName)
	}
	return Parse(name)
}

// Clean returns the name with the numeric prefix removed but tags preserved.
// This is the canonical on-disk name for a consolidated file.
func (p ParsedName) Clean() string {
	if !p.HasPrefix {
		return p.Name
	}
	return strings.TrimSpace(prefixPattern.ReplaceAllString(p.Name, ""))
}
