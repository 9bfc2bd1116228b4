package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/romshelf/romshelf/internal/utils"
	"github.com/romshelf/romshelf/pkg/romname"
)

// RomFile is one enumerated file from a source tree, with its parsed name.
type RomFile struct {
	Path      string
	RelPath   string
	Filename  string
	SystemKey string
	Parsed    romname.ParsedName
}

// ScanSource enumerates ROM files under one source root. The expected layout
// is <root>/<system folder>/<files...>, optionally nested further. Files are
// returned in deterministic sorted order per system; that order is what
// "first seen" means downstream, so it must be stable between runs.
func ScanSource(root string) ([]RomFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []RomFile
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files, err := scanSystemDir(filepath.Join(root, entry.Name()), entry.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

// ScanSources enumerates several roots in the order given. Ordering across
// roots is the caller's priority order: a file in an earlier root wins
// deduplication against the same game in a later one.
func ScanSources(roots []string) ([]RomFile, error) {
	var out []RomFile
	for _, root := range roots {
		files, err := ScanSource(root)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

func scanSystemDir(dir, systemKey string) ([]RomFile, error) {
	var out []RomFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		parsed, perr := romname.ParseFilename(name)
		if perr != nil {
			// A file with no parseable name is skipped, not fatal.
			utils.Log.Warnf("skipping %s: %v", path, perr)
			return nil
		}

		rel, rerr := filepath.Rel(dir, path)
		if rerr != nil {
			rel = name
		}
		out = append(out, RomFile{
			Path:      path,
			RelPath:   rel,
			Filename:  name,
			SystemKey: systemKey,
			Parsed:    parsed,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	// WalkDir is lexical already, but nested directories interleave with
	// files; sort by relative path for a single stable order.
	sort.Slice(out, func(i, j int) bool { return out[i].RelPath < out[j].RelPath })
	return out, nil
}
