package consolidate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/romshelf/romshelf/internal/utils"
	"github.com/romshelf/romshelf/pkg/dedupe"
	"github.com/romshelf/romshelf/pkg/romname"
	"github.com/romshelf/romshelf/pkg/scanner"
	"github.com/romshelf/romshelf/pkg/systems"
)

// Options controls a consolidation run.
type Options struct {
	DryRun    bool
	Overwrite bool
	// Systems limits processing to these shorthand keys; empty means all.
	Systems []string
}

// CopiedFile records one file accepted into the library.
type CopiedFile struct {
	SystemKey string
	Filename  string
	DestPath  string
	Key       dedupe.Key
}

// DuplicateFile records one file rejected as a duplicate.
type DuplicateFile struct {
	SystemKey string
	Filename  string
}

// Result aggregates one consolidation run.
type Result struct {
	Copied            int
	SkippedDuplicates int
	SkippedUnknown    int
	Errors            []string
	CopiedFiles       []CopiedFile
	DuplicateFiles    []DuplicateFile
}

// RomSink receives accepted files as they are copied; the sqlite catalog
// implements it. A nil sink disables recording.
type RomSink interface {
	RecordRom(ctx context.Context, file CopiedFile) error
}

// Consolidator copies ROM files from source trees into one canonical library,
// deduplicating by identity key. The index is scoped to a single run;
// whichever duplicate the scanner yields first is the one kept.
type Consolidator struct {
	OutputDir string
	Opts      Options
	Sink      RomSink

	index *dedupe.Index
}

// New returns a consolidator writing to outputDir.
func New(outputDir string, opts Options) *Consolidator {
	return &Consolidator{
		OutputDir: outputDir,
		Opts:      opts,
		index:     dedupe.NewIndex(),
	}
}

// Run scans every source root in priority order and consolidates the files.
// Structural errors (unknown system, unparseable name, failed copy) are
// recorded per item and never abort the run.
func (c *Consolidator) Run(ctx context.Context, sources []string) (Result, error) {
	var res Result

	files, err := scanner.ScanSources(sources)
	if err != nil {
		return res, err
	}

	allowed := make(map[string]struct{}, len(c.Opts.Systems))
	for _, s := range c.Opts.Systems {
		allowed[strings.ToLower(s)] = struct{}{}
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		sys, err := systems.Resolve(file.SystemKey)
		if err != nil {
			res.SkippedUnknown++
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[strings.ToLower(sys.Key)]; !ok {
				continue
			}
		}

		key := dedupe.BuildKey(sys.Key, file.Parsed)
		if !c.index.TryAccept(key) {
			res.SkippedDuplicates++
			res.DuplicateFiles = append(res.DuplicateFiles, DuplicateFile{
				SystemKey: sys.Key,
				Filename:  file.Filename,
			})
			utils.Log.Debugf("duplicate: %s", file.Filename)
			continue
		}

		copied, err := c.place(ctx, file, sys, key, &res)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		if copied {
			res.Copied++
		}
	}
	return res, nil
}

// place copies one accepted file under its system folder, using the clean
// filename (numeric prefix stripped, tags kept).
func (c *Consolidator) place(ctx context.Context, file scanner.RomFile, sys systems.System, key dedupe.Key, res *Result) (bool, error) {
	destName := cleanFilename(file.Parsed, file.Filename)
	destDir := filepath.Join(c.OutputDir, systems.OutputFolderName(sys.Key))
	destPath := filepath.Join(destDir, destName)

	if !c.Opts.DryRun {
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return false, fmt.Errorf("create %s: %w", destDir, err)
		}
		if _, err := os.Stat(destPath); err == nil && !c.Opts.Overwrite {
			utils.Log.Debugf("exists, skipping: %s", destName)
			return false, nil
		}
		if err := copyFile(file.Path, destPath); err != nil {
			return false, fmt.Errorf("copy %s: %w", file.Path, err)
		}
	}

	rec := CopiedFile{
		SystemKey: sys.Key,
		Filename:  destName,
		DestPath:  destPath,
		Key:       key,
	}
	res.CopiedFiles = append(res.CopiedFiles, rec)
	if c.Sink != nil {
		if err := c.Sink.RecordRom(ctx, rec); err != nil {
			res.Errors = append(res.Errors, err.Error())
		}
	}
	utils.Log.Debugf("copied %s -> %s", file.Filename, destPath)
	return true, nil
}

// cleanFilename reattaches the original extension to the cleaned name.
func cleanFilename(p romname.ParsedName, original string) string {
	return p.Clean() + filepath.Ext(original)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
