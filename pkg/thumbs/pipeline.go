package thumbs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/romshelf/romshelf/internal/utils"
	"github.com/romshelf/romshelf/pkg/romname"
	"github.com/romshelf/romshelf/pkg/systems"
)

// Options controls a thumbnail run over a consolidated library.
type Options struct {
	Art         ArtType
	DryRun      bool
	Overwrite   bool
	Concurrency int
	// Systems limits processing to these shorthand keys (lowercase); empty
	// means all.
	Systems []string
}

// Result aggregates one thumbnail run.
type Result struct {
	Downloaded       int
	SkippedExisting  int
	SkippedNoMatch   int
	SkippedNoMapping int
	Errors           []string
	// Matches records every successful match, including dry runs.
	Matches []MatchRecord
}

// MatchRecord ties one local ROM to its selected remote candidate.
type MatchRecord struct {
	SystemKey string
	GameName  string
	Candidate string
	Tier      Tier
	DestPath  string
}

// MatchSink receives match records as they are made; the sqlite catalog
// implements it. A nil sink disables recording.
type MatchSink interface {
	RecordMatch(ctx context.Context, rec MatchRecord) error
}

// Pipeline wires listing fetching, matching and downloading for a library
// tree laid out as <lib>/<system folder>/<rom files>.
type Pipeline struct {
	Listings   *ListingCache
	Downloader *Downloader
	Sink       MatchSink
}

// Run processes every system folder under libDir and returns aggregate
// counters. Unknown system folders and per-file failures are recorded and
// skipped; they never abort the run.
func (p *Pipeline) Run(ctx context.Context, libDir string, opts Options) (Result, error) {
	var res Result

	entries, err := os.ReadDir(libDir)
	if err != nil {
		return res, fmt.Errorf("read library %s: %w", libDir, err)
	}

	allowed := make(map[string]struct{}, len(opts.Systems))
	for _, s := range opts.Systems {
		allowed[strings.ToLower(s)] = struct{}{}
	}

	var tasks []DownloadTask
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || entry.Name() == "images" {
			continue
		}

		folder := entry.Name()
		key := folder
		if i := strings.Index(folder, "-"); i > 0 {
			key = folder[:i]
		}

		sys, err := systems.Resolve(key)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[strings.ToLower(sys.Key)]; !ok {
				continue
			}
		}
		if sys.Libretro == "" {
			utils.Log.Debugf("no thumbnail mapping for %s, skipping", sys.Key)
			res.SkippedNoMapping++
			continue
		}

		listing, err := p.Listings.FetchListing(ctx, sys.Libretro, opts.Art)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		if len(listing) == 0 {
			res.SkippedNoMapping++
			continue
		}

		sysTasks, err := p.collectSystem(ctx, filepath.Join(libDir, folder), sys, listing, opts, &res)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		tasks = append(tasks, sysTasks...)
	}

	if opts.DryRun {
		res.Downloaded += len(tasks)
		return res, nil
	}

	for _, out := range p.Downloader.Run(ctx, tasks) {
		if out.Err != nil {
			res.Errors = append(res.Errors, out.Err.Error())
			continue
		}
		res.Downloaded++
	}
	return res, nil
}

func (p *Pipeline) collectSystem(ctx context.Context, sysDir string, sys systems.System, listing []string, opts Options, res *Result) ([]DownloadTask, error) {
	entries, err := os.ReadDir(sysDir)
	if err != nil {
		return nil, fmt.Errorf("read system dir %s: %w", sysDir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	imagesDir := filepath.Join(sysDir, "images", strings.ToLower(string(opts.Art)))

	var tasks []DownloadTask
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		parsed, err := romname.ParseFilename(entry.Name())
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}

		// The clean name (prefix stripped, tags kept) is both the lookup
		// name and the destination image name.
		gameName := parsed.Clean()
		destPath := filepath.Join(imagesDir, gameName+".png")

		if !opts.Overwrite {
			if _, err := os.Stat(destPath); err == nil {
				res.SkippedExisting++
				continue
			}
		}

		lookup, err := romname.Parse(gameName)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}

		match := Match(lookup, listing)
		if match.Tier == TierNone {
			utils.Log.Debugf("no thumbnail match for %s", gameName)
			res.SkippedNoMatch++
			continue
		}

		rec := MatchRecord{
			SystemKey: sys.Key,
			GameName:  gameName,
			Candidate: match.Candidate,
			Tier:      match.Tier,
			DestPath:  destPath,
		}
		res.Matches = append(res.Matches, rec)
		if p.Sink != nil {
			if err := p.Sink.RecordMatch(ctx, rec); err != nil {
				res.Errors = append(res.Errors, err.Error())
			}
		}

		tasks = append(tasks, DownloadTask{
			SystemKey: sys.Key,
			GameName:  gameName,
			URL:       DownloadURL(sys.Libretro, opts.Art, match.Candidate),
			DestPath:  destPath,
			Candidate: match.Candidate,
		})
	}
	return tasks, nil
}
