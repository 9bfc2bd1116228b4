package cmd

import (
	"context"

	"github.com/romshelf/romshelf/internal/utils"
	"github.com/romshelf/romshelf/pkg/consolidate"
	"github.com/romshelf/romshelf/pkg/storage"
	"github.com/romshelf/romshelf/pkg/thumbs"
)

// catalogSink adapts the sqlite catalog to the sink interfaces of the
// consolidator and the thumbnail pipeline. Every record carries the id of the
// run that produced it.
type catalogSink struct {
	db    *storage.DB
	art   thumbs.ArtType
	runID int64
}

func (s *catalogSink) RecordRom(ctx context.Context, file consolidate.CopiedFile) error {
	identity := file.Key.Base
	if file.Key.Tags != "" {
		identity += "|" + file.Key.Tags
	}
	return s.db.UpsertRom(ctx, file.SystemKey, identity, file.Key.Base, file.Key.Tags, file.Filename, file.DestPath, s.runID)
}

func (s *catalogSink) RecordMatch(ctx context.Context, rec thumbs.MatchRecord) error {
	return s.db.UpsertMatch(ctx, rec.SystemKey, rec.GameName, rec.Candidate, rec.Tier.String(), string(s.art))
}

// finishRun closes out the sink's run. Failing to record the counters is not
// worth failing the command over.
func (s *catalogSink) finishRun(ctx context.Context, accepted, skipped, errCount int) {
	if err := s.db.FinishRun(ctx, s.runID, accepted, skipped, errCount); err != nil {
		utils.Log.Warnf("record run: %v", err)
	}
}

// openCatalog opens the configured catalog and begins a run of the given
// kind, or returns nils when no catalog path is set. The caller owns the
// returned DB handle.
func openCatalog(ctx context.Context, kind string, art thumbs.ArtType) (*storage.DB, *catalogSink, error) {
	path := catalogPath()
	if path == "" {
		return nil, nil, nil
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, nil, err
	}
	runID, err := db.BeginRun(ctx, kind)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, &catalogSink{db: db, art: art, runID: runID}, nil
}
