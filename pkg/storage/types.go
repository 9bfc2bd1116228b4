package storage

// Rom is one consolidated library entry as stored in the catalog.
// Timestamps are kept in sqlite's CURRENT_TIMESTAMP text form.
type Rom struct {
	ID        int64  `json:"id"`
	System    string `json:"system"`
	Identity  string `json:"identity"`
	BaseTitle string `json:"base_title"`
	Tags      string `json:"tags"`
	Filename  string `json:"filename"`
	DestPath  string `json:"dest_path"`
	RunID     int64  `json:"run_id"`
	FirstSeen string `json:"first_seen_at"`
	LastSeen  string `json:"last_seen_at"`
}

// Run is one recorded consolidation or thumbnail run. FinishedAt is empty
// while a run is in flight or was aborted.
type Run struct {
	ID         int64  `json:"id"`
	Kind       string `json:"kind"`
	Accepted   int    `json:"accepted"`
	Skipped    int    `json:"skipped"`
	Errors     int    `json:"errors"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
}

// Match is one recorded thumbnail match.
type Match struct {
	ID        int64  `json:"id"`
	System    string `json:"system"`
	GameName  string `json:"game_name"`
	Candidate string `json:"candidate"`
	Tier      string `json:"tier"`
	ArtType   string `json:"art_type"`
	MatchedAt string `json:"matched_at"`
}

// Stats summarizes the catalog for reporting.
type Stats struct {
	TotalRoms     int            `json:"total_roms"`
	TotalMatches  int            `json:"total_matches"`
	RomsBySystem  map[string]int `json:"roms_by_system"`
	MatchesByTier map[string]int `json:"matches_by_tier"`
}

// ListOptions filters catalog listings.
type ListOptions struct {
	System string
	Limit  int
}
