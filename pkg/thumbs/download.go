package thumbs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/romshelf/romshelf/internal/utils"
)

// DownloadTask is one matched thumbnail to fetch.
type DownloadTask struct {
	SystemKey string
	GameName  string
	URL       string
	DestPath  string
	Candidate string
}

// DownloadURL builds the raw.githubusercontent.com URL for a matched
// candidate in a system's art folder.
func DownloadURL(libretroSystem string, art ArtType, candidate string) string {
	return fmt.Sprintf("%s/%s/master/%s/%s.png",
		githubRawURL,
		url.PathEscape(libretroSystem),
		art.Folder(),
		url.PathEscape(candidate))
}

// Downloader fetches matched thumbnails with a fixed-size worker pool.
type Downloader struct {
	Client      *retryablehttp.Client
	Concurrency int
}

// NewDownloader returns a downloader using the given client. Concurrency
// below one is clamped to one.
func NewDownloader(client *retryablehttp.Client, concurrency int) *Downloader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Downloader{Client: client, Concurrency: concurrency}
}

// DownloadOutcome reports one finished task.
type DownloadOutcome struct {
	Task DownloadTask
	Err  error
}

// Run downloads every task and returns the per-task outcomes, in completion
// order. A failed download never aborts the batch.
func (d *Downloader) Run(ctx context.Context, tasks []DownloadTask) []DownloadOutcome {
	if len(tasks) == 0 {
		return nil
	}

	queue := make(chan DownloadTask)
	results := make(chan DownloadOutcome, len(tasks))

	var wg sync.WaitGroup
	wg.Add(d.Concurrency)
	for i := 0; i < d.Concurrency; i++ {
		go func() {
			defer wg.Done()
			for task := range queue {
				results <- DownloadOutcome{Task: task, Err: d.fetch(ctx, task)}
			}
		}()
	}

	for _, task := range tasks {
		queue <- task
	}
	close(queue)
	wg.Wait()
	close(results)

	outcomes := make([]DownloadOutcome, 0, len(tasks))
	for r := range results {
		if r.Err != nil {
			utils.Log.Warnf("download failed: %s: %v", r.Task.GameName, r.Err)
		} else {
			utils.Log.Debugf("downloaded %s -> %s", r.Task.GameName, r.Task.DestPath)
		}
		outcomes = append(outcomes, r)
	}
	return outcomes
}

func (d *Downloader) fetch(ctx context.Context, task DownloadTask) error {
	if err := os.MkdirAll(filepath.Dir(task.DestPath), 0o755); err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", task.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %d", task.URL, resp.StatusCode)
	}

	tmp := task.DestPath + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, task.DestPath)
}
