package thumbs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/romshelf/romshelf/internal/utils"
)

// ArtType selects which thumbnail collection to use.
type ArtType string

const (
	ArtBoxart ArtType = "boxart"
	ArtSnap   ArtType = "snap"
	ArtTitle  ArtType = "title"
)

// Folder returns the libretro-thumbnails directory for the art type.
func (t ArtType) Folder() string {
	switch t {
	case ArtSnap:
		return "Named_Snaps"
	case ArtTitle:
		return "Named_Titles"
	default:
		return "Named_Boxarts"
	}
}

// ParseArtType validates a user-supplied art type string.
func ParseArtType(s string) (ArtType, error) {
	switch strings.ToLower(s) {
	case "boxart", "":
		return ArtBoxart, nil
	case "snap":
		return ArtSnap, nil
	case "title":
		return ArtTitle, nil
	}
	return "", fmt.Errorf("invalid thumbnail type %q (want boxart, snap or title)", s)
}

// ListingFetcher supplies the candidate filenames (without the .png
// extension) available for one system's thumbnail collection. The listing is
// fetched once per system and treated as immutable for the run.
type ListingFetcher interface {
	FetchListing(ctx context.Context, libretroSystem string, art ArtType) ([]string, error)
}

const (
	githubAPIURL     = "https://api.github.com/repos/libretro-thumbnails"
	githubRawURL     = "https://raw.githubusercontent.com/libretro-thumbnails"
	htmlServerURL    = "https://thumbnails.libretro.com"
	defaultUserAgent = "romshelf"
)

// NewHTTPClient builds the retrying HTTP client shared by fetchers and the
// downloader. retryablehttp's own logger is noisy, so it is silenced and
// request logging goes through our logrus instance instead.
func NewHTTPClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.Logger = nil
	return c
}

// GitHubFetcher lists thumbnails through the GitHub Git Trees API, which
// returns the complete tree in one response (the contents API caps at 1000
// entries, far below large collections).
type GitHubFetcher struct {
	Client  *retryablehttp.Client
	BaseURL string
}

// NewGitHubFetcher returns a fetcher against the public GitHub API.
func NewGitHubFetcher(client *retryablehttp.Client) *GitHubFetcher {
	return &GitHubFetcher{Client: client, BaseURL: githubAPIURL}
}

// FetchListing returns all PNG names under the system's art folder, with the
// .png extension removed. A 404 means the system simply has no collection of
// this type and yields an empty listing, not an error.
func (f *GitHubFetcher) FetchListing(ctx context.Context, libretroSystem string, art ArtType) ([]string, error) {
	apiURL := fmt.Sprintf("%s/%s/git/trees/master:%s", f.BaseURL, libretroSystem, art.Folder())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", apiURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listing %s: unexpected status %d", apiURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, item := range gjson.GetBytes(body, "tree.#.path").Array() {
		name := item.String()
		if strings.HasSuffix(name, ".png") {
			files = append(files, strings.TrimSuffix(name, ".png"))
		}
	}
	utils.Log.Debugf("listing %s/%s: %d thumbnails", libretroSystem, art.Folder(), len(files))
	return files, nil
}

// HTMLIndexFetcher lists thumbnails by scraping the directory index pages of
// the libretro thumbnail server. Useful when the GitHub API rate limit is
// exhausted; the server uses the spaced form of the repository name.
type HTMLIndexFetcher struct {
	Client  *retryablehttp.Client
	BaseURL string
}

// NewHTMLIndexFetcher returns a fetcher against thumbnails.libretro.com.
func NewHTMLIndexFetcher(client *retryablehttp.Client) *HTMLIndexFetcher {
	return &HTMLIndexFetcher{Client: client, BaseURL: htmlServerURL}
}

// FetchListing scrapes the anchor list of the index page. As with the API
// fetcher, a missing directory yields an empty listing.
func (f *HTMLIndexFetcher) FetchListing(ctx context.Context, libretroSystem string, art ArtType) ([]string, error) {
	dir := strings.ReplaceAll(libretroSystem, "_", " ")
	pageURL := fmt.Sprintf("%s/%s/%s/", f.BaseURL, url.PathEscape(dir), art.Folder())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listing %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", pageURL, err)
	}

	var files []string
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || !strings.HasSuffix(href, ".png") {
			return
		}
		name, err := url.PathUnescape(strings.TrimSuffix(href, ".png"))
		if err != nil {
			return
		}
		files = append(files, name)
	})
	utils.Log.Debugf("listing %s/%s: %d thumbnails", dir, art.Folder(), len(files))
	return files, nil
}

// ListingCache memoizes fetched listings for the duration of one run so each
// system's collection is fetched at most once per art type.
type ListingCache struct {
	fetcher ListingFetcher

	mu    sync.Mutex
	cache map[string][]string
}

// NewListingCache wraps a fetcher with per-run memoization.
func NewListingCache(fetcher ListingFetcher) *ListingCache {
	return &ListingCache{fetcher: fetcher, cache: make(map[string][]string)}
}

// FetchListing returns the cached listing or delegates to the wrapped
// fetcher. Errors are not cached so a transient failure can be retried.
func (c *ListingCache) FetchListing(ctx context.Context, libretroSystem string, art ArtType) ([]string, error) {
	key := libretroSystem + "/" + art.Folder()

	c.mu.Lock()
	files, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return files, nil
	}

	files, err := c.fetcher.FetchListing(ctx, libretroSystem, art)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[key] = files
	c.mu.Unlock()
	return files, nil
}
