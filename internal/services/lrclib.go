package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/getlrc/internal/models"
	"github.com/desertthunder/getlrc/internal/shared"
)

const (
	DefaultBaseURL   = "https://lrclib.net/api"
	DefaultUserAgent = "getlrc (https://github.com/desertthunder/getlrc)"
	DefaultTimeout   = 10 * time.Second

	// maxBodySize bounds how much of a response is read; synced lyrics are small.
	maxBodySize = 4 << 20
)

// lyricsRecord is one LRCLIB lyrics record.
type lyricsRecord struct {
	ID           int     `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  *string `json:"plainLyrics"`
	SyncedLyrics *string `json:"syncedLyrics"`
}

func (r lyricsRecord) synced() string {
	if r.Instrumental || r.SyncedLyrics == nil {
		return ""
	}
	return strings.TrimSpace(*r.SyncedLyrics)
}

// LRCLibClient looks up synced lyrics on LRCLIB.
type LRCLibClient struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	logger     *log.Logger
}

// NewLRCLibClient creates a client from cfg. Empty fields fall back to the defaults and a nil client uses
// [http.DefaultClient].
func NewLRCLibClient(cfg shared.LyricsConfig, client *http.Client, logger *log.Logger) *LRCLibClient {
	c := &LRCLibClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		timeout:    cfg.Timeout(),
		httpClient: client,
		logger:     logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = shared.NewLogger(io.Discard)
	}
	return c
}

// Lookup asks LRCLIB for synced lyrics with exactly one request. It never retries; when an exact match is
// missing and the title carries a featured-artist clause, the stripped title is returned as
// [models.LookupResult.Alternate] for the caller to try.
func (c *LRCLibClient) Lookup(ctx context.Context, artist, title, album string, duration time.Duration) models.LookupResult {
	q := NewQuery(artist, title, album)
	seconds := int(duration / time.Second)

	if seconds <= 0 {
		return c.search(ctx, q)
	}

	res, missing := c.get(ctx, q, seconds)
	if missing && q.HasFallback() {
		c.logger.Debug("offering stripped title", "title", q.Title, "stripped", q.Stripped)
		res.Alternate = q.Stripped
	}
	return res
}

// get calls /get for an exact match. missing is true only when the service answered 404.
func (c *LRCLibClient) get(ctx context.Context, q Query, seconds int) (res models.LookupResult, missing bool) {
	params := url.Values{}
	params.Set("artist_name", q.Artist)
	params.Set("track_name", q.Title)
	params.Set("album_name", q.Album)
	params.Set("duration", strconv.Itoa(seconds))

	status, body, err := c.do(ctx, "/get", params)
	if err != nil {
		return models.Transient(err.Error()), false
	}

	switch status {
	case http.StatusOK:
		var rec lyricsRecord
		if err := json.Unmarshal(body, &rec); err != nil {
			return models.Transient(fmt.Sprintf("malformed response: %v", err)), false
		}
		if lyrics := rec.synced(); lyrics != "" {
			return models.Found(lyrics), false
		}
		return models.NotFound(), false
	case http.StatusNotFound:
		return models.NotFound(), true
	default:
		return models.Transient(fmt.Sprintf("unexpected status %d", status)), false
	}
}

// search calls /search and takes the first record with synced lyrics.
func (c *LRCLibClient) search(ctx context.Context, q Query) models.LookupResult {
	params := url.Values{}
	params.Set("artist_name", q.Artist)
	params.Set("track_name", q.Title)
	if q.Album != "" {
		params.Set("album_name", q.Album)
	}

	status, body, err := c.do(ctx, "/search", params)
	if err != nil {
		return models.Transient(err.Error())
	}

	switch status {
	case http.StatusOK:
		var recs []lyricsRecord
		if err := json.Unmarshal(body, &recs); err != nil {
			return models.Transient(fmt.Sprintf("malformed response: %v", err))
		}
		for _, rec := range recs {
			if lyrics := rec.synced(); lyrics != "" {
				return models.Found(lyrics)
			}
		}
		return models.NotFound()
	case http.StatusNotFound:
		return models.NotFound()
	default:
		return models.Transient(fmt.Sprintf("unexpected status %d", status))
	}
}

func (c *LRCLibClient) do(ctx context.Context, path string, params url.Values) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fullURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, fmt.Errorf("request timed out after %s", c.timeout)
		}
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("lrclib response", "path", path, "status", resp.StatusCode, "bytes", len(body))
	return resp.StatusCode, body, nil
}
