// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bogem/id3v2"
	"github.com/desertthunder/getlrc/internal/models"
	"github.com/desertthunder/getlrc/internal/shared"
)

// FakeMetadata serves tags from a map keyed by path. Unknown paths have no usable metadata.
type FakeMetadata struct {
	ByPath map[string]models.Metadata
}

func (f *FakeMetadata) Read(path string) (*models.Metadata, error) {
	md, ok := f.ByPath[path]
	if !ok {
		return nil, shared.ErrMetadataUnavailable
	}
	return &md, nil
}

// FakeLyrics answers lookups by title and records every call.
type FakeLyrics struct {
	mu       sync.Mutex
	ByTitle  map[string]models.LookupResult
	Default  models.LookupResult
	OnLookup func(title string) // called after each lookup is recorded
	calls    []string
}

func (f *FakeLyrics) Lookup(ctx context.Context, artist, title, album string, duration time.Duration) models.LookupResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, title)
	if f.OnLookup != nil {
		f.OnLookup(title)
	}
	if res, ok := f.ByTitle[title]; ok {
		return res
	}
	if f.Default.Kind == 0 {
		return models.NotFound()
	}
	return f.Default
}

// Calls returns the titles looked up so far.
func (f *FakeLyrics) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// SetResult changes the answer for title.
func (f *FakeLyrics) SetResult(title string, res models.LookupResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ByTitle == nil {
		f.ByTitle = make(map[string]models.LookupResult)
	}
	f.ByTitle[title] = res
}

// MemoryCache is an in-memory negative cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]struct{}
	puts    int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]struct{})}
}

func (c *MemoryCache) Contains(ctx context.Context, fingerprint string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[fingerprint]
	return ok, nil
}

func (c *MemoryCache) Put(ctx context.Context, fingerprint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fingerprint] = struct{}{}
	c.puts++
	return nil
}

// Len returns the number of distinct fingerprints.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CountingLimiter grants every permit immediately and counts them.
type CountingLimiter struct {
	mu      sync.Mutex
	permits int
}

func (l *CountingLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	l.permits++
	l.mu.Unlock()
	return nil
}

func (l *CountingLimiter) Permits() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.permits
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

// MustTouch creates an empty file at root/name, including parent directories, and returns its path.
func MustTouch(t *testing.T, root, name string) string {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// MustWriteMP3 writes an ID3v2 tag with the given text frames (e.g. TPE1, TIT2, TLEN) followed by a few bytes
// standing in for audio, and returns the file's path.
func MustWriteMP3(t *testing.T, root, name string, frames map[string]string) string {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}

	tag := id3v2.NewEmptyTag()
	for id, text := range frames {
		tag.AddTextFrame(id, id3v2.EncodingUTF8, text)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	defer f.Close()

	if _, err := tag.WriteTo(f); err != nil {
		t.Fatalf("Failed to write tag to %s: %v", path, err)
	}
	if _, err := f.Write(make([]byte, 128)); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// MustWriteFLAC writes a FLAC file holding only metadata: a STREAMINFO block describing samples at sampleRate
// (stereo, 16 bit) followed by a Vorbis comment block with comments such as "TITLE" and "ARTIST".
func MustWriteFLAC(t *testing.T, root, name string, comments map[string]string, sampleRate uint32, samples uint64) string {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}

	var info bytes.Buffer
	binary.Write(&info, binary.BigEndian, uint16(4096)) // min block size
	binary.Write(&info, binary.BigEndian, uint16(4096)) // max block size
	info.Write(make([]byte, 6))                         // frame sizes unknown
	binary.Write(&info, binary.BigEndian, uint64(sampleRate)<<44|uint64(1)<<41|uint64(15)<<36|samples&(1<<36-1))
	info.Write(make([]byte, 16)) // md5

	var vorbis bytes.Buffer
	vendor := "getlrc"
	binary.Write(&vorbis, binary.LittleEndian, uint32(len(vendor)))
	vorbis.WriteString(vendor)
	binary.Write(&vorbis, binary.LittleEndian, uint32(len(comments)))
	for k, v := range comments {
		c := k + "=" + v
		binary.Write(&vorbis, binary.LittleEndian, uint32(len(c)))
		vorbis.WriteString(c)
	}

	var out bytes.Buffer
	out.WriteString("fLaC")
	writeBlock := func(typ byte, last bool, body []byte) {
		if last {
			typ |= 0x80
		}
		n := len(body)
		out.Write([]byte{typ, byte(n >> 16), byte(n >> 8), byte(n)})
		out.Write(body)
	}
	writeBlock(0, false, info.Bytes())
	writeBlock(4, true, vorbis.Bytes())

	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("File should not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
