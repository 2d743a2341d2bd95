package library

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bogem/id3v2"
	"github.com/desertthunder/getlrc/internal/models"
	"github.com/desertthunder/getlrc/internal/shared"
	"github.com/dhowden/tag"
	"github.com/mewkiz/flac"
)

// TagReader reads lookup metadata from embedded audio tags.
type TagReader struct{}

// NewTagReader returns a TagReader.
func NewTagReader() *TagReader {
	return &TagReader{}
}

// Read extracts artist, title and album from path. The artist falls back to the album artist.
//
// Duration comes from the ID3v2 TLEN frame for MP3 files and from STREAMINFO for FLAC files. It is zero for
// other formats or when it cannot be read. Files without a usable title and artist yield
// [shared.ErrMetadataUnavailable].
func (r *TagReader) Read(path string) (*models.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMetadataUnavailable, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrMetadataUnavailable, path, err)
	}

	md := &models.Metadata{
		Artist: strings.TrimSpace(m.Artist()),
		Title:  strings.TrimSpace(m.Title()),
		Album:  strings.TrimSpace(m.Album()),
	}
	if md.Artist == "" {
		md.Artist = strings.TrimSpace(m.AlbumArtist())
	}
	if md.Artist == "" || md.Title == "" {
		return nil, fmt.Errorf("%w: %s: missing artist or title", shared.ErrMetadataUnavailable, path)
	}

	switch m.FileType() {
	case tag.MP3:
		md.Duration = readTLEN(path)
	case tag.FLAC:
		md.Duration = readStreamInfo(path)
	}
	return md, nil
}

// readTLEN returns the ID3v2 length frame (milliseconds) or zero.
func readTLEN(path string) time.Duration {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"TLEN"}})
	if err != nil {
		return 0
	}
	defer t.Close()

	ms, err := strconv.ParseInt(strings.TrimSpace(t.GetTextFrame("TLEN").Text), 10, 64)
	if err != nil || ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// readStreamInfo returns the FLAC stream length from its sample count, or zero when the count is unknown.
func readStreamInfo(path string) time.Duration {
	stream, err := flac.Open(path)
	if err != nil {
		return 0
	}
	defer stream.Close()

	info := stream.Info
	if info == nil || info.SampleRate == 0 || info.NSamples == 0 {
		return 0
	}
	return time.Duration(info.NSamples) * time.Second / time.Duration(info.SampleRate)
}
