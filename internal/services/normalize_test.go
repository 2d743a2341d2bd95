package services

import "testing"

func TestNewQuery(t *testing.T) {
	tc := []struct {
		name         string
		artist       string
		title        string
		album        string
		wantArtist   string
		wantTitle    string
		wantStripped string
	}{
		{
			name:         "track number",
			artist:       "Artist",
			title:        "20. Song Name",
			wantArtist:   "artist",
			wantTitle:    "song name",
			wantStripped: "song name",
		},
		{
			name:         "separators",
			artist:       "Artist_Name-Here",
			title:        "  Extra   Spaces  ",
			wantArtist:   "artist name here",
			wantTitle:    "extra spaces",
			wantStripped: "extra spaces",
		},
		{
			name:         "featuring in brackets",
			artist:       "Nelly",
			title:        "P.I.M.P. (feat. Snoop Dogg)",
			wantArtist:   "nelly",
			wantTitle:    "p i m p feat snoop dogg",
			wantStripped: "p i m p",
		},
		{
			name:         "bare ft",
			artist:       "A & B",
			title:        "Track ft. Artist",
			wantArtist:   "a b",
			wantTitle:    "track ft artist",
			wantStripped: "track",
		},
		{
			name:         "version info is kept",
			artist:       "Artist",
			title:        "Song (Live) [Remix]",
			wantArtist:   "artist",
			wantTitle:    "song live remix",
			wantStripped: "song live remix",
		},
		{
			name:         "ft inside a word",
			artist:       "Artist",
			title:        "Soft Rain",
			wantArtist:   "artist",
			wantTitle:    "soft rain",
			wantStripped: "soft rain",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuery(tt.artist, tt.title, tt.album)

			if q.Artist != tt.wantArtist {
				t.Errorf("artist = %q, want %q", q.Artist, tt.wantArtist)
			}
			if q.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", q.Title, tt.wantTitle)
			}
			if q.Stripped != tt.wantStripped {
				t.Errorf("stripped = %q, want %q", q.Stripped, tt.wantStripped)
			}
			if q.HasFallback() != (tt.wantTitle != tt.wantStripped) {
				t.Errorf("HasFallback() = %v", q.HasFallback())
			}
		})
	}
}
