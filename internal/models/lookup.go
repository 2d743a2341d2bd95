package models

// LookupKind classifies a remote lyrics lookup.
type LookupKind int

const (
	LookupFound     LookupKind = iota + 1 // synced lyrics returned
	LookupNotFound                        // the service has no synced lyrics for the track
	LookupTransient                       // transport, timeout or unexpected response; retry on a later run
)

func (k LookupKind) String() string {
	switch k {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	case LookupTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// LookupResult is the outcome of a single lyrics lookup. Lyrics is set for [LookupFound] and Reason for
// [LookupTransient].
//
// Alternate may accompany [LookupNotFound]: a simplified title the service might know the track by. Trying it
// is a separate lookup and costs its own permit.
type LookupResult struct {
	Kind      LookupKind
	Lyrics    string
	Reason    string
	Alternate string
}

func Found(lyrics string) LookupResult { return LookupResult{Kind: LookupFound, Lyrics: lyrics} }

func NotFound() LookupResult { return LookupResult{Kind: LookupNotFound} }

func Transient(reason string) LookupResult { return LookupResult{Kind: LookupTransient, Reason: reason} }
