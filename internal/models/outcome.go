package models

import (
	"encoding/json"
	"fmt"
)

// ErrUnknownOutcome is returned when decoding an outcome tag this version does not know.
var ErrUnknownOutcome = fmt.Errorf("unknown outcome")

// Outcome is the terminal result of processing one track.
type Outcome int

const (
	OutcomeUnset         Outcome = iota
	OutcomeDownloaded            // remote found, sidecar written
	OutcomeCachedMiss            // negative cache hit, no remote call
	OutcomeAlreadyExists         // sidecar already present
	OutcomeNotFound              // remote confirmed no lyrics
	OutcomeError                 // failed this run, left uncached
)

// Outcomes lists every assignable outcome in display order.
var Outcomes = []Outcome{
	OutcomeDownloaded,
	OutcomeCachedMiss,
	OutcomeAlreadyExists,
	OutcomeNotFound,
	OutcomeError,
}

func (o Outcome) String() string {
	switch o {
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeCachedMiss:
		return "cached_miss"
	case OutcomeAlreadyExists:
		return "already_exists"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeError:
		return "error"
	default:
		return ""
	}
}

// Symbol returns the short marker used in log lines.
func (o Outcome) Symbol() string {
	switch o {
	case OutcomeDownloaded:
		return "[✓]"
	case OutcomeCachedMiss:
		return "[~]"
	case OutcomeAlreadyExists:
		return "[○]"
	case OutcomeNotFound:
		return "[✗]"
	case OutcomeError:
		return "[!]"
	default:
		return "[?]"
	}
}

// ParseOutcome converts a persisted tag back into an [Outcome].
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range Outcomes {
		if o.String() == s {
			return o, nil
		}
	}
	return OutcomeUnset, fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	if o == OutcomeUnset {
		return nil, fmt.Errorf("%w: cannot encode unset outcome", ErrUnknownOutcome)
	}
	return json.Marshal(o.String())
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownOutcome, err)
	}
	parsed, err := ParseOutcome(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
