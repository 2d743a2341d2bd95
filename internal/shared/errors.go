package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Preconditions checked before a run starts
	ErrNotADirectory     = fmt.Errorf("not a directory")
	ErrDataDirUnwritable = fmt.Errorf("data directory is not writable")

	// Per-track errors, recorded as an outcome and never returned from a run
	ErrMetadataUnavailable = fmt.Errorf("metadata unavailable")
	ErrSidecarConflict     = fmt.Errorf("sidecar already exists")
	ErrTransient           = fmt.Errorf("transient lookup failure")

	// Session persistence
	ErrSessionMismatch = fmt.Errorf("session belongs to a different root")
	ErrSessionCorrupt  = fmt.Errorf("session file is corrupt")
	ErrSessionStale    = fmt.Errorf("session is stale")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
