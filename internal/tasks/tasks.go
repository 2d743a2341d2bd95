package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/getlrc/internal/models"
	"github.com/desertthunder/getlrc/internal/shared"
)

// Scanner lists audio files under a root in processing order.
type Scanner interface {
	Scan(ctx context.Context, root string) ([]string, error)
}

// MetadataReader extracts lookup metadata from an audio file.
type MetadataReader interface {
	Read(path string) (*models.Metadata, error)
}

// NegativeCache remembers fingerprints of tracks without synced lyrics.
type NegativeCache interface {
	Contains(ctx context.Context, fingerprint string) (bool, error)
	Put(ctx context.Context, fingerprint string) error
}

// LyricsClient looks up synced lyrics remotely.
type LyricsClient interface {
	Lookup(ctx context.Context, artist, title, album string, duration time.Duration) models.LookupResult
}

// SidecarWriter places lyrics next to audio files without overwriting.
type SidecarWriter interface {
	Path(audio string) string
	Exists(audio string) bool
	Write(target, contents string) error
}

// SessionStore persists the resumable session.
type SessionStore interface {
	Load(root string) (*models.Session, error)
	Save(sess *models.Session) error
	Delete(root string) error
}

// Limiter hands out permits for remote calls.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// Dependencies are the collaborators an [Orchestrator] drives.
type Dependencies struct {
	Scanner  Scanner
	Metadata MetadataReader
	Cache    NegativeCache
	Lyrics   LyricsClient
	Sidecars SidecarWriter
	Store    SessionStore
	Limiter  Limiter
	Bus      *EventBus
}

// Options tune an orchestrator run.
type Options struct {
	CheckpointEvery int  // files between periodic saves; zero disables
	StartPaused     bool // restored sessions wait for a resume intent
}

// State is the orchestrator lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return ""
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// RunResult summarizes a finished run.
type RunResult struct {
	SessionID string
	State     State
	Counts    models.Counts
	Pending   int
	Restored  bool
}

// ErrAlreadyStarted is returned when Run is called twice on one orchestrator.
var ErrAlreadyStarted = errors.New("orchestrator already started")

// Orchestrator owns the session for one run and is its only writer.
type Orchestrator struct {
	deps   Dependencies
	opts   Options
	logger *log.Logger

	state           atomic.Int32
	sess            *models.Session
	sinceCheckpoint int
	saved           bool // the last save succeeded and nothing was processed since
}

// NewOrchestrator wires deps together. A nil logger discards output.
func NewOrchestrator(deps Dependencies, opts Options, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Orchestrator{deps: deps, opts: opts, logger: logger}
}

// State returns the current lifecycle state. Safe to call from any goroutine.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

func (o *Orchestrator) setState(s State) {
	o.state.Store(int32(s))
}

// Run processes root until every pending file has an outcome, the user quits, or ctx is cancelled.
//
// Per-file failures become [models.OutcomeError] and never end the run. The returned error is reserved for
// failures that happen before any work starts. The event bus is closed when Run returns.
func (o *Orchestrator) Run(ctx context.Context, root string) (*RunResult, error) {
	if !o.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, ErrAlreadyStarted
	}
	defer o.deps.Bus.Close()

	logger := shared.WithLogger(o.logger, "run", shared.GenerateID(), "root", root)

	restored := true
	sess, err := o.deps.Store.Load(root)
	if err != nil {
		logger.Warn("starting fresh", "reason", err)
	}

	if sess == nil {
		restored = false
		files, err := o.deps.Scanner.Scan(ctx, root)
		if err != nil {
			if ctx.Err() != nil {
				o.setState(StateCancelled)
				return &RunResult{State: StateCancelled}, nil
			}
			o.setState(StateIdle)
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
		sess = models.NewSession(shared.GenerateID(), root, files)
		logger.Info("scan complete", "files", len(files))
	}

	o.sess = sess
	logger = shared.WithLogger(logger, "session", sess.ID)

	if restored {
		logger.Info("resuming session", "pending", len(sess.PendingFiles), "processed", sess.Processed())
		o.deps.Bus.Publish(restoreUpdate(StateRunning, sess))
		if o.opts.StartPaused && !o.pause(ctx, logger) {
			return o.result(restored), nil
		}
	} else {
		o.deps.Bus.Publish(scanUpdate(StateRunning, sess))
	}

	for !sess.Done() {
		switch o.pollIntent() {
		case IntentPause:
			if !o.pause(ctx, logger) {
				return o.result(restored), nil
			}
		case IntentQuit:
			o.cancel(logger, true)
			return o.result(restored), nil
		}

		if ctx.Err() != nil {
			o.cancel(logger, true)
			return o.result(restored), nil
		}

		path, _ := sess.Next()
		track := models.NewTrack(path)
		outcome, err := o.process(ctx, track, logger)
		if err != nil {
			sess.Requeue(path)
			o.cancel(logger, true)
			return o.result(restored), nil
		}
		track.SetOutcome(outcome)

		entry := sess.Record(track.Filename(), track.Outcome)
		o.saved = false
		logger.Debug("processed", "file", path, "outcome", track.Outcome)
		o.deps.Bus.Publish(processUpdate(StateRunning, sess, entry))
		o.checkpoint(logger)
	}

	if err := o.deps.Store.Delete(root); err != nil {
		logger.Warn("failed to delete finished session", "err", err)
	}
	o.setState(StateCompleted)
	c := sess.Counts()
	logger.Info("run complete", "downloaded", c.Downloaded, "cached", c.Cached, "existing", c.Existing, "failed", c.Failed)
	o.deps.Bus.Publish(completeUpdate(sess))
	return o.result(restored), nil
}

// process decides the outcome for one track, filling in its metadata on the way. An error means the run was
// cancelled before an outcome was reached.
func (o *Orchestrator) process(ctx context.Context, track *models.Track, logger *log.Logger) (models.Outcome, error) {
	path := track.Path
	if o.deps.Sidecars.Exists(path) {
		return models.OutcomeAlreadyExists, nil
	}

	md, err := o.deps.Metadata.Read(path)
	if err != nil {
		logger.Warn("no usable metadata", "file", path, "err", err)
		return models.OutcomeError, nil
	}
	track.Metadata = md

	fp := shared.TrackFingerprint(md.Title, md.Artist)
	hit, err := o.deps.Cache.Contains(ctx, fp)
	if err != nil {
		logger.Warn("negative cache read failed, looking up anyway", "file", path, "err", err)
	}
	if hit {
		return models.OutcomeCachedMiss, nil
	}

	res, err := o.lookup(ctx, md, logger)
	if err != nil {
		return models.OutcomeUnset, err
	}

	switch res.Kind {
	case models.LookupFound:
		if err := o.deps.Sidecars.Write(o.deps.Sidecars.Path(path), res.Lyrics); err != nil {
			logger.Warn("failed to write sidecar", "file", path, "err", err)
			return models.OutcomeError, nil
		}
		return models.OutcomeDownloaded, nil
	case models.LookupNotFound:
		if err := o.deps.Cache.Put(ctx, fp); err != nil {
			logger.Warn("failed to cache miss", "file", path, "err", err)
		}
		return models.OutcomeNotFound, nil
	default:
		if ctx.Err() != nil {
			return models.OutcomeUnset, ctx.Err()
		}
		logger.Warn("lookup failed", "file", path, "reason", res.Reason, "err", shared.ErrTransient)
		return models.OutcomeError, nil
	}
}

// lookup asks the lyrics client, following at most one alternate title. Every remote call takes its own
// permit.
func (o *Orchestrator) lookup(ctx context.Context, md *models.Metadata, logger *log.Logger) (models.LookupResult, error) {
	if err := o.deps.Limiter.Acquire(ctx); err != nil {
		return models.LookupResult{}, err
	}
	res := o.deps.Lyrics.Lookup(ctx, md.Artist, md.Title, md.Album, md.Duration)
	if res.Kind != models.LookupNotFound || res.Alternate == "" {
		return res, nil
	}

	logger.Debug("trying alternate title", "title", md.Title, "alternate", res.Alternate)
	if err := o.deps.Limiter.Acquire(ctx); err != nil {
		return models.LookupResult{}, err
	}
	return o.deps.Lyrics.Lookup(ctx, md.Artist, res.Alternate, md.Album, md.Duration), nil
}

// pollIntent samples the intent channel without blocking.
func (o *Orchestrator) pollIntent() Intent {
	select {
	case i := <-o.deps.Bus.Intents():
		return i
	default:
		return 0
	}
}

// pause saves, enters Paused and blocks until resumed. It returns false if the run ended while paused.
func (o *Orchestrator) pause(ctx context.Context, logger *log.Logger) bool {
	err := o.save(logger)
	o.setState(StatePaused)
	o.deps.Bus.Publish(pausedUpdate(o.sess, err))
	logger.Info("paused")

	for {
		select {
		case <-ctx.Done():
			o.cancel(logger, !o.saved)
			return false
		case i := <-o.deps.Bus.Intents():
			switch i {
			case IntentResume:
				o.setState(StateRunning)
				o.deps.Bus.Publish(resumedUpdate(o.sess))
				logger.Info("resumed")
				return true
			case IntentQuit:
				o.cancel(logger, !o.saved)
				return false
			}
		}
	}
}

// cancel ends the run, saving first when asked. Pausing already saved, so a paused session is only saved
// again if that save failed.
func (o *Orchestrator) cancel(logger *log.Logger, save bool) {
	if save {
		o.save(logger)
	}
	o.setState(StateCancelled)
	logger.Info("run stopped", "pending", len(o.sess.PendingFiles), "saved", o.saved)
	o.deps.Bus.Publish(cancelledUpdate(o.sess, o.saved))
}

func (o *Orchestrator) checkpoint(logger *log.Logger) {
	o.sinceCheckpoint++
	if o.opts.CheckpointEvery <= 0 || o.sinceCheckpoint < o.opts.CheckpointEvery || o.sess.Done() {
		return
	}
	o.sinceCheckpoint = 0
	err := o.save(logger)
	o.deps.Bus.Publish(checkpointUpdate(o.State(), o.sess, err))
}

func (o *Orchestrator) save(logger *log.Logger) error {
	if err := o.deps.Store.Save(o.sess); err != nil {
		o.saved = false
		logger.Warn("failed to save session", "err", err)
		return err
	}
	o.saved = true
	o.sinceCheckpoint = 0
	return nil
}

func (o *Orchestrator) result(restored bool) *RunResult {
	return &RunResult{
		SessionID: o.sess.ID,
		State:     o.State(),
		Counts:    o.sess.Counts(),
		Pending:   len(o.sess.PendingFiles),
		Restored:  restored,
	}
}
