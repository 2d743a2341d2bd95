package tasks

import (
	"fmt"
	"slices"

	"github.com/desertthunder/getlrc/internal/models"
)

// ProgressUpdate represents a progress event published by the orchestrator.
//
// Every field is a copy; receivers may keep it without synchronization.
type ProgressUpdate struct {
	Phase   Phase             // Operation phase
	State   State             // Orchestrator state after this event
	Step    int               // Files processed so far
	Total   int               // Processed plus pending
	Counts  models.Counts     // Counter snapshot
	Entry   *models.LogEntry  // The file just processed (PhaseProcess only)
	History []models.LogEntry // Restored log lines (PhaseRestore only)
	Message string            // Human-readable message for display
}

// Percent returns completion in [0, 1]. It is 1 once nothing is pending.
func (u ProgressUpdate) Percent() float64 {
	if u.Total == 0 || u.Step >= u.Total {
		return 1
	}
	return float64(u.Step) / float64(u.Total)
}

// Operation phase enumeration
type Phase int

const (
	PhaseRestore Phase = iota
	PhaseScan
	PhaseProcess
	PhaseCheckpoint
	PhasePaused
	PhaseResumed
	PhaseComplete
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseRestore:
		return "restore"
	case PhaseScan:
		return "scan"
	case PhaseProcess:
		return "process"
	case PhaseCheckpoint:
		return "checkpoint"
	case PhasePaused:
		return "paused"
	case PhaseResumed:
		return "resumed"
	case PhaseComplete:
		return "complete"
	case PhaseCancelled:
		return "cancelled"
	default:
		return ""
	}
}

func snapshot(phase Phase, state State, sess *models.Session, msg string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		State:   state,
		Step:    sess.Processed(),
		Total:   sess.Total(),
		Counts:  sess.Counts(),
		Message: msg,
	}
}

func restoreUpdate(state State, sess *models.Session) ProgressUpdate {
	u := snapshot(PhaseRestore, state, sess, fmt.Sprintf("Restored session: %d of %d files done", sess.Processed(), sess.Total()))
	u.History = slices.Clone(sess.LogHistory)
	return u
}

func scanUpdate(state State, sess *models.Session) ProgressUpdate {
	return snapshot(PhaseScan, state, sess, fmt.Sprintf("Found %d audio files", sess.Total()))
}

func processUpdate(state State, sess *models.Session, entry models.LogEntry) ProgressUpdate {
	u := snapshot(PhaseProcess, state, sess, fmt.Sprintf("[%d/%d] %s", sess.Processed(), sess.Total(), entry.Line()))
	u.Entry = &entry
	return u
}

func checkpointUpdate(state State, sess *models.Session, err error) ProgressUpdate {
	if err != nil {
		return snapshot(PhaseCheckpoint, state, sess, fmt.Sprintf("Checkpoint failed: %v", err))
	}
	return snapshot(PhaseCheckpoint, state, sess, "Progress saved")
}

func pausedUpdate(sess *models.Session, err error) ProgressUpdate {
	if err != nil {
		return snapshot(PhasePaused, StatePaused, sess, fmt.Sprintf("Paused, but saving failed: %v", err))
	}
	return snapshot(PhasePaused, StatePaused, sess, "Paused, progress saved")
}

func resumedUpdate(sess *models.Session) ProgressUpdate {
	return snapshot(PhaseResumed, StateRunning, sess, "Resumed")
}

func completeUpdate(sess *models.Session) ProgressUpdate {
	c := sess.Counts()
	return snapshot(PhaseComplete, StateCompleted, sess, fmt.Sprintf(
		"Done: %d downloaded, %d cached, %d existing, %d failed", c.Downloaded, c.Cached, c.Existing, c.Failed,
	))
}

func cancelledUpdate(sess *models.Session, saved bool) ProgressUpdate {
	if saved {
		return snapshot(PhaseCancelled, StateCancelled, sess, "Stopped, progress saved")
	}
	return snapshot(PhaseCancelled, StateCancelled, sess, "Stopped")
}
