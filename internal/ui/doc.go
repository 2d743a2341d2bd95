// Package ui implements the interactive terminal display using bubbletea's Elm architecture.
//
// The [Model] renders a single progress view:
//  1. a header with the root directory and orchestrator state
//  2. a progress bar with per-outcome counts and a legend
//  3. a scrolling activity log of the most recent files
//  4. contextual key help
//
// Progress updates arrive from a [tasks.EventBus] and are consumed one at a time with a blocking command,
// so the orchestrator never waits on rendering. Key presses become [tasks.Intent] values sent back on the same bus.
// The program exits when the bus is closed.
//
// Keyboard: p pauses, r resumes, q/esc/ctrl+c quits, ? toggles full help.
package ui
