package ui

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/getlrc/internal/tasks"
)

// LogUpdates is the display used with --no-tui. It logs every update until the bus closes.
//
// Per-file outcomes are logged at info so that plain output still shows each file.
func LogUpdates(bus *tasks.EventBus, logger *log.Logger) {
	for u := range bus.Updates() {
		switch u.Phase {
		case tasks.PhaseProcess:
			if u.Entry != nil {
				logger.Info(u.Entry.Line(), "step", u.Step, "total", u.Total)
			}
		case tasks.PhaseCheckpoint:
			logger.Debug(u.Message, "step", u.Step)
		case tasks.PhaseCancelled:
			logger.Warn(u.Message, "pending", u.Total-u.Step)
		default:
			logger.Info(u.Message)
		}
	}
}
