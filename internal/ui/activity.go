package ui

import (
	"github.com/desertthunder/getlrc/internal/models"
)

// MaxLogLines caps the activity log kept in memory by the display.
const MaxLogLines = 100

// activityLine is one rendered row of the activity log.
type activityLine struct {
	text   string
	status models.Outcome // OutcomeUnset for notices
}

// activityLog is a FIFO of the most recent lines; the oldest are evicted first.
type activityLog struct {
	lines []activityLine
	limit int
}

func newActivityLog(limit int) *activityLog {
	return &activityLog{limit: limit}
}

func (l *activityLog) addEntry(e models.LogEntry) {
	l.push(activityLine{text: e.Line(), status: e.Status})
}

func (l *activityLog) addNotice(text string) {
	l.push(activityLine{text: text})
}

func (l *activityLog) push(line activityLine) {
	l.lines = append(l.lines, line)
	if n := len(l.lines); n > l.limit {
		l.lines = append(l.lines[:0:0], l.lines[n-l.limit:]...)
	}
}

// tail returns up to n of the newest lines, oldest first. n <= 0 returns everything.
func (l *activityLog) tail(n int) []activityLine {
	if n <= 0 || n >= len(l.lines) {
		return l.lines
	}
	return l.lines[len(l.lines)-n:]
}

func (l *activityLog) len() int {
	return len(l.lines)
}
