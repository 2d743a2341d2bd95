package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/getlrc/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262", "#00A5FF")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	cached lipgloss.Style
	muted  lipgloss.Style
}

func NewPalette(t, s, e, w, h, c string) *Palette {
	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		cached: NewStyle(c),
		muted:  NewStyle(h),
	}
}

// Outcome returns the style used for o in the log and legend.
func (p *Palette) Outcome(o models.Outcome) lipgloss.Style {
	switch o {
	case models.OutcomeDownloaded:
		return p.ok
	case models.OutcomeCachedMiss:
		return p.cached
	case models.OutcomeAlreadyExists:
		return p.muted
	case models.OutcomeNotFound:
		return p.warn
	case models.OutcomeError:
		return p.err
	default:
		return lipgloss.NewStyle()
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
