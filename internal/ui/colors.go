package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = newPalette("#1DB954", "#04B575", "#FF5555", "#FFA500", "#626262")

// palette is a simple stylesheet built with named [lipgloss.Style] fields.
type palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func newPalette(t, s, e, w, h string) *palette {
	return &palette{
		title: newBold(t).MarginBottom(1),
		ok:    newBold(s),
		err:   newBold(e),
		warn:  newStyle(w),
		help:  newEm(h),
	}
}

func newStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func newBold(fg string) lipgloss.Style {
	return newStyle(fg).Bold(true)
}

func newEm(fg string) lipgloss.Style {
	return newStyle(fg).Italic(true)
}
