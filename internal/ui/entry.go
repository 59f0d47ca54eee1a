package ui

import (
	"strings"

	"fyne.io/fyne/v2/widget"
)

// subjectEntry is a single line entry that reports its text when it loses focus
type subjectEntry struct {
	widget.Entry

	onCommit func(string)
}

func newSubjectEntry(onCommit func(string)) *subjectEntry {
	e := &subjectEntry{onCommit: onCommit}
	e.ExtendBaseWidget(e)
	e.SetPlaceHolder("Subject name")
	e.OnSubmitted = func(string) { e.commit() }
	return e
}

// FocusLost implements fyne.Focusable
func (e *subjectEntry) FocusLost() {
	e.Entry.FocusLost()
	e.commit()
}

func (e *subjectEntry) commit() {
	if e.onCommit != nil {
		e.onCommit(strings.TrimSpace(e.Text))
	}
}
