package launcher

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
)

// MaybeSpinner is a spinner that can also just log text
type MaybeSpinner struct {
	Spin    bool
	Spinner *spinner.Spinner
	Msg     string
}

// NewMaybeSpinner will return a new MaybeSpinner
func NewMaybeSpinner(spin bool) *MaybeSpinner {
	s := &MaybeSpinner{
		Spin:    spin,
		Spinner: spinner.New(spinner.CharSets[9], 300*time.Millisecond),
	}
	s.Spinner.Prefix = " "
	return s
}

// Start might start the spinner
func (m *MaybeSpinner) Start() {
	if m.Spin {
		m.Spinner.Start()
	} else if m.Msg != "" {
		fmt.Println(m.Msg)
	}
}

// Stop will stop the spinner
func (m *MaybeSpinner) Stop() {
	if m.Spin {
		m.Spinner.Stop()
	}
}

// Update will update the spinner text
func (m *MaybeSpinner) Update(t string) {
	m.Msg = t
	m.Spinner.Suffix = " " + t

	if !m.Spin {
		fmt.Println(t)
	}
}

// spinner returns a started-on-demand spinner with the given text
func (l *Launcher) spinner(text string) *MaybeSpinner {
	s := NewMaybeSpinner(!l.NonInteractive)
	s.Msg = text
	s.Spinner.Suffix = " " + text
	return s
}
