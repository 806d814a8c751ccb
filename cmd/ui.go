package cmd

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var isTTY = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	white  = color.New(color.FgWhite, color.Bold).SprintFunc()
)

// startSpinner shows a spinner on terminals and returns the function
// stopping it. Elsewhere it does nothing.
func startSpinner(suffix string) (update func(string), stop func()) {
	if !isTTY {
		return func(string) {}, func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	s.Start()
	return func(suffix string) {
			s.Lock()
			s.Suffix = " " + suffix
			s.Unlock()
		}, func() {
			s.Stop()
		}
}
