// Package terminal is for terminal outputting
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

type Terminal struct {
	out     io.Writer
	verbose io.Writer
	err     io.Writer

	Green  func(format string, a ...interface{}) string
	Yellow func(format string, a ...interface{}) string
	Red    func(format string, a ...interface{}) string
	Blue   func(format string, a ...interface{}) string
}

func New() (t *Terminal) {
	return &Terminal{
		out:     os.Stdout,
		verbose: os.Stdout,
		err:     os.Stderr,
		Green:   color.New(color.FgGreen).SprintfFunc(),
		Yellow:  color.New(color.FgYellow).SprintfFunc(),
		Red:     color.New(color.FgRed).SprintfFunc(),
		Blue:    color.New(color.FgBlue).SprintfFunc(),
	}
}

// NewWithWriters is used by tests and by commands that redirect output.
func NewWithWriters(out, errOut io.Writer) *Terminal {
	t := New()
	t.out = out
	t.verbose = out
	t.err = errOut
	return t
}

// Out is where regular output goes.
func (t *Terminal) Out() io.Writer {
	return t.out
}

func (t *Terminal) Err() io.Writer {
	return t.err
}

func (t *Terminal) SetVerbose(verbose bool) {
	if verbose {
		t.out = os.Stdout
	} else {
		t.out = silentWriter{}
	}
}

func (t *Terminal) Printf(format string, a ...interface{}) {
	fmt.Fprintf(t.out, format, a...)
}

func (t *Terminal) Vprint(a string) {
	fmt.Fprintln(t.verbose, a)
}

func (t *Terminal) Vprintf(format string, a ...interface{}) {
	fmt.Fprintf(t.verbose, format, a...)
}

func (t *Terminal) Eprint(a string) {
	fmt.Fprintln(t.err, a)
}

func (t *Terminal) Eprintf(format string, a ...interface{}) {
	fmt.Fprintf(t.err, format, a...)
}

type directiver interface {
	Directive() string
}

func (t *Terminal) Errprint(err error, a string) {
	t.Eprint(t.Red("Error: %s", err.Error()))
	if a != "" {
		t.Eprint(t.Red("%s", a))
	}
	var d directiver
	if errors.As(err, &d) {
		t.Eprint(t.Red("%s", d.Directive()))
	}
}

type silentWriter struct{}

func (w silentWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func (t *Terminal) NewSpinner() *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(t.err))
	s.Color("cyan") //nolint:errcheck // "cyan" is a known color
	return s
}

// NewByteProgressBar reports copied bytes for a file of the given size on the
// error stream so stdout stays clean for piping.
func (t *Terminal) NewByteProgressBar(size int64, description string) io.Writer {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(t.err),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(description),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(t.err) }),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
