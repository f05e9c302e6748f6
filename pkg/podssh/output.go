package podssh

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type Stream int

const (
	Stdout Stream = iota
	Stderr
)

// OutputLine is one line of remote output attributed to a pod.
type OutputLine struct {
	PodID  string
	Stream Stream
	Text   string
}

var initOutputOnce sync.Once

// InitOutput prepares the process-wide color state. Safe to call from any
// number of connections.
func InitOutput() {
	initOutputOnce.Do(func() {
		if _, ok := os.LookupEnv("NO_COLOR"); ok || !isTerminal(os.Stdout) {
			color.NoColor = true
		}
	})
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Formatter renders remote output as "[podID] text" in green for stdout and
// "[podID ERROR] text" in red for stderr.
type Formatter struct {
	mu      sync.Mutex
	sink    io.Writer
	success *color.Color
	failure *color.Color
}

func NewFormatter(sink io.Writer, colored bool) *Formatter {
	success := color.New(color.FgGreen)
	failure := color.New(color.FgRed)
	if colored {
		success.EnableColor()
		failure.EnableColor()
	} else {
		success.DisableColor()
		failure.DisableColor()
	}
	return &Formatter{sink: sink, success: success, failure: failure}
}

// NewTerminalFormatter colors output only when f is a terminal.
func NewTerminalFormatter(f *os.File) *Formatter {
	InitOutput()
	return NewFormatter(f, !color.NoColor && isTerminal(f))
}

// NewSinkFormatter colors output only when sink is a terminal file.
func NewSinkFormatter(sink io.Writer) *Formatter {
	if f, ok := sink.(*os.File); ok {
		return NewTerminalFormatter(f)
	}
	InitOutput()
	return NewFormatter(sink, false)
}

func (f *Formatter) Emit(line OutputLine) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if line.Stream == Stderr {
		_, _ = fmt.Fprintln(f.sink, f.failure.Sprintf("[%s ERROR] %s", line.PodID, line.Text))
		return
	}
	_, _ = fmt.Fprintln(f.sink, f.success.Sprintf("[%s] %s", line.PodID, line.Text))
}

func (f *Formatter) Success(podID, text string) {
	f.Emit(OutputLine{PodID: podID, Stream: Stdout, Text: text})
}

func (f *Formatter) Error(podID, text string) {
	f.Emit(OutputLine{PodID: podID, Stream: Stderr, Text: text})
}
