// Package prompt reads line-based answers from the user.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/climastery/internal/ui/theme"
)

// ErrInterrupted is returned once the reader's context is cancelled.
var ErrInterrupted = errors.New("prompt: interrupted")

// Reader is a line-based input source. It returns io.EOF when input ends.
type Reader interface {
	ReadLine(prompt string) (string, error)
}

// Lines reads lines from r, writing each prompt to w first.
type Lines struct {
	r      *bufio.Reader
	w      io.Writer
	styles theme.Styles

	done    <-chan struct{}
	lines   chan lineResult
	pending bool
}

type lineResult struct {
	line string
	err  error
}

// New returns a Lines reader.
func New(r io.Reader, w io.Writer, color bool) *Lines {
	return &Lines{
		r:      bufio.NewReader(r),
		w:      w,
		styles: theme.New(color),
	}
}

// WithContext makes ReadLine return ErrInterrupted as soon as ctx is done,
// even while blocked on input. The blocked read finishes in the background
// and its line is delivered to the next ReadLine if ctx was never done.
func (l *Lines) WithContext(ctx context.Context) *Lines {
	l.done = ctx.Done()
	if l.done != nil {
		l.lines = make(chan lineResult, 1)
	}
	return l
}

// ReadLine prints prompt and returns the next line without its newline and
// surrounding whitespace. A final unterminated line is returned before
// io.EOF.
func (l *Lines) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		_, _ = lipgloss.Fprint(l.w, "  "+l.styles.Body.Render(prompt+" ▸ "))
	}

	line, err := l.next()
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (l *Lines) next() (string, error) {
	if l.done == nil {
		return l.r.ReadString('\n')
	}
	select {
	case <-l.done:
		return "", ErrInterrupted
	default:
	}
	if !l.pending {
		l.pending = true
		go func() {
			line, err := l.r.ReadString('\n')
			l.lines <- lineResult{line, err}
		}()
	}
	select {
	case res := <-l.lines:
		l.pending = false
		return res.line, res.err
	case <-l.done:
		return "", ErrInterrupted
	}
}

// Confirm asks a yes/no question. Empty input means yes; end of input
// means no.
func Confirm(in Reader, question string) bool {
	resp, err := in.ReadLine(question + " (y/n)")
	if err != nil {
		return false
	}
	switch strings.ToLower(resp) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

// ConfirmExact asks for a typed confirmation word, for irreversible actions.
func ConfirmExact(in Reader, question, word string) bool {
	resp, err := in.ReadLine(question)
	return err == nil && strings.EqualFold(resp, word)
}

// Pause waits for Enter. It reports false when input has ended.
func Pause(in Reader) bool {
	_, err := in.ReadLine("Press Enter to continue...")
	return err == nil
}
