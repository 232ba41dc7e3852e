package prompter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

// TTYPrompter asks questions on a line-oriented terminal.
type TTYPrompter struct {
	reader *bufio.Reader
	out    io.Writer
	closer io.Closer
}

// NewTTYPrompter reads from /dev/tty when available so piped stdin does not
// swallow the answers, and falls back to stdin/stdout otherwise.
func NewTTYPrompter(logger *slog.Logger) *TTYPrompter {
	if logger == nil {
		logger = slog.Default()
	}
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		logger.Debug("TTY not available, prompting on stdin", "error", err)
		return NewLinePrompter(os.Stdin, os.Stdout)
	}
	p := NewLinePrompter(tty, tty)
	p.closer = tty
	return p
}

// NewLinePrompter prompts on out and reads one line per answer from in.
func NewLinePrompter(in io.Reader, out io.Writer) *TTYPrompter {
	return &TTYPrompter{reader: bufio.NewReader(in), out: out}
}

func (p *TTYPrompter) AskYesNo(prompt string) (bool, error) {
	_, _ = fmt.Fprintf(p.out, "%s [y/n]: ", prompt)

	line, err := p.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("failed to read answer: %w", err)
		}
		if line == "" {
			return false, fmt.Errorf("%w: no answer before end of input", domain.ErrValidation)
		}
	}
	return ParseYesNo(line)
}

// Close releases the terminal if this prompter opened one.
func (p *TTYPrompter) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
