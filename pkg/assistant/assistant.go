// Package assistant runs the console chat loop of the parking assistant.
package assistant

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/123Haben/parking-place/internal/i18n"
)

// Model answers one question under a system instruction.
type Model interface {
	Reply(ctx context.Context, system, question string) (string, error)
}

// ExitWords end the loop, compared case-insensitively.
var ExitWords = []string{"exit", "quit", "stop"}

// Chat is a console conversation.
type Chat struct {
	model  Model
	l      *i18n.Localizer
	logger *slog.Logger
}

// NewChat creates a chat against model with strings from l.
func NewChat(model Model, l *i18n.Localizer, logger *slog.Logger) *Chat {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chat{
		model:  model,
		l:      l,
		logger: logger.With("component", "assistant"),
	}
}

// Run reads one question per line from in and writes the replies to out
// until an exit word, end of input or ctx is done. A failed reply is
// reported on out and the loop continues.
//
// Cancelling ctx returns immediately, even while a line is being read.
func (c *Chat) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	system := c.l.T("chat.system")

	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(in, done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := io.WriteString(out, c.l.T("chat.prompt")); err != nil {
			return err
		}

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			if err := <-readErr; err != nil {
				return fmt.Errorf("read question: %w", err)
			}
			fmt.Fprintln(out)
			return nil
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		if IsExit(question) {
			return nil
		}

		answer, err := c.model.Reply(ctx, system, question)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("reply failed", "error", err)
			fmt.Fprintln(out, c.l.T("chat.error"), err)
			continue
		}
		fmt.Fprintln(out, c.l.T("chat.reply"), answer)
	}
}

// readLines scans in on its own goroutine. lines is closed at end of input,
// after the scan error (or nil) is sent on errc. The goroutine stops sending
// once done is closed; a Read already blocked in in returns only when in does.
func readLines(in io.Reader, done <-chan struct{}) (lines <-chan string, errc <-chan error) {
	out := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case out <- sc.Text():
			case <-done:
				return
			}
		}
		errs <- sc.Err()
	}()
	return out, errs
}

// IsExit reports whether s is an exit word.
func IsExit(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, w := range ExitWords {
		if s == w {
			return true
		}
	}
	return false
}
