// Package prompt implements the engine's human-input port on a terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrClosed is returned when the input reaches EOF before an answer.
var ErrClosed = errors.New("prompt: input closed")

// Terminal reads answers line by line from an io.Reader and writes prompts
// and notifications to an io.Writer.
//
// Thread-safety: Terminal serializes calls with a mutex. Reads block and
// are not interrupted by context cancellation; the context is checked
// before each prompt.
type Terminal struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Terminal over in and out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// RequestText writes prompt and returns the next line, trimmed.
func (t *Terminal) RequestText(ctx context.Context, prompt string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(t.out, "%s ", prompt)
	return t.readLine()
}

// RequestConfirmation writes prompt with a [y/N] suffix. Only "y" and
// "yes" (any case) confirm.
func (t *Terminal) RequestConfirmation(ctx context.Context, prompt string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(t.out, "%s [y/N] ", prompt)
	line, err := t.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Notify writes message on its own line.
func (t *Terminal) Notify(_ context.Context, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s\n", message)
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line != "" {
				return strings.TrimSpace(line), nil
			}
			return "", ErrClosed
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
