package prompt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_RequestText(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("  Rohit \r\nGill\n"), &out)

	got, err := term.RequestText(context.Background(), "Striker:")
	require.NoError(t, err)
	assert.Equal(t, "Rohit", got)

	got, err = term.RequestText(context.Background(), "Non-striker:")
	require.NoError(t, err)
	assert.Equal(t, "Gill", got)

	assert.Equal(t, "Striker: Non-striker: ", out.String())
}

func TestTerminal_RequestConfirmation(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("YES\nn\n\ny"), &out)
	ctx := context.Background()

	for _, want := range []bool{true, false, false, true} {
		got, err := term.RequestConfirmation(ctx, "Resume match?")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.True(t, strings.HasPrefix(out.String(), "Resume match? [y/N] "))
}

func TestTerminal_EOF(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), &bytes.Buffer{})

	_, err := term.RequestText(context.Background(), "Bowler:")
	assert.ErrorIs(t, err, ErrClosed)

	_, err = term.RequestConfirmation(context.Background(), "Draw?")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestTerminal_CancelledContext(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("Rohit\n"), &out)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := term.RequestText(ctx, "Striker:")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String(), "nothing is prompted after cancellation")
}

func TestTerminal_Notify(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out)
	term.Notify(context.Background(), "Over Complete!")
	assert.Equal(t, "Over Complete!\n", out.String())
}
