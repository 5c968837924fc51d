package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/vending"
	"github.com/aretw0/vending/pkg/domain"
	"github.com/aretw0/vending/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...vending.Option) *vending.Engine {
	t.Helper()
	eng, err := vending.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return eng
}

func TestRunner_TextSession(t *testing.T) {
	eng := newEngine(t)
	in := strings.NewReader("10\ndispense\n25\ndispense\n5\nbogus\n7\nexit\n25\n")
	var out bytes.Buffer

	r := runner.NewRunner(
		runner.WithEngine(eng),
		runner.WithInputHandler(runner.NewTextHandler(in, &out)),
		runner.WithHeadless(true),
	)
	require.NoError(t, r.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "State q0 (0¢) | 30¢ to go")
	assert.Contains(t, got, "State q2 (10¢) | 20¢ to go")
	assert.Contains(t, got, "[System] Insert 20¢ more before dispensing.")
	assert.Contains(t, got, "State q6 (30¢) | price met, change 5¢")
	assert.Contains(t, got, "State q6 (30¢) | delivered, change 5¢")
	assert.Contains(t, got, "[System] Product already delivered. Reset to insert more coins.")
	assert.Contains(t, got, "unknown command")
	assert.Contains(t, got, "[System] Coin 7¢ not accepted. Use one of [5¢ 10¢ 25¢].")
	assert.NotContains(t, got, "Commands:", "headless runs skip the help text")

	// exit stops before the trailing 25
	s := eng.Snapshot()
	assert.True(t, s.Delivered)
	assert.Len(t, s.Log, 2)
}

func TestRunner_EOFEndsRun(t *testing.T) {
	eng := newEngine(t)
	var out bytes.Buffer

	r := runner.NewRunner(
		runner.WithEngine(eng),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("5\n5"), &out)),
	)
	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), "Commands:")
	assert.Equal(t, domain.Level(10), eng.Snapshot().Current)
}

func TestRunner_RequiresEngine(t *testing.T) {
	r := runner.NewRunner()
	assert.Error(t, r.Run(context.Background()))
}

func TestRunner_ContextCancel(t *testing.T) {
	eng := newEngine(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	r := runner.NewRunner(
		runner.WithEngine(eng),
		runner.WithInputHandler(runner.NewTextHandler(pr, io.Discard)),
		runner.WithHeadless(true),
	)

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop on cancel")
	}
}

func TestRunner_WaitsForDelay(t *testing.T) {
	eng := newEngine(t, vending.WithAnimationDelay(10*time.Millisecond))
	var out bytes.Buffer

	r := runner.NewRunner(
		runner.WithEngine(eng),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("25\n5\n"), &out)),
		runner.WithHeadless(true),
	)
	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), "State q5 (25¢) | 5¢ to go | busy")
	s := eng.Snapshot()
	assert.True(t, s.Accepting, "second coin must not be swallowed by the delay")
	assert.Len(t, s.Log, 2)
}

func TestRunner_CustomRenderer(t *testing.T) {
	eng := newEngine(t)
	var out bytes.Buffer

	h := runner.NewTextHandler(strings.NewReader("25\n"), &out,
		runner.WithTextHandlerRenderer(func(s domain.RunState) string { return "level=" + s.Label }),
		runner.WithTextHandlerPrompt("$ "),
	)
	r := runner.NewRunner(runner.WithEngine(eng), runner.WithInputHandler(h), runner.WithHeadless(true))
	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), "level=q0")
	assert.Contains(t, out.String(), "$ level=q5")
}

func TestRunner_JSONSession(t *testing.T) {
	eng := newEngine(t)
	in := strings.NewReader(`{"op":"insert_coin","coin":10}
{"op":"insert_coin","coin":25}
"dispense"
{"op":"insert_coin","coin":3}
reset
`)
	var out bytes.Buffer

	r := runner.NewRunner(
		runner.WithEngine(eng),
		runner.WithInputHandler(runner.NewJSONHandler(in, &out)),
		runner.WithHeadless(true),
	)
	require.NoError(t, r.Run(context.Background()))

	var msgs []runner.Message
	dec := json.NewDecoder(&out)
	for dec.More() {
		var m runner.Message
		require.NoError(t, dec.Decode(&m))
		msgs = append(msgs, m)
	}

	require.Len(t, msgs, 6)
	assert.Equal(t, "state", msgs[0].Type)
	assert.Equal(t, domain.Level(10), msgs[1].State.Current)
	assert.Equal(t, 5, msgs[2].State.Change)
	assert.True(t, msgs[3].State.Delivered)
	assert.Equal(t, "system", msgs[4].Type)
	assert.Contains(t, msgs[4].Message, "3¢")
	assert.Empty(t, msgs[5].State.Log)
}

func TestSanitizeInput(t *testing.T) {
	clean, err := runner.SanitizeInput("2\x1b[31m5")
	require.NoError(t, err)
	assert.Equal(t, "2[31m5", clean)

	_, err = runner.SanitizeInput(strings.Repeat("5", runner.DefaultMaxInputSize+1))
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)

	_, err = runner.SanitizeInput("\xff")
	assert.ErrorIs(t, err, runner.ErrInvalidUTF8)

	t.Setenv(runner.EnvMaxInputSize, "2")
	_, err = runner.SanitizeInput("100")
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)
}
