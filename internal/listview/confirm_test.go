package listview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateRunsOnlyOnConfirm(t *testing.T) {
	var g Gate
	fired := 0
	action := PendingAction{Name: "ban", ID: "u1", Prompt: "Ban u1?", Run: func(ctx context.Context) error {
		fired++
		return nil
	}}

	require.NoError(t, g.Request(action))
	assert.Equal(t, 0, fired, "requesting never fires the action")
	pending, ok := g.Pending()
	require.True(t, ok)
	assert.Equal(t, "u1", pending.ID)

	assert.ErrorIs(t, g.Request(action), ErrAlreadyPending)

	require.NoError(t, g.Confirm(context.Background()))
	assert.Equal(t, 1, fired)
	_, ok = g.Pending()
	assert.False(t, ok)

	assert.ErrorIs(t, g.Confirm(context.Background()), ErrNothingPending)
	assert.Equal(t, 1, fired)
}

func TestGateCancel(t *testing.T) {
	var g Gate
	fired := false
	require.NoError(t, g.Request(PendingAction{Name: "delete", Run: func(context.Context) error {
		fired = true
		return nil
	}}))

	assert.True(t, g.Cancel())
	assert.False(t, g.Cancel())
	assert.ErrorIs(t, g.Confirm(context.Background()), ErrNothingPending)
	assert.False(t, fired)

	assert.Error(t, g.Request(PendingAction{Name: "noop"}))
}

func TestGateAsk(t *testing.T) {
	var g Gate
	fired := 0
	action := PendingAction{Name: "kill-switch", Prompt: "Kill all sessions?", Run: func(context.Context) error {
		fired++
		return nil
	}}

	var prompts []string
	yes := ConfirmFunc(func(p string) (bool, error) { prompts = append(prompts, p); return true, nil })
	no := ConfirmFunc(func(string) (bool, error) { return false, nil })
	broken := ConfirmFunc(func(string) (bool, error) { return false, errors.New("eof") })

	require.NoError(t, g.Ask(context.Background(), action, yes))
	assert.Equal(t, 1, fired)
	assert.Equal(t, []string{"Kill all sessions?"}, prompts)

	assert.ErrorIs(t, g.Ask(context.Background(), action, no), ErrCancelled)
	assert.Error(t, g.Ask(context.Background(), action, broken))
	assert.Equal(t, 1, fired)
	_, ok := g.Pending()
	assert.False(t, ok, "declined actions are dropped")
}
