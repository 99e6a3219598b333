package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/slidedeck/internal/config"
	"github.com/jask/slidedeck/internal/deck"
)

type fakeNav struct {
	current, total int
}

func (n *fakeNav) Next() bool {
	if n.current >= n.total-1 {
		return false
	}
	n.current++
	return true
}

func (n *fakeNav) Prev() bool {
	if n.current <= 0 {
		return false
	}
	n.current--
	return true
}

func (n *fakeNav) GoTo(i int) error {
	if i < 0 || i >= n.total {
		return &deck.IndexError{Index: i, Len: n.total}
	}
	n.current = i
	return nil
}

func (n *fakeNav) Total() int { return n.total }

func TestRouterAttachOnce(t *testing.T) {
	r := NewRouter(newKeyMap(config.KeysConfig{}), true)
	nav := &fakeNav{total: 3}

	detach, err := r.Attach(nav)
	require.NoError(t, err)
	_, err = r.Attach(nav)
	require.True(t, errors.Is(err, deck.ErrRouterAttached))

	r.HandleKey(keyMsg("right"))
	require.Equal(t, 1, nav.current)

	detach()
	detach()
	require.False(t, r.Attached())
	require.Equal(t, routed{}, r.HandleKey(keyMsg("right")))
	require.Equal(t, 1, nav.current)

	detach, err = r.Attach(nav)
	require.NoError(t, err)
	defer detach()
	r.HandleKey(keyMsg("left"))
	require.Equal(t, 0, nav.current)
}

func TestRouterActions(t *testing.T) {
	r := NewRouter(newKeyMap(config.KeysConfig{Quit: []string{"x"}}), false)
	nav := &fakeNav{total: 12}
	detach, err := r.Attach(nav)
	require.NoError(t, err)
	defer detach()

	require.Equal(t, actionJumpPrompt, r.HandleKey(keyMsg(":")).action)
	require.Equal(t, actionHelp, r.HandleKey(keyMsg("?")).action)
	require.Equal(t, actionQuit, r.HandleKey(keyMsg("x")).action)
	require.Equal(t, actionNone, r.HandleKey(keyMsg("z")).action)

	r.HandleKey(keyMsg("1"))
	r.HandleKey(keyMsg("1"))
	require.Equal(t, "11", r.PendingDigits())
	res := r.HandleKey(keyMsg("enter"))
	require.NoError(t, res.err)
	require.Equal(t, 10, nav.current)

	r.HandleKey(keyMsg("0"))
	res = r.HandleKey(keyMsg("enter"))
	require.ErrorIs(t, res.err, deck.ErrIndexOutOfRange)
	require.Equal(t, 10, nav.current)

	res = r.HandleKey(keyMsg("end"))
	require.NoError(t, res.err)
	require.Equal(t, 11, nav.current)
}

func TestNormalizeKey(t *testing.T) {
	require.Equal(t, " ", normalizeKey("space"))
	require.Equal(t, "G", normalizeKey("G"))
	require.Equal(t, "pgdown", normalizeKey(" PgDown "))
	require.Equal(t, "", normalizeKey("  "))
}
