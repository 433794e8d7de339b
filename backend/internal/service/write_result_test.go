package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenMirror(t *testing.T) {
	ctx := context.Background()
	errPrimary := errors.New("primary")
	errMirror := errors.New("mirror")

	t.Run("both succeed", func(t *testing.T) {
		res := writeThenMirror(ctx, func(context.Context) error { return nil }, func(context.Context) error { return nil })
		assert.NoError(t, res.Primary)
		assert.NoError(t, res.Mirror)
		assert.False(t, res.Degraded())
		assert.Empty(t, res.Warning())
	})

	t.Run("primary failure skips mirror", func(t *testing.T) {
		mirrored := false
		res := writeThenMirror(ctx,
			func(context.Context) error { return errPrimary },
			func(context.Context) error { mirrored = true; return nil })
		assert.ErrorIs(t, res.Primary, errPrimary)
		assert.False(t, mirrored)
		assert.False(t, res.Degraded())
	})

	t.Run("mirror failure degrades", func(t *testing.T) {
		res := writeThenMirror(ctx, func(context.Context) error { return nil }, func(context.Context) error { return errMirror })
		assert.True(t, res.Degraded())
		assert.Contains(t, res.Warning(), "search index")
	})
}

func TestDeleteResult(t *testing.T) {
	var res DeleteResult
	assert.False(t, res.Degraded())
	assert.Empty(t, res.Warning())

	a, b := errors.New("a"), errors.New("b")
	res.addMirrorFailure(a)
	res.addMirrorFailure(b)
	assert.True(t, res.Degraded())
	assert.ErrorIs(t, res.Mirror, a)
	assert.ErrorIs(t, res.Mirror, b)
	assert.Equal(t, "Deleted, but 2 search index record(s) could not be removed", res.Warning())
}

func TestDetach(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := detach(parent, time.Second)
	defer stop()

	cancel()
	require.NoError(t, ctx.Err(), "client cancellation must not stop the write")

	_, ok := ctx.Deadline()
	assert.True(t, ok)
}
