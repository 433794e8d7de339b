package service

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// WriteResult is the outcome of a write to the document store followed by
// its secondary effects. Mirror and Notify are only attempted once Primary
// succeeded, and their failures never undo it.
type WriteResult struct {
	Primary error
	Mirror  error
	Notify  error
}

// Degraded reports a primary success with a failed secondary effect.
func (r WriteResult) Degraded() bool {
	return r.Primary == nil && (r.Mirror != nil || r.Notify != nil)
}

// Warning is the client facing description of a degraded result.
func (r WriteResult) Warning() string {
	if !r.Degraded() {
		return ""
	}
	if r.Mirror != nil {
		return "Saved, but the search index was not updated. Edit the content again to repair it"
	}
	return "Saved, but watchers could not be notified"
}

// DeleteResult is the outcome of a cascade delete. The document store
// deletions all succeeded, Mirror joins the index deletions that failed.
type DeleteResult struct {
	Deleted int
	Mirror  error
	failed  int
}

func (r DeleteResult) Degraded() bool {
	return r.Mirror != nil
}

func (r DeleteResult) Warning() string {
	if !r.Degraded() {
		return ""
	}
	return fmt.Sprintf("Deleted, but %d search index record(s) could not be removed", r.failed)
}

func (r *DeleteResult) addMirrorFailure(err error) {
	r.failed++
	r.Mirror = errors.Join(r.Mirror, err)
}

// writeThenMirror runs primary and, only if it succeeds, mirror.
func writeThenMirror(ctx context.Context, primary, mirror func(context.Context) error) WriteResult {
	var res WriteResult
	if res.Primary = primary(ctx); res.Primary != nil {
		return res
	}
	res.Mirror = mirror(ctx)
	return res
}

// detach returns a context that outlives client cancellation but is still
// bounded by timeout, so a started write runs to completion.
func detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
