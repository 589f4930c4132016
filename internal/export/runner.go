package export

import (
	"context"

	"netsketch/internal/richtext"
)

// Runner performs exports away from the goroutine that owns the scene.
type Runner struct {
	c *Compositor
}

func NewRunner(c *Compositor) *Runner {
	return &Runner{c: c}
}

// Run snapshots the scene and notes on the calling goroutine, then renders and
// writes the artifact on its own goroutine. The returned channel receives
// exactly one Outcome. Cancelling ctx is best effort: a write already under
// way may still leave a partial file.
func (r *Runner) Run(ctx context.Context, req Request) <-chan Outcome {
	req.Scene = req.Scene.Snapshot()
	if req.Surface != nil {
		req.Surface = richtext.Freeze(req.Surface)
	}
	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		if err := ctx.Err(); err != nil {
			done <- Outcome{Format: req.Format, Path: WithExtension(req.Path, req.Format), Err: err}
			return
		}
		done <- r.c.Export(ctx, req)
	}()
	return done
}
