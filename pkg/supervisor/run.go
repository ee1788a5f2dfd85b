package supervisor

import (
	"context"
	"runtime"
	"time"
)

// Run drives Tick until it returns Terminate. A pollInterval of zero or less
// busy-polls, yielding to the Go scheduler between ticks. Cancelling ctx stops
// the loop the same way the Kill menu item does and returns ctx.Err().
func Run(ctx context.Context, s *Supervisor, pollInterval time.Duration) error {
	var tick <-chan time.Time
	if pollInterval > 0 {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if s.Tick() == Terminate {
			return nil
		}

		if tick == nil {
			select {
			case <-ctx.Done():
				s.Stop("context cancelled")
				return ctx.Err()
			default:
				runtime.Gosched()
			}
			continue
		}

		select {
		case <-ctx.Done():
			s.Stop("context cancelled")
			return ctx.Err()
		case <-tick:
		}
	}
}
