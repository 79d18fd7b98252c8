package previewjanitor

import (
	"context"
	"time"

	"dashpmo/internal/logging"
)

// Sweeper drops expired previews and reports how many it removed.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Run sweeps on every tick until ctx is done. It blocks; start it in a goroutine.
func Run(ctx context.Context, s Sweeper, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				logging.Infof("preview janitor: %d expired previews dropped", n)
			}
		}
	}
}
