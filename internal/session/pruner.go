package session

import (
	"context"
	"time"
)

// RunPruner prunes the store every interval until ctx is done. report, when
// set, receives the number removed and the number left after each pass.
func (s *Store) RunPruner(ctx context.Context, interval, ttl time.Duration, report func(removed, remaining int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.Prune(ttl)
			if report != nil {
				report(removed, s.Len())
			}
		}
	}
}
