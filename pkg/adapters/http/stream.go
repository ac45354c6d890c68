package http

import (
	"context"
	"strings"

	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/ports"
)

// watchDiffs calls emit with every change of the session, starting with the
// full snapshot, until the session finishes or is closed (nil) or ctx is done.
func watchDiffs(ctx context.Context, s ports.Session, emit func(*domain.SnapshotDiff) error) error {
	events, cancel := s.Subscribe()
	defer cancel()

	var last *domain.Snapshot
	for {
		snap := s.Snapshot()
		if diff := domain.Diff(last, snap); diff != nil {
			if err := emit(diff); err != nil {
				return err
			}
		}
		last = snap

		if snap.Finished || snap.Closed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				events = nil
			}
		}
	}
}

// watchFilter keeps the diffs touching at least one watched field.
// An empty filter keeps everything.
type watchFilter map[string]bool

func parseWatch(raw string) watchFilter {
	f := watchFilter{}
	for _, field := range strings.Split(raw, ",") {
		if field = strings.TrimSpace(field); field != "" {
			f[field] = true
		}
	}
	return f
}

func (f watchFilter) keep(d *domain.SnapshotDiff) bool {
	if len(f) == 0 {
		return true
	}
	switch {
	case f["transcript"] && len(d.Appended) > 0:
		return true
	case f["thinking"] && d.Thinking != nil:
		return true
	case f["awaiting"] && (d.AwaitingHuman != nil || d.Prompt != nil):
		return true
	case f["status"] && (d.Mode != nil || d.Finished != nil || d.Closed != nil):
		return true
	}
	return false
}
