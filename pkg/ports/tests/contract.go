package tests

import (
	"testing"
	"time"

	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/ports"
)

// SessionFactory starts a session for the script and returns it together with
// a function that moves the session's clock forward.
type SessionFactory func(t *testing.T, script domain.Script) (ports.Session, func(time.Duration))

// SessionContractTest is a reusable test suite that verifies if a host-facing
// session complies with ports.Session.
func SessionContractTest(t *testing.T, newSession SessionFactory, thinking time.Duration) {
	t.Helper()

	t.Run("Automated_Script_Finishes", func(t *testing.T) {
		s, _ := newSession(t, domain.Script{ID: "auto", Turns: []domain.Turn{
			{ID: "1", Speaker: domain.SpeakerJudge, Content: "A"},
			{ID: "2", Speaker: domain.SpeakerClerk, Content: "B"},
		}})
		defer s.Close()

		snap := s.Snapshot()
		if got := texts(snap.Transcript); got != "A|B" {
			t.Errorf("transcript = %q, want %q", got, "A|B")
		}
		if !s.Finished() || !snap.Finished {
			t.Error("expected session to be finished")
		}
	})

	t.Run("Human_Turn_Suspends", func(t *testing.T) {
		s, advance := newSession(t, domain.Script{ID: "interleaved", Turns: []domain.Turn{
			{ID: "1", Speaker: domain.SpeakerJudge, Content: "Court opens"},
			{ID: "2", Speaker: domain.SpeakerHuman, Prompt: "Argue"},
			{ID: "3", Speaker: domain.SpeakerProsecution, Content: "Rebuttal"},
		}})
		defer s.Close()

		snap := s.Snapshot()
		if !snap.AwaitingHuman || snap.Prompt != "Argue" {
			t.Fatalf("expected to await human with prompt 'Argue', got %+v", snap)
		}
		if s.Submit("   ") {
			t.Error("blank submission must be rejected")
		}
		if !s.Submit("My argument") {
			t.Fatal("submission must be accepted while awaiting human")
		}
		if s.Submit("Again") {
			t.Error("second submission must be rejected while revealing")
		}

		advance(thinking)
		if got := texts(s.Snapshot().Transcript); got != "Court opens|My argument|Rebuttal" {
			t.Errorf("transcript = %q", got)
		}
		select {
		case <-s.Done():
		default:
			t.Error("Done must be closed after the last turn")
		}
	})

	t.Run("Close_Cancels_Reveal", func(t *testing.T) {
		s, advance := newSession(t, domain.Script{ID: "cancel", Turns: []domain.Turn{
			{ID: "1", Speaker: domain.SpeakerJudge, Content: "A"},
			{ID: "2", Speaker: domain.SpeakerJudge, Content: "B"},
		}})

		s.Close()
		advance(10 * thinking)
		if got := texts(s.Snapshot().Transcript); got != "A" {
			t.Errorf("transcript after close = %q, want %q", got, "A")
		}
		if s.Finished() {
			t.Error("closed session must not finish")
		}
	})
}

func texts(turns []domain.Turn) string {
	out := ""
	for i, t := range turns {
		if i > 0 {
			out += "|"
		}
		out += t.Content
	}
	return out
}
