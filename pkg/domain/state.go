package domain

// Mode is the engine state. Exactly one is active at any time.
type Mode string

const (
	ModeIdle          Mode = "idle"           // Constructed, not started
	ModeRevealing     Mode = "revealing"      // Walking automated turns
	ModeAwaitingHuman Mode = "awaiting_human" // Suspended on a human turn
	ModeFinished      Mode = "finished"       // Script exhausted (terminal)
)

// Snapshot is a point-in-time copy of a session, safe to hand to other goroutines.
type Snapshot struct {
	SessionID string `json:"session_id"`
	ScriptID  string `json:"script_id,omitempty"`
	Mode      Mode   `json:"mode"`

	// Cursor is the index of the next unrevealed turn.
	Cursor int `json:"cursor"`

	// Total is the script length.
	Total int `json:"total"`

	// Transcript is the revealed prefix of the script, human content filled in.
	Transcript []Turn `json:"transcript"`

	// Thinking is true while an automated turn's delay is pending.
	Thinking bool `json:"thinking"`

	AwaitingHuman bool `json:"awaiting_human"`

	// Prompt is the instruction for the pending human turn (empty otherwise).
	Prompt string `json:"prompt,omitempty"`

	Finished bool `json:"finished"`
	Closed   bool `json:"closed,omitempty"`
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Transcript = append([]Turn(nil), s.Transcript...)
	return &out
}
