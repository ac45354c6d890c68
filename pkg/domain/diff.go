package domain

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Mode   *Mode `json:"mode,omitempty"`
	Cursor *int  `json:"cursor,omitempty"`

	// Appended contains only turns added to the transcript since the old snapshot.
	Appended []Turn `json:"appended,omitempty"`

	Thinking      *bool   `json:"thinking,omitempty"`
	AwaitingHuman *bool   `json:"awaiting_human,omitempty"`
	Prompt        *string `json:"prompt,omitempty"`
	Finished      *bool   `json:"finished,omitempty"`
	Closed        *bool   `json:"closed,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{SessionID: newSnap.SessionID}

	if oldSnap == nil || oldSnap.Mode != newSnap.Mode {
		diff.Mode = &newSnap.Mode
	}
	if oldSnap == nil || oldSnap.Cursor != newSnap.Cursor {
		diff.Cursor = &newSnap.Cursor
	}
	if oldSnap == nil || oldSnap.Thinking != newSnap.Thinking {
		diff.Thinking = &newSnap.Thinking
	}
	if oldSnap == nil || oldSnap.AwaitingHuman != newSnap.AwaitingHuman {
		diff.AwaitingHuman = &newSnap.AwaitingHuman
	}
	if (oldSnap == nil && newSnap.Prompt != "") || (oldSnap != nil && oldSnap.Prompt != newSnap.Prompt) {
		diff.Prompt = &newSnap.Prompt
	}
	if (oldSnap == nil && newSnap.Finished) || (oldSnap != nil && oldSnap.Finished != newSnap.Finished) {
		diff.Finished = &newSnap.Finished
	}
	if (oldSnap == nil && newSnap.Closed) || (oldSnap != nil && oldSnap.Closed != newSnap.Closed) {
		diff.Closed = &newSnap.Closed
	}

	diff.Appended = diffTranscript(oldSnap, newSnap)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffTranscript assumes the transcript is append-only.
func diffTranscript(oldSnap, newSnap *Snapshot) []Turn {
	if len(newSnap.Transcript) == 0 {
		return nil
	}
	if oldSnap == nil {
		return append([]Turn(nil), newSnap.Transcript...)
	}
	if len(newSnap.Transcript) > len(oldSnap.Transcript) {
		return append([]Turn(nil), newSnap.Transcript[len(oldSnap.Transcript):]...)
	}
	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Mode == nil &&
		d.Cursor == nil &&
		len(d.Appended) == 0 &&
		d.Thinking == nil &&
		d.AwaitingHuman == nil &&
		d.Prompt == nil &&
		d.Finished == nil &&
		d.Closed == nil
}
