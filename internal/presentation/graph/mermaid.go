package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/mootcourt/pkg/domain"
)

// previewLength caps the utterance excerpt shown inside a node.
const previewLength = 40

// Overlay contains live session data to visualize on the graph.
type Overlay struct {
	// Revealed is the number of turns already in the transcript.
	Revealed int
	// Current is the index of the pending turn, or -1 when none.
	Current int
}

// OverlayFromSnapshot derives an overlay from a session snapshot.
func OverlayFromSnapshot(s *domain.Snapshot) *Overlay {
	if s == nil {
		return nil
	}
	current := s.Cursor
	if s.Finished || s.Closed || (!s.AwaitingHuman && !s.Thinking) {
		current = -1
	}
	return &Overlay{Revealed: len(s.Transcript), Current: current}
}

// GenerateMermaid produces a Mermaid flowchart of a script's turn order.
// It applies semantic styling:
// - First turn: ((Circle))
// - Human turn: [/Parallelogram/]
// - Narration: ([Stadium])
// - Default: [Rectangle]
// Edges into deliberating turns are dotted to mark the thinking pause.
// It also applies overlay styles (revealed/current) if provided.
func GenerateMermaid(script domain.Script, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make([]string, len(script.Turns))
	for i, turn := range script.Turns {
		ids[i] = sanitizeMermaidID(fmt.Sprintf("t%d_%s", i, turn.ID))
		role := script.Role(turn.Speaker)

		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case role.Human:
			opener, closer = "[/", "/]"
		case role.Narration:
			opener, closer = "([", "])"
		}

		text := turn.Content
		if role.Human {
			text = turn.PromptOrDefault()
		}
		label := fmt.Sprintf("%s: %s", script.RoleSet().Label(turn.Speaker), preview(text))
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", ids[i], opener, escapeLabel(label), closer)
	}

	for i := 1; i < len(script.Turns); i++ {
		arrow := "-->"
		role := script.Role(script.Turns[i].Speaker)
		if !role.Human && !role.Narration {
			arrow = "-.->"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", ids[i-1], arrow, ids[i])
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme
		sb.WriteString("    classDef revealed fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for i := 0; i < overlay.Revealed && i < len(ids); i++ {
			fmt.Fprintf(&sb, "    class %s revealed;\n", ids[i])
		}
		if overlay.Current >= 0 && overlay.Current < len(ids) {
			fmt.Fprintf(&sb, "    class %s current;\n", ids[overlay.Current])
		}
	}

	return sb.String()
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= previewLength {
		return s
	}
	return string(r[:previewLength-3]) + "..."
}

// escapeLabel swaps characters that break a quoted Mermaid label.
func escapeLabel(s string) string {
	return strings.NewReplacer("\"", "'", "<", "&lt;", ">", "&gt;").Replace(s)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
