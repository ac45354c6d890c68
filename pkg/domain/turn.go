package domain

import "strings"

// Speaker identifies the role a turn is attributed to.
// The set of valid speakers is defined per script by its RoleSet.
type Speaker string

// Default courtroom speakers.
const (
	SpeakerJudge       Speaker = "judge"
	SpeakerCoJudge1    Speaker = "co-judge-1"
	SpeakerCoJudge2    Speaker = "co-judge-2"
	SpeakerProsecution Speaker = "prosecution"
	SpeakerRespondent  Speaker = "respondent"
	SpeakerClerk       Speaker = "clerk"
	SpeakerHuman       Speaker = "human"
)

// DefaultPrompt is shown to the human participant when a human turn has no prompt of its own.
const DefaultPrompt = "Enter your response as Defense Counsel..."

// WaitingPrompt is shown while playback is running and input is disabled.
const WaitingPrompt = "Please wait for your turn..."

// Turn is one scripted utterance or human input slot.
type Turn struct {
	ID      string  `json:"id" yaml:"id"`
	Speaker Speaker `json:"speaker" yaml:"speaker"`

	// Content is the utterance text. Human turns are authored empty and
	// only receive content once the participant submits a response.
	Content string `json:"content" yaml:"content"`

	// Prompt is the instruction shown while awaiting a human turn.
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
}

// PromptOrDefault returns the turn prompt, falling back to DefaultPrompt.
func (t Turn) PromptOrDefault() string {
	if p := strings.TrimSpace(t.Prompt); p != "" {
		return p
	}
	return DefaultPrompt
}

// WithContent returns a copy of the turn carrying the given content.
func (t Turn) WithContent(content string) Turn {
	t.Content = content
	return t
}
