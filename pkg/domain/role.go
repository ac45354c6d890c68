package domain

// Role describes how a speaker is presented and how the engine treats its turns.
type Role struct {
	// Label is the display name, e.g. "Judge 1" or "Attorney General".
	Label string `json:"label" yaml:"label"`

	// Narration roles (clerk/system) are revealed without a thinking delay.
	Narration bool `json:"narration,omitempty" yaml:"narration,omitempty"`

	// Human roles suspend playback until the participant submits input.
	Human bool `json:"human,omitempty" yaml:"human,omitempty"`

	// Color is an optional hex colour hint for terminal renderers.
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// RoleSet maps every speaker of a script to its Role.
type RoleSet map[Speaker]Role

// DefaultRoles returns the standard appellate bench cast.
func DefaultRoles() RoleSet {
	return RoleSet{
		SpeakerJudge:       {Label: "Judge 1", Color: "#7c3aed"},
		SpeakerCoJudge1:    {Label: "Judge 2", Color: "#4f46e5"},
		SpeakerCoJudge2:    {Label: "Judge 3", Color: "#16a34a"},
		SpeakerProsecution: {Label: "Attorney General", Color: "#dc2626"},
		SpeakerRespondent:  {Label: "Appellant", Color: "#ea580c"},
		SpeakerClerk:       {Label: "Court Clerk", Narration: true, Color: "#6b7280"},
		SpeakerHuman:       {Label: "Defense Counsel", Human: true, Color: "#2563eb"},
	}
}

// Lookup returns the role registered for the speaker.
func (rs RoleSet) Lookup(s Speaker) (Role, bool) {
	r, ok := rs[s]
	return r, ok
}

// Label returns the display label of a speaker, or the raw speaker key if unknown.
func (rs RoleSet) Label(s Speaker) string {
	if r, ok := rs[s]; ok && r.Label != "" {
		return r.Label
	}
	return string(s)
}

// Clone returns an independent copy of the set.
func (rs RoleSet) Clone() RoleSet {
	out := make(RoleSet, len(rs))
	for k, v := range rs {
		out[k] = v
	}
	return out
}
