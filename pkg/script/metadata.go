package script

// Document is the on-disk shape of a script.
// It uses "mapstructure" tags so YAML and JSON decode through the same path.
type Document struct {
	ID    string                  `mapstructure:"id"`
	Title string                  `mapstructure:"title"`
	Roles map[string]RoleMetadata `mapstructure:"roles"`
	Turns []TurnMetadata          `mapstructure:"turns"`
}

// TurnMetadata is one turn as authored.
type TurnMetadata struct {
	ID      string `mapstructure:"id"`
	Speaker string `mapstructure:"speaker"`
	Role    string `mapstructure:"role"`
	Content string `mapstructure:"content"`
	Text    string `mapstructure:"text"`
	Prompt  string `mapstructure:"prompt"`
}

// RoleMetadata is one cast member as authored.
type RoleMetadata struct {
	Label     string `mapstructure:"label"`
	Narration bool   `mapstructure:"narration"`
	Human     bool   `mapstructure:"human"`
	Color     string `mapstructure:"color"`
}
