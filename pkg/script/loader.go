package script

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a script document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// speakerAliases maps the role names of the original simulator onto the default cast.
var speakerAliases = map[string]domain.Speaker{
	"judge1":    domain.SpeakerJudge,
	"judge2":    domain.SpeakerCoJudge1,
	"judge3":    domain.SpeakerCoJudge2,
	"appellant": domain.SpeakerRespondent,
	"accused":   domain.SpeakerRespondent,
	"system":    domain.SpeakerClerk,
	"narrator":  domain.SpeakerClerk,
	"user":      domain.SpeakerHuman,
	"defense":   domain.SpeakerHuman,
}

// Load reads and validates a script file. The format is chosen by extension;
// anything other than .json is parsed as YAML.
func Load(path string) (domain.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Script{}, fmt.Errorf("failed to read script: %w", err)
	}

	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}

	s, err := Parse(data, format)
	if err != nil {
		return domain.Script{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if s.ID == "" {
		s.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes and validates a script document.
func Parse(data []byte, format Format) (domain.Script, error) {
	var raw map[string]any

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return domain.Script{}, fmt.Errorf("failed to parse script json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return domain.Script{}, fmt.Errorf("failed to parse script yaml: %w", err)
		}
	}

	s, err := Decode(raw)
	if err != nil {
		return domain.Script{}, err
	}
	if err := s.Validate(); err != nil {
		return domain.Script{}, err
	}
	return s, nil
}

// Decode converts a generic document (as produced by a YAML or JSON decoder)
// into a script without validating it.
func Decode(raw map[string]any) (domain.Script, error) {
	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return domain.Script{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.Script{}, fmt.Errorf("%w: %v", domain.ErrInvalidScript, err)
	}
	return doc.Script(), nil
}

// Script converts the document into the domain model.
func (d Document) Script() domain.Script {
	s := domain.Script{
		ID:    strings.TrimSpace(d.ID),
		Title: strings.TrimSpace(d.Title),
		Turns: make([]domain.Turn, 0, len(d.Turns)),
	}

	if len(d.Roles) > 0 {
		s.Roles = make(domain.RoleSet, len(d.Roles))
		for name, r := range d.Roles {
			s.Roles[domain.Speaker(strings.TrimSpace(name))] = domain.Role{
				Label:     r.Label,
				Narration: r.Narration,
				Human:     r.Human,
				Color:     r.Color,
			}
		}
	}

	for i, t := range d.Turns {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			id = strconv.Itoa(i + 1)
		}

		speaker := t.Speaker
		if speaker == "" {
			speaker = t.Role
		}

		content := t.Content
		if content == "" {
			content = t.Text
		}

		s.Turns = append(s.Turns, domain.Turn{
			ID:      id,
			Speaker: ResolveSpeaker(speaker, s.Roles),
			Content: strings.TrimSpace(content),
			Prompt:  strings.TrimSpace(t.Prompt),
		})
	}
	return s
}

// ResolveSpeaker keeps speakers declared by the script's own roles and maps
// the remaining ones through the alias table.
func ResolveSpeaker(name string, roles domain.RoleSet) domain.Speaker {
	name = strings.TrimSpace(name)
	if _, ok := roles[domain.Speaker(name)]; ok {
		return domain.Speaker(name)
	}

	key := strings.ToLower(name)
	if sp, ok := speakerAliases[key]; ok {
		return sp
	}
	return domain.Speaker(key)
}
