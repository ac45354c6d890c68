package cases

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/script"
	"gopkg.in/yaml.v3"
)

//go:embed data
var builtin embed.FS

// Case is one entry of the case library.
type Case struct {
	ID         string     `yaml:"id" json:"id"`
	Title      string     `yaml:"title" json:"title"`
	Subtitle   string     `yaml:"subtitle" json:"subtitle"`
	Court      string     `yaml:"court" json:"court"`
	CaseNumber string     `yaml:"case_number" json:"case_number,omitempty"`
	Year       int        `yaml:"year" json:"year"`
	Summary    string     `yaml:"summary" json:"summary"`
	Status     string     `yaml:"status" json:"status"`
	Resources  []Resource `yaml:"resources" json:"resources,omitempty"`

	// ScriptRef and ReportRef name the documents under data/scripts and data/reports.
	ScriptRef string `yaml:"script" json:"-"`
	ReportRef string `yaml:"report" json:"-"`

	// Playable is true when a scripted hearing exists for the case.
	Playable bool `yaml:"-" json:"playable"`
}

// Resource is an external reading reference for a case.
type Resource struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	URL         string `yaml:"url" json:"url"`
}

// Option is a practice role or practice mode offered when a session is set up.
type Option struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Catalog is the loaded case library. It is read-only after Load.
type Catalog struct {
	cases   []Case
	byID    map[string]int
	scripts map[string]domain.Script
	reports map[string]*Report

	Roles []Option
	Modes []Option
}

type catalogFile struct {
	Cases []Case   `yaml:"cases"`
	Roles []Option `yaml:"roles"`
	Modes []Option `yaml:"modes"`
}

// Default loads the built-in catalog.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(builtin, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// MustDefault is like Default but panics if the built-in catalog is broken.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("cases: built-in catalog: %v", err))
	}
	return c
}

// Load reads catalog.yaml from fsys together with the scripts and reports it references.
func Load(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, "catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		byID:    make(map[string]int, len(file.Cases)),
		scripts: make(map[string]domain.Script),
		reports: make(map[string]*Report),
		Roles:   file.Roles,
		Modes:   file.Modes,
	}

	for _, cs := range file.Cases {
		if _, dup := c.byID[cs.ID]; dup {
			return nil, fmt.Errorf("duplicate case id %q", cs.ID)
		}

		if cs.ScriptRef != "" {
			raw, err := fs.ReadFile(fsys, path.Join("scripts", cs.ScriptRef+".yaml"))
			if err != nil {
				return nil, fmt.Errorf("case %s: %w", cs.ID, err)
			}
			s, err := script.Parse(raw, script.FormatYAML)
			if err != nil {
				return nil, fmt.Errorf("case %s: %w", cs.ID, err)
			}
			c.scripts[cs.ID] = s
			cs.Playable = true
		}

		if cs.ReportRef != "" {
			raw, err := fs.ReadFile(fsys, path.Join("reports", cs.ReportRef+".yaml"))
			if err != nil {
				return nil, fmt.Errorf("case %s: %w", cs.ID, err)
			}
			var r Report
			if err := yaml.Unmarshal(raw, &r); err != nil {
				return nil, fmt.Errorf("case %s: failed to parse report: %w", cs.ID, err)
			}
			c.reports[cs.ID] = &r
		}

		c.byID[cs.ID] = len(c.cases)
		c.cases = append(c.cases, cs)
	}

	return c, nil
}

// List returns the cases, most recent first.
func (c *Catalog) List() []Case {
	out := append([]Case(nil), c.cases...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

// Get returns a case by ID.
func (c *Catalog) Get(id string) (Case, error) {
	i, ok := c.byID[id]
	if !ok {
		return Case{}, fmt.Errorf("%w: %s", domain.ErrCaseNotFound, id)
	}
	return c.cases[i], nil
}

// Script returns the scripted hearing of a case.
func (c *Catalog) Script(id string) (domain.Script, error) {
	s, ok := c.scripts[id]
	if !ok {
		return domain.Script{}, fmt.Errorf("%w: no hearing is scripted for %q", domain.ErrCaseNotFound, id)
	}
	return s, nil
}

// Report returns the static evaluation report of a case, if any.
func (c *Catalog) Report(id string) (*Report, bool) {
	r, ok := c.reports[id]
	return r, ok
}

// Role returns a practice role by ID.
func (c *Catalog) Role(id string) (Option, bool) {
	return find(c.Roles, id)
}

// Mode returns a practice mode by ID.
func (c *Catalog) Mode(id string) (Option, bool) {
	return find(c.Modes, id)
}

func find(opts []Option, id string) (Option, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
