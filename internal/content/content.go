// Package content supplies the label, icon and copy for every section.
//
// Copy is read from YAML. A default set is embedded in the binary; a file
// given in the configuration replaces it. Loading fails fast on anything
// the desktop could not render.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/riordanpawley/retrodesk/internal/core/layout"
	"github.com/riordanpawley/retrodesk/internal/core/typewriter"
	"github.com/riordanpawley/retrodesk/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed sections.yaml
var defaultSections []byte

// Mode values accepted in the YAML "mode" field
const (
	ModeBlock = "block"
	ModeLines = "lines"
)

// Section is one window's presentation data
type Section struct {
	ID      domain.SectionID
	Label   string
	Icon    string
	Region  layout.Region
	Size    domain.Size
	Mode    string
	Content string
}

// Multiline reports whether the section types line by line
func (s Section) Multiline() bool {
	return s.Mode == ModeLines
}

// Lines returns the content split on line breaks
func (s Section) Lines() []string {
	return typewriter.SplitLines(s.Content)
}

type rawFile struct {
	Sections []rawSection `yaml:"sections"`
}

type rawSection struct {
	ID      string      `yaml:"id"`
	Label   string      `yaml:"label"`
	Icon    string      `yaml:"icon"`
	Region  string      `yaml:"region"`
	Mode    string      `yaml:"mode"`
	Size    domain.Size `yaml:"size"`
	Content string      `yaml:"content"`
}

// Registry holds the sections in file order
type Registry struct {
	order    []domain.SectionID
	sections map[domain.SectionID]Section
}

// Default returns the embedded registry
func Default() (*Registry, error) {
	return Parse(defaultSections)
}

// LoadFile reads a registry from a YAML file
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Load returns the registry from path, or the embedded default when path is empty
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse builds a registry from YAML data
func Parse(data []byte) (*Registry, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse content YAML: %w", err)
	}
	if len(raw.Sections) == 0 {
		return nil, &domain.ConfigError{Op: "content", Message: "no sections defined", Err: domain.ErrMissingContent}
	}

	reg := &Registry{
		sections: make(map[domain.SectionID]Section, len(raw.Sections)),
	}
	for _, rs := range raw.Sections {
		s, err := rs.section()
		if err != nil {
			return nil, err
		}
		if _, dup := reg.sections[s.ID]; dup {
			return nil, &domain.ConfigError{Op: "content", Section: s.ID, Message: "defined twice"}
		}
		reg.sections[s.ID] = s
		reg.order = append(reg.order, s.ID)
	}
	return reg, nil
}

func (rs rawSection) section() (Section, error) {
	id, err := domain.ParseSectionID(rs.ID)
	if err != nil {
		return Section{}, &domain.ConfigError{Op: "content", Message: "bad section id", Err: err}
	}
	if strings.TrimSpace(rs.Content) == "" {
		return Section{}, &domain.ConfigError{Op: "content", Section: id, Message: "no text", Err: domain.ErrMissingContent}
	}
	if strings.TrimSpace(rs.Label) == "" {
		return Section{}, &domain.ConfigError{Op: "content", Section: id, Message: "no label", Err: domain.ErrMissingContent}
	}

	region := layout.Center
	if rs.Region != "" {
		region, err = layout.ParseRegion(rs.Region)
		if err != nil {
			return Section{}, &domain.ConfigError{Op: "content", Section: id, Message: "bad region", Err: err}
		}
	}

	mode := rs.Mode
	switch mode {
	case "":
		mode = ModeBlock
	case ModeBlock, ModeLines:
	default:
		return Section{}, &domain.ConfigError{Op: "content", Section: id, Message: fmt.Sprintf("unknown mode %q", mode)}
	}

	if rs.Size.Width < 0 || rs.Size.Height < 0 {
		return Section{}, &domain.ConfigError{Op: "content", Section: id, Message: "negative size"}
	}

	return Section{
		ID:      id,
		Label:   rs.Label,
		Icon:    rs.Icon,
		Region:  region,
		Size:    rs.Size,
		Mode:    mode,
		Content: strings.TrimRight(rs.Content, "\n"),
	}, nil
}

// Get returns the section for id
func (r *Registry) Get(id domain.SectionID) (Section, bool) {
	s, ok := r.sections[id]
	return s, ok
}

// IDs returns the section ids in file order
func (r *Registry) IDs() []domain.SectionID {
	out := make([]domain.SectionID, len(r.order))
	copy(out, r.order)
	return out
}

// Sections returns all sections in file order
func (r *Registry) Sections() []Section {
	out := make([]Section, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sections[id])
	}
	return out
}

// Require checks that every id in ids has content. op names the sequence
// being checked in the error.
func (r *Registry) Require(op string, ids []domain.SectionID) error {
	for _, id := range ids {
		if _, ok := r.sections[id]; !ok {
			return &domain.ConfigError{Op: op, Section: id, Message: "no content registered", Err: domain.ErrMissingContent}
		}
	}
	return nil
}
