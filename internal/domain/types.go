// Package domain contains core types for the Retrodesk window system.
package domain

import "fmt"

// SectionID identifies one page section. The set is closed.
type SectionID string

const (
	SectionHero       SectionID = "hero"
	SectionProblem    SectionID = "problem"
	SectionCategory   SectionID = "category"
	SectionExperience SectionID = "experience"
	SectionPackages   SectionID = "packages"
	SectionContact    SectionID = "contact"
	SectionImprint    SectionID = "imprint"
	SectionFooter     SectionID = "footer"
)

// AllSections lists every known section in page order
var AllSections = []SectionID{
	SectionHero,
	SectionProblem,
	SectionCategory,
	SectionExperience,
	SectionPackages,
	SectionContact,
	SectionImprint,
	SectionFooter,
}

func (s SectionID) String() string {
	return string(s)
}

// Valid reports whether s belongs to the closed section set
func (s SectionID) Valid() bool {
	for _, known := range AllSections {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSectionID converts a raw identifier into a SectionID
func ParseSectionID(raw string) (SectionID, error) {
	id := SectionID(raw)
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, raw)
	}
	return id, nil
}

// ParseSequence converts a list of raw identifiers, rejecting unknown ones and duplicates
func ParseSequence(raw []string) ([]SectionID, error) {
	seen := make(map[SectionID]bool, len(raw))
	ids := make([]SectionID, 0, len(raw))
	for _, r := range raw {
		id, err := ParseSectionID(r)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %q listed twice", ErrInvalidSequence, r)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// Position is a top-left screen coordinate in terminal cells
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Size is a window extent in terminal cells
type Size struct {
	Width  int `json:"width" yaml:"width" mapstructure:"width"`
	Height int `json:"height" yaml:"height" mapstructure:"height"`
}

// IsZero reports whether no size has been recorded
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}
