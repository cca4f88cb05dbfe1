package overlay

import "github.com/riordanpawley/retrodesk/internal/domain"

// Stack is the z-order of open windows. Insertion order is z-order: the last
// element is topmost. Ids are unique.
type Stack struct {
	ids []domain.SectionID
}

// NewStack creates a new empty stack
func NewStack() *Stack {
	return &Stack{
		ids: make([]domain.SectionID, 0),
	}
}

// Push appends id on top. Returns false if id is already present.
func (s *Stack) Push(id domain.SectionID) bool {
	if s.Contains(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove takes id out of the stack, keeping the order of the rest
func (s *Stack) Remove(id domain.SectionID) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	return true
}

// Raise moves id to the top without changing the relative order of the
// others. Returns false if id is absent or already on top.
func (s *Stack) Raise(id domain.SectionID) bool {
	i := s.index(id)
	if i < 0 || i == len(s.ids)-1 {
		return false
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	s.ids = append(s.ids, id)
	return true
}

// Top returns the topmost id
func (s *Stack) Top() (domain.SectionID, bool) {
	if len(s.ids) == 0 {
		return "", false
	}
	return s.ids[len(s.ids)-1], true
}

// Contains reports whether id is in the stack
func (s *Stack) Contains(id domain.SectionID) bool {
	return s.index(id) >= 0
}

// Depth returns the number of ids in the stack
func (s *Stack) Depth() int {
	return len(s.ids)
}

// IsEmpty returns true if the stack has no ids
func (s *Stack) IsEmpty() bool {
	return len(s.ids) == 0
}

// IDs returns a copy of the stack, bottom first
func (s *Stack) IDs() []domain.SectionID {
	out := make([]domain.SectionID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Stack) index(id domain.SectionID) int {
	for i, v := range s.ids {
		if v == id {
			return i
		}
	}
	return -1
}
