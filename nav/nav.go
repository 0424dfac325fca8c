// Package nav is the dashboard section switch: home plus one level of sections.
package nav

import (
	"errors"
	"fmt"
	"sync"
)

type Section string

const (
	Home       Section = "home"
	Trainings  Section = "trainings"
	Deliveries Section = "deliveries"
	Documents  Section = "documents"
)

var Sections = []Section{Home, Trainings, Deliveries, Documents}

var ErrInvalidTransition = errors.New("sections can only be opened from home")

func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// Navigator holds the current section of one session. There is no history
// beyond home; Back always lands on home.
type Navigator struct {
	mu      sync.Mutex
	current Section
}

func New() *Navigator {
	return &Navigator{current: Home}
}

func (n *Navigator) Current() Section {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Open pushes s from home. Opening the section already shown is a no-op.
func (n *Navigator) Open(s Section) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if s == n.current {
		return nil
	}
	if s == Home || n.current != Home {
		return ErrInvalidTransition
	}
	n.current = s
	return nil
}

func (n *Navigator) Back() Section {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = Home
	return n.current
}
