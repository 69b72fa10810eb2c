// Package nav tracks which section of the UI is visible.
package nav

import (
	"errors"
	"fmt"
	"sync"
)

type Section string

const (
	Dashboard Section = "dashboard"
	Wallet    Section = "wallet"
	Analytics Section = "analytics"
)

var ErrUnknownSection = errors.New("unknown section")

// Sections lists every destination in sidebar order.
var Sections = []Section{Dashboard, Wallet, Analytics}

var titles = map[Section]string{
	Dashboard: "Dashboard",
	Wallet:    "Wallet",
	Analytics: "Analytics",
}

func ParseSection(s string) (Section, error) {
	sec := Section(s)
	if _, ok := titles[sec]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return sec, nil
}

func (s Section) Title() string { return titles[s] }

func (s Section) String() string { return string(s) }

// NeedsRender reports whether switching to s must render the section afresh.
// The dashboard is already kept current by every fetch.
func (s Section) NeedsRender() bool {
	return s == Wallet || s == Analytics
}

// Transition is the outcome of a Select.
type Transition struct {
	From   Section
	To     Section
	Title  string
	Render bool
}

// Navigator holds exactly one active section; it starts on the dashboard.
type Navigator struct {
	mu     sync.RWMutex
	active Section
}

func New() *Navigator {
	return &Navigator{active: Dashboard}
}

// Select deactivates every section and activates dest.
func (n *Navigator) Select(dest string) (Transition, error) {
	sec, err := ParseSection(dest)
	if err != nil {
		return Transition{}, err
	}

	n.mu.Lock()
	from := n.active
	n.active = sec
	n.mu.Unlock()

	return Transition{From: from, To: sec, Title: sec.Title(), Render: sec.NeedsRender()}, nil
}

func (n *Navigator) Active() Section {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.active
}

// Title is the label of the active section.
func (n *Navigator) Title() string {
	return n.Active().Title()
}

// IsActive reports whether s is the current section; the sidebar marks it.
func (n *Navigator) IsActive(s Section) bool {
	return n.Active() == s
}
