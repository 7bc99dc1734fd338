package quiz

import (
	"fmt"
	"slices"
)

// Phase is a state of a quiz run.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhasePresenting
	PhaseAnswering
	PhaseScored
	PhaseFinished
	PhaseQuit
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhasePresenting:
		return "presenting"
	case PhaseAnswering:
		return "answering"
	case PhaseScored:
		return "scored"
	case PhaseFinished:
		return "finished"
	case PhaseQuit:
		return "quit"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Terminal reports whether no further transition is possible.
func (p Phase) Terminal() bool {
	return p == PhaseFinished || p == PhaseQuit
}

var transitions = map[Phase][]Phase{
	PhaseNotStarted: {PhasePresenting, PhaseFinished},
	PhasePresenting: {PhaseAnswering},
	PhaseAnswering:  {PhaseScored, PhaseQuit},
	PhaseScored:     {PhasePresenting, PhaseFinished},
}

// machine tracks a run's phase and question index.
type machine struct {
	phase    Phase
	question int
	observe  func(Phase, int)
}

func (m *machine) enter(p Phase, question int) {
	if !slices.Contains(transitions[m.phase], p) {
		panic(fmt.Sprintf("quiz: invalid transition %s -> %s", m.phase, p))
	}
	m.phase = p
	m.question = question
	if m.observe != nil {
		m.observe(p, question)
	}
}
