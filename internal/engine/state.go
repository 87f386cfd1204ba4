package engine

import (
	"encoding"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/alexanderramin/housebudget/internal/domain"
)

// StateVersion is bumped whenever State changes shape.
const StateVersion = 1

var ErrStateVersion = errors.New("unsupported simulation state version")

// State is everything needed to rebuild a Simulation. Schedules are not
// stored; they are re-derived from the plan on restore.
type State struct {
	Version   int                         `json:"version"`
	Plan      domain.Plan                 `json:"plan"`
	Periods   []domain.Period             `json:"periods"`
	Reserve   int                         `json:"reserve"`
	Remainder int                         `json:"remainder"`
	LastDay   int                         `json:"last_day"`
	Current   int                         `json:"current"`
	History   [][]domain.DayRecord        `json:"history"`
	Pending   []domain.DayRecord          `json:"pending,omitempty"`
	Changes   []domain.ConstructionChange `json:"changes,omitempty"`
	Advances  []domain.Advance            `json:"advances,omitempty"`
	Posted    map[domain.Category]bool    `json:"posted,omitempty"`
	RandState []byte                      `json:"rand_state,omitempty"`
}

// Snapshot captures the simulation. The random source state is included when
// the source can marshal itself.
func (s *Simulation) Snapshot() (State, error) {
	st := State{
		Version:   StateVersion,
		Plan:      s.plan.Clone(),
		Periods:   s.Periods(),
		Reserve:   s.reserve,
		Remainder: s.remainder,
		LastDay:   s.lastDay,
		Current:   s.current,
		History:   s.SealedHistory(),
		Pending:   slices.Clone(s.pending),
		Changes:   slices.Clone(s.changes),
		Advances:  slices.Clone(s.advances),
		Posted:    maps.Clone(s.posted),
	}
	if m, ok := s.assigner.Source().(encoding.BinaryMarshaler); ok {
		raw, err := m.MarshalBinary()
		if err != nil {
			return State{}, fmt.Errorf("marshal random source: %w", err)
		}
		st.RandState = raw
	}
	return st, nil
}

// Restore rebuilds a simulation from a snapshot. The assigner's source is
// rewound to the stored random state when both sides support it.
func Restore(st State, assigner *RiskAssigner) (*Simulation, error) {
	if st.Version != StateVersion {
		return nil, fmt.Errorf("%w: %d", ErrStateVersion, st.Version)
	}
	if len(st.Periods) == 0 {
		return nil, ErrEmptyPlan
	}
	if st.Current < 0 || st.Current > len(st.Periods) {
		return nil, fmt.Errorf("current period %d out of range", st.Current)
	}
	if len(st.RandState) > 0 {
		if u, ok := assigner.Source().(encoding.BinaryUnmarshaler); ok {
			if err := u.UnmarshalBinary(st.RandState); err != nil {
				return nil, fmt.Errorf("restore random source: %w", err)
			}
		}
	}

	s := &Simulation{
		plan:      st.Plan.Clone(),
		periods:   make([]domain.Period, len(st.Periods)),
		assigner:  assigner,
		reserve:   st.Reserve,
		remainder: st.Remainder,
		lastDay:   st.LastDay,
		current:   st.Current,
		pending:   slices.Clone(st.Pending),
		changes:   slices.Clone(st.Changes),
		advances:  slices.Clone(st.Advances),
		posted:    maps.Clone(st.Posted),
	}
	if s.plan.Selections == nil {
		s.plan.Selections = make(map[domain.Category]domain.ConstructionOption)
	}
	if s.posted == nil {
		s.posted = make(map[domain.Category]bool)
	}
	for i, p := range st.Periods {
		s.periods[i] = p.Clone()
	}
	for _, h := range st.History {
		s.history = append(s.history, slices.Clone(h))
	}
	s.rederive()
	return s, nil
}
