package csp

import (
	"math"
	"sort"
	"time"
)

// SolverStats tracks statistics about a single solve.
type SolverStats struct {
	Runtime        time.Duration
	Backtracks     int
	Assignments    int
	SolutionsFound int
	BestScore      float64
}

// Solver is a CSP solver combining value ordering, backtracking, forward
// checking, and AC-3. Solve does not call
// ConstraintManager.PropagateConstraints, so it takes no Domain bookings
// during search and works on the Variables' candidate sets alone. When a
// branch fails, restoreDomains recomputes the future variables' candidate
// sets from Domain.GetAvailableValues rather than replaying a per-branch
// undo log.
type Solver struct {
	manager   *ConstraintManager
	domain    *Domain
	optimizer *SolutionOptimizer

	// optimizerBestScore mirrors the original implementation's
	// never-updated improvement bar: it starts at -Inf and stays there,
	// so the "clears the internal improvement bar" check at the base case
	// never actually rejects a solution.
	optimizerBestScore float64

	stats        SolverStats
	bestSolution []*Variable
	bestMetrics  *OptimizationMetrics
}

// NewSolver builds a Solver over the given constraint manager and domain.
func NewSolver(manager *ConstraintManager, domain *Domain) *Solver {
	return &Solver{
		manager:            manager,
		domain:             domain,
		optimizer:          NewSolutionOptimizer(),
		optimizerBestScore: math.Inf(-1),
		stats:              SolverStats{BestScore: math.Inf(1)},
	}
}

// Stats returns a copy of the solver's statistics as of the last Solve call.
func (s *Solver) Stats() SolverStats {
	return s.stats
}

// Solve searches for up to maxSolutions optimised, conflict-free
// assignments of variables, stopping at timeout. A complete assignment is
// recorded only when its score beats the best recorded so far; each
// recorded solution is an independent deep clone of variables, appended in
// the order found, so the last one is the best. The search stops once
// maxSolutions solutions have been recorded. The returned error is ErrInfeasible when the
// search exhausts the tree with no solution, ErrTimeout when the wall
// clock budget is exceeded before any conclusive result, or nil on
// success; solutions already recorded are returned regardless of error.
func (s *Solver) Solve(variables []*Variable, maxSolutions int, timeout time.Duration) ([][]*Variable, SolverStats, error) {
	start := time.Now()
	var solutions [][]*Variable
	timedOut := false

	var backtrack func(index int) bool
	backtrack = func(index int) bool {
		if time.Since(start) > timeout {
			timedOut = true
			return false
		}

		if index == len(variables) {
			metrics := s.optimizer.Score(variables)
			if s.bestMetrics == nil || metrics.Total > s.bestMetrics.Total {
				m := metrics
				s.bestMetrics = &m
				clone := cloneVariables(variables)
				s.bestSolution = clone
				solutions = append(solutions, clone)
				s.stats.SolutionsFound = len(solutions)
				s.stats.BestScore = metrics.Total

				if len(solutions) >= maxSolutions && metrics.Total > s.optimizerBestScore {
					return true
				}
			}
			return false
		}

		v := variables[index]
		future := variables[index+1:]
		for _, candidate := range s.orderValues(v) {
			s.stats.Assignments++
			v.Assign(candidate.Time, candidate.Room, candidate.Instructor)

			violations := s.manager.CheckAssignment(variables[:index+1])
			if len(violations) == 0 {
				if s.forwardCheck(variables[:index+1], future) {
					if backtrack(index + 1) {
						return true
					}
				}
			}

			s.stats.Backtracks++
			v.Unassign()
			s.restoreDomains(future)

			if timedOut {
				return false
			}
		}
		return false
	}

	backtrack(0)
	s.stats.Runtime = time.Since(start)

	if len(solutions) == 0 {
		if timedOut {
			return solutions, s.stats, ErrTimeout
		}
		return solutions, s.stats, ErrInfeasible
	}
	if timedOut {
		return solutions, s.stats, ErrTimeout
	}
	return solutions, s.stats, nil
}

// forwardCheck verifies that every future variable has at least one
// candidate triple that produces no hard violation against the current
// partial assignment (assigned). Each future variable is left unassigned on
// exit.
func (s *Solver) forwardCheck(assigned, future []*Variable) bool {
	probe := make([]*Variable, len(assigned)+1)
	copy(probe, assigned)
	for _, variable := range future {
		probe[len(assigned)] = variable
		times, rooms, instructors := variable.Domain()
		if len(times) == 0 || len(rooms) == 0 || len(instructors) == 0 {
			return false
		}

		valid := false
		for _, t := range sortedTimeSlots(times) {
			for _, r := range sortedStrings(rooms) {
				for _, inst := range sortedStrings(instructors) {
					variable.Assign(t, r, inst)
					if !anyHard(s.manager.CheckAssignment(probe)) {
						valid = true
					}
					variable.Unassign()
					if valid {
						break
					}
				}
				if valid {
					break
				}
			}
			if valid {
				break
			}
		}
		if !valid {
			return false
		}
	}
	return true
}

// restoreDomains recomputes each future variable's domain from
// Domain.GetAvailableValues. This is lossy if earlier propagation pruned
// domains further than requirements alone would — accepted as
// correct-but-slow per the original design notes.
func (s *Solver) restoreDomains(future []*Variable) {
	for _, variable := range future {
		times, rooms, instructors := s.domain.GetAvailableValues(variable.Requirements)
		variable.SetDomain(times, rooms, instructors)
	}
}

// candidateTriple is an ordered (time, room, instructor) value.
type candidateTriple struct {
	Time       TimeSlot
	Room       string
	Instructor string
}

// orderValues scores every candidate triple in variable's domain by
// assigning it alone and asking the optimiser for the resulting total
// score, then sorts descending. Ties retain insertion order, where
// insertion order is the deterministic (day,start)/lexical iteration order
// established by sortedTimeSlots/sortedStrings.
func (s *Solver) orderValues(variable *Variable) []candidateTriple {
	times, rooms, instructors := variable.Domain()
	sortedTimes := sortedTimeSlots(times)
	sortedRooms := sortedStrings(rooms)
	sortedInstructors := sortedStrings(instructors)

	type scored struct {
		score     float64
		candidate candidateTriple
	}
	values := make([]scored, 0, len(sortedTimes)*len(sortedRooms)*len(sortedInstructors))

	for _, t := range sortedTimes {
		for _, r := range sortedRooms {
			for _, inst := range sortedInstructors {
				variable.Assign(t, r, inst)
				score := s.optimizer.Score([]*Variable{variable}).Total
				variable.Unassign()
				values = append(values, scored{score: score, candidate: candidateTriple{Time: t, Room: r, Instructor: inst}})
			}
		}
	}

	sort.SliceStable(values, func(i, j int) bool {
		return values[i].score > values[j].score
	})

	ordered := make([]candidateTriple, len(values))
	for i, v := range values {
		ordered[i] = v.candidate
	}
	return ordered
}

// AC3 applies the AC-3 arc-consistency algorithm across variables,
// returning false if any variable's domain empties (arc-inconsistent,
// meaning no solution exists).
func (s *Solver) AC3(variables []*Variable) bool {
	type arc struct{ i, j int }
	var queue []arc
	for i := range variables {
		for j := range variables {
			if i != j {
				queue = append(queue, arc{i, j})
			}
		}
	}

	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]

		if s.revise(variables[a.i], variables[a.j]) {
			if variables[a.i].DomainSize() == 0 {
				return false
			}
			for k := range variables {
				if k != a.i && k != a.j {
					queue = append(queue, arc{k, a.i})
				}
			}
		}
	}
	return true
}

// revise removes from var1's domain every triple that has no compatible
// counterpart in var2's domain, returning whether any removal occurred.
func (s *Solver) revise(var1, var2 *Variable) bool {
	times1, rooms1, instructors1 := var1.Domain()
	revised := false

	removeTimes := make(map[TimeSlot]struct{})
	removeRooms := make(map[string]struct{})
	removeInstructors := make(map[string]struct{})

	for _, t1 := range sortedTimeSlots(times1) {
		for _, r1 := range sortedStrings(rooms1) {
			for _, i1 := range sortedStrings(instructors1) {
				if s.hasCompatibleValue(var1, var2, t1, r1, i1) {
					continue
				}
				removeTimes[t1] = struct{}{}
				removeRooms[r1] = struct{}{}
				removeInstructors[i1] = struct{}{}
				revised = true
			}
		}
	}

	if revised {
		var1.ReduceDomain(removeTimes, removeRooms, removeInstructors)
	}
	return revised
}

func (s *Solver) hasCompatibleValue(var1, var2 *Variable, t1 TimeSlot, r1, i1 string) bool {
	times2, rooms2, instructors2 := var2.Domain()
	for _, t2 := range sortedTimeSlots(times2) {
		for _, r2 := range sortedStrings(rooms2) {
			for _, i2 := range sortedStrings(instructors2) {
				var1.Assign(t1, r1, i1)
				var2.Assign(t2, r2, i2)
				compatible := !anyHard(s.manager.CheckAssignment([]*Variable{var1, var2}))
				var1.Unassign()
				var2.Unassign()
				if compatible {
					return true
				}
			}
		}
	}
	return false
}

func anyHard(violations []Violation) bool {
	for _, v := range violations {
		if v.IsHard() {
			return true
		}
	}
	return false
}

func cloneVariables(variables []*Variable) []*Variable {
	clones := make([]*Variable, len(variables))
	for i, v := range variables {
		clones[i] = v.Clone()
	}
	return clones
}

func sortedTimeSlots(set map[TimeSlot]struct{}) []TimeSlot {
	out := make([]TimeSlot, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		if out[i].Start != out[j].Start {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].End.Before(out[j].End)
	})
	return out
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
