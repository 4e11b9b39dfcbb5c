package csp

import (
	"fmt"
	"sort"
)

// SchedulingResult is the outcome of a single LevelScheduler.ScheduleLevel
// call.
type SchedulingResult struct {
	Success   bool
	Variables []*Variable
	Error     string
}

type resourceBooking struct {
	resourceID string
	time       TimeSlot
}

// LevelScheduler is the greedy fast path: first-fit assignment of every
// course in one academic level, most-constrained-first, with a bounded
// number of reset-and-retry attempts. It trades optimality and completeness
// for speed — callers that need the full guarantee fall back to Solver.
type LevelScheduler struct {
	domain            *Domain
	scheduledRooms    map[resourceBooking]struct{}
	scheduledInstruct map[resourceBooking]struct{}
	scheduledTimes    []TimeSlot
}

// NewLevelScheduler builds a LevelScheduler over domain.
func NewLevelScheduler(domain *Domain) *LevelScheduler {
	return &LevelScheduler{domain: domain}
}

// ScheduleLevel attempts to assign every variable in variables (all
// belonging to the same level), retrying up to maxAttempts times if an
// attempt fails partway through. Variables are sorted most-constrained-first
// on every attempt; resource bookings are reset between attempts.
func (s *LevelScheduler) ScheduleLevel(level int, variables []*Variable, maxAttempts int) SchedulingResult {
	sorted := s.sortByConstraints(variables)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		s.resetResources()

		success := true
		for _, v := range sorted {
			if !s.scheduleVariable(v) {
				success = false
				break
			}
		}

		if success {
			return SchedulingResult{Success: true, Variables: sorted}
		}

		for _, v := range sorted {
			v.Unassign()
		}
	}

	return SchedulingResult{
		Success: false,
		Error:   fmt.Sprintf("failed to schedule level %d after %d attempts", level, maxAttempts),
	}
}

// sortByConstraints orders variables most-constrained-first: by descending
// length of the room type name, then descending minimum capacity, then
// ascending candidate time-slot count. The room-type-name-length key is a
// faithful carry-over of the original scheduler's ordering rule.
func (s *LevelScheduler) sortByConstraints(variables []*Variable) []*Variable {
	sorted := make([]*Variable, len(variables))
	copy(sorted, variables)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if la, lb := len(string(a.Requirements.RoomType)), len(string(b.Requirements.RoomType)); la != lb {
			return la > lb
		}
		if a.Requirements.MinCapacity != b.Requirements.MinCapacity {
			return a.Requirements.MinCapacity > b.Requirements.MinCapacity
		}
		times, _, _ := a.Domain()
		otherTimes, _, _ := b.Domain()
		return len(times) < len(otherTimes)
	})
	return sorted
}

// scheduleVariable attempts a first-fit assignment of variable against
// the level scheduler's own bookings, in deterministic (day,start)/lexical
// order, skipping any time that overlaps one already assigned in this level.
// It returns false, leaving variable unassigned, if no combination is
// available.
func (s *LevelScheduler) scheduleVariable(variable *Variable) bool {
	times, rooms, instructors := variable.Domain()

	availableRooms := s.filterAvailableRooms(rooms, variable.Requirements)
	availableInstructors := s.filterAvailableInstructors(instructors)

	for _, t := range sortedTimeSlots(times) {
		levelTaken := false
		for _, used := range s.scheduledTimes {
			if used.Overlaps(t) {
				levelTaken = true
				break
			}
		}
		if levelTaken {
			continue
		}
		for _, room := range availableRooms {
			if !s.isResourceAvailable(s.scheduledRooms, room, t) {
				continue
			}
			for _, instructor := range availableInstructors {
				if !s.isResourceAvailable(s.scheduledInstruct, instructor, t) {
					continue
				}
				variable.Assign(t, room, instructor)
				s.markResourceUsed(&s.scheduledRooms, room, t)
				s.markResourceUsed(&s.scheduledInstruct, instructor, t)
				s.scheduledTimes = append(s.scheduledTimes, t)
				return true
			}
		}
	}
	return false
}

func (s *LevelScheduler) resetResources() {
	s.scheduledRooms = make(map[resourceBooking]struct{})
	s.scheduledInstruct = make(map[resourceBooking]struct{})
	s.scheduledTimes = nil
}

func (s *LevelScheduler) filterAvailableRooms(rooms map[string]struct{}, req ResourceRequirements) []string {
	var out []string
	for _, id := range sortedStrings(rooms) {
		room, ok := s.domain.Rooms[id]
		if !ok {
			continue
		}
		if room.Type == req.RoomType && room.Capacity >= req.MinCapacity {
			out = append(out, id)
		}
	}
	return out
}

func (s *LevelScheduler) filterAvailableInstructors(instructors map[string]struct{}) []string {
	var out []string
	for _, id := range sortedStrings(instructors) {
		instructor, ok := s.domain.Instructors[id]
		if !ok {
			continue
		}
		if instructor.MaxHoursPerDay > 0 {
			out = append(out, id)
		}
	}
	return out
}

func (s *LevelScheduler) isResourceAvailable(booked map[resourceBooking]struct{}, resourceID string, t TimeSlot) bool {
	_, taken := booked[resourceBooking{resourceID: resourceID, time: t}]
	return !taken
}

func (s *LevelScheduler) markResourceUsed(booked *map[resourceBooking]struct{}, resourceID string, t TimeSlot) {
	if *booked == nil {
		*booked = make(map[resourceBooking]struct{})
	}
	(*booked)[resourceBooking{resourceID: resourceID, time: t}] = struct{}{}
}
