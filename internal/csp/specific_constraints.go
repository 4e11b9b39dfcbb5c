package csp

import "fmt"

// DefaultMaxDailyHours is the default cumulative-hours cap enforced by
// LevelDailyHoursCap, per (level, day).
const DefaultMaxDailyHours = 6.0

// ResourceConflictConstraint is a hard constraint: no two assigned
// Variables may hold overlapping times in the same room or with the same
// instructor. Propagation is booking-aware: assigning a Variable removes
// its chosen time from the chosen room's and instructor's availability.
type ResourceConflictConstraint struct{}

func (ResourceConflictConstraint) Check(variables []*Variable, _ *Domain) []Violation {
	var violations []Violation
	for i, v1 := range variables {
		a1, ok := v1.Assignment()
		if !ok {
			continue
		}
		for _, v2 := range variables[i+1:] {
			a2, ok := v2.Assignment()
			if !ok {
				continue
			}
			if !a1.Time.Overlaps(a2.Time) {
				continue
			}
			if a1.Room == a2.Room {
				violations = append(violations, Violation{
					Kind:        "room_conflict",
					Description: fmt.Sprintf("room %s double-booked between %s and %s", a1.Room, v1.CourseID, v2.CourseID),
					Variables:   []*Variable{v1, v2},
					Severity:    1.0,
				})
			}
			if a1.Instructor == a2.Instructor {
				violations = append(violations, Violation{
					Kind:        "instructor_conflict",
					Description: fmt.Sprintf("instructor %s double-booked between %s and %s", a1.Instructor, v1.CourseID, v2.CourseID),
					Variables:   []*Variable{v1, v2},
					Severity:    1.0,
				})
			}
		}
	}
	return violations
}

func (ResourceConflictConstraint) Propagate(variable *Variable, domain *Domain) bool {
	a, ok := variable.Assignment()
	if !ok {
		return true
	}
	domain.UpdateAvailability(a.Time, a.Room, a.Instructor)
	return true
}

// RoomTypeConstraint is a hard constraint: an assigned Variable's room must
// match its required room type. Propagation prunes from the Variable's room
// candidate set any room whose type doesn't match.
type RoomTypeConstraint struct{}

func (RoomTypeConstraint) Check(variables []*Variable, domain *Domain) []Violation {
	var violations []Violation
	for _, v := range variables {
		a, ok := v.Assignment()
		if !ok {
			continue
		}
		room, ok := domain.Rooms[a.Room]
		if !ok {
			continue
		}
		if room.Type != v.Requirements.RoomType {
			violations = append(violations, Violation{
				Kind:        "room_type_mismatch",
				Description: fmt.Sprintf("course %s requires %s, got %s", v.CourseID, v.Requirements.RoomType, room.Type),
				Variables:   []*Variable{v},
				Severity:    1.0,
			})
		}
	}
	return violations
}

func (RoomTypeConstraint) Propagate(variable *Variable, domain *Domain) bool {
	_, rooms, _ := variable.Domain()
	incompatible := make(map[string]struct{})
	for id := range rooms {
		room, ok := domain.Rooms[id]
		if !ok || room.Type != variable.Requirements.RoomType {
			incompatible[id] = struct{}{}
		}
	}
	variable.ReduceDomain(nil, incompatible, nil)
	_, remaining, _ := variable.Domain()
	return len(remaining) > 0
}

// LevelTimeConflictConstraint is a hard constraint: within one academic
// level, no two assigned Variables may hold overlapping times, regardless
// of room or instructor. It requires no additional propagation.
type LevelTimeConflictConstraint struct{}

func (LevelTimeConflictConstraint) Check(variables []*Variable, _ *Domain) []Violation {
	var violations []Violation
	levelSlots := make(map[int][]*Variable)
	for _, v := range variables {
		a, ok := v.Assignment()
		if !ok {
			continue
		}
		for _, other := range levelSlots[v.Level] {
			otherAssignment, ok := other.Assignment()
			if ok && otherAssignment.Time.Overlaps(a.Time) {
				violations = append(violations, Violation{
					Kind:        "level_time_conflict",
					Description: fmt.Sprintf("level %d has overlapping times between %s and %s", v.Level, v.CourseID, other.CourseID),
					Variables:   []*Variable{v, other},
					Severity:    1.0,
				})
			}
		}
		levelSlots[v.Level] = append(levelSlots[v.Level], v)
	}
	return violations
}

func (LevelTimeConflictConstraint) Propagate(*Variable, *Domain) bool {
	return true
}

// LevelDailyHoursCap is a soft constraint: cumulative assigned duration per
// (level, day) must not exceed MaxDailyHours.
type LevelDailyHoursCap struct {
	MaxDailyHours float64
}

// NewLevelDailyHoursCap builds the cap constraint at the given threshold.
func NewLevelDailyHoursCap(maxHours float64) *LevelDailyHoursCap {
	return &LevelDailyHoursCap{MaxDailyHours: maxHours}
}

func (c *LevelDailyHoursCap) Check(variables []*Variable, _ *Domain) []Violation {
	type key struct {
		level int
		day   string
	}
	hours := make(map[key]float64)
	var violations []Violation
	for _, v := range variables {
		a, ok := v.Assignment()
		if !ok {
			continue
		}
		k := key{level: v.Level, day: a.Time.Day}
		hours[k] += a.Time.DurationHours()
		if hours[k] > c.MaxDailyHours {
			violations = append(violations, Violation{
				Kind:        "max_hours_exceeded",
				Description: fmt.Sprintf("level %d exceeds %.1f hours on %s", v.Level, c.MaxDailyHours, a.Time.Day),
				Variables:   []*Variable{v},
				Severity:    0.8,
			})
		}
	}
	return violations
}

func (c *LevelDailyHoursCap) Propagate(*Variable, *Domain) bool {
	return true
}
