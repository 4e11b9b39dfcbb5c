// Package csp implements the constraint-satisfaction engine used to build
// conflict-free course timetables: the variable/domain model, the
// constraint manager, the backtracking solver, and the greedy level
// scheduler. The package never touches a database, the network, or the
// process environment — everything it needs is passed in by the caller.
package csp

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a wall-clock time of day with minute resolution. It exists so
// TimeSlot does not need a full calendar date to compare two times within
// the same day, matching the Python source's use of datetime.time.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an "HH:MM" string into a Clock.
func ParseClock(raw string) (Clock, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("invalid clock value %q", raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid clock hour %q: %w", raw, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid clock minute %q: %w", raw, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("clock value %q out of range", raw)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// Minutes returns the number of minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Before reports whether c is strictly earlier than other.
func (c Clock) Before(other Clock) bool {
	return c.Minutes() < other.Minutes()
}

// After reports whether c is strictly later than other.
func (c Clock) After(other Clock) bool {
	return c.Minutes() > other.Minutes()
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// TimeSlot represents a period within a single weekday. Equality and
// ordering are structural over (Day, Start, End), so TimeSlot is a valid
// map key.
type TimeSlot struct {
	Day   string
	Start Clock
	End   Clock
}

// NewTimeSlot constructs a TimeSlot, requiring Start < End.
func NewTimeSlot(day string, start, end Clock) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, fmt.Errorf("timeslot on %s: start %s must be before end %s", day, start, end)
	}
	return TimeSlot{Day: day, Start: start, End: end}, nil
}

// Overlaps is total: it never fails, and it is symmetric and reflexive for
// equal slots. Two slots overlap when they fall on the same day and their
// intervals intersect.
func (t TimeSlot) Overlaps(other TimeSlot) bool {
	return t.Day == other.Day && t.Start.Before(other.End) && other.Start.Before(t.End)
}

// DurationHours returns the slot's length in hours.
func (t TimeSlot) DurationHours() float64 {
	return float64(t.End.Minutes()-t.Start.Minutes()) / 60.0
}

func (t TimeSlot) String() string {
	return fmt.Sprintf("%s %s-%s", t.Day, t.Start, t.End)
}

// RoomType enumerates the kinds of rooms a course can require.
type RoomType string

const (
	RoomTypeLecture RoomType = "Lecture"
	RoomTypeLab     RoomType = "Lab"
)

// ResourceRequirements describes what a course needs from a room. It is
// attached to exactly one Variable and is immutable after construction.
type ResourceRequirements struct {
	RoomType          RoomType
	MinCapacity       int
	RequiresLab       bool
	RequiresProjector bool
}
