package csp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSlot(t *testing.T, day string, startHour, endHour int) TimeSlot {
	t.Helper()
	slot, err := NewTimeSlot(day, Clock{Hour: startHour}, Clock{Hour: endHour})
	require.NoError(t, err)
	return slot
}

func TestVariableAssignUnassign(t *testing.T) {
	v := NewVariable("CS101", 1, ResourceRequirements{RoomType: RoomTypeLecture, MinCapacity: 30})
	assert.False(t, v.IsAssigned())

	slot := mustSlot(t, "Monday", 9, 10)
	v.Assign(slot, "R1", "I1")
	assert.True(t, v.IsAssigned())

	a, ok := v.Assignment()
	require.True(t, ok)
	assert.Equal(t, slot, a.Time)
	assert.Equal(t, "R1", a.Room)
	assert.Equal(t, "I1", a.Instructor)

	v.Unassign()
	assert.False(t, v.IsAssigned())
	_, ok = v.Assignment()
	assert.False(t, ok)
}

func TestVariableSetDomainIsIndependentCopy(t *testing.T) {
	v := NewVariable("CS101", 1, ResourceRequirements{})
	slot := mustSlot(t, "Monday", 9, 10)

	times := TimeSet(slot)
	rooms := StringSet("R1")
	instructors := StringSet("I1")
	v.SetDomain(times, rooms, instructors)

	delete(times, slot)
	gotTimes, _, _ := v.Domain()
	assert.Len(t, gotTimes, 1, "mutating the caller's set after SetDomain must not affect the Variable")
}

func TestVariableReduceDomain(t *testing.T) {
	v := NewVariable("CS101", 1, ResourceRequirements{})
	slotA := mustSlot(t, "Monday", 9, 10)
	slotB := mustSlot(t, "Tuesday", 9, 10)
	v.SetDomain(TimeSet(slotA, slotB), StringSet("R1", "R2"), StringSet("I1"))

	v.ReduceDomain(TimeSet(slotA), StringSet("R2"), nil)

	times, rooms, instructors := v.Domain()
	assert.Len(t, times, 1)
	_, hasA := times[slotA]
	assert.False(t, hasA)
	assert.Len(t, rooms, 1)
	assert.Len(t, instructors, 1)
}

func TestVariableDomainSize(t *testing.T) {
	v := NewVariable("CS101", 1, ResourceRequirements{})
	v.SetDomain(TimeSet(mustSlot(t, "Monday", 9, 10)), StringSet("R1", "R2"), StringSet("I1"))
	assert.Equal(t, 2, v.DomainSize())

	v.ReduceDomain(nil, StringSet("R1", "R2"), nil)
	assert.Equal(t, 0, v.DomainSize())
}

func TestVariableConflictsWith(t *testing.T) {
	a := NewVariable("CS101", 1, ResourceRequirements{})
	b := NewVariable("CS102", 1, ResourceRequirements{})

	slot := mustSlot(t, "Monday", 9, 10)
	assert.False(t, a.ConflictsWith(b), "unassigned variables never conflict")

	a.Assign(slot, "R1", "I1")
	assert.False(t, a.ConflictsWith(b))

	b.Assign(slot, "R1", "I2")
	assert.True(t, a.ConflictsWith(b), "same room, overlapping time")

	b.Assign(slot, "R2", "I1")
	assert.True(t, a.ConflictsWith(b), "same instructor, overlapping time")

	b.Assign(slot, "R2", "I2")
	assert.False(t, a.ConflictsWith(b))
}

func TestVariableClone(t *testing.T) {
	v := NewVariable("CS101", 1, ResourceRequirements{RoomType: RoomTypeLab})
	slot := mustSlot(t, "Monday", 9, 10)
	v.SetDomain(TimeSet(slot), StringSet("R1"), StringSet("I1"))
	v.Assign(slot, "R1", "I1")

	clone := v.Clone()
	clone.Unassign()
	clone.ReduceDomain(nil, StringSet("R1"), nil)

	assert.True(t, v.IsAssigned(), "mutating the clone must not affect the original")
	_, rooms, _ := v.Domain()
	assert.Len(t, rooms, 1)
}
