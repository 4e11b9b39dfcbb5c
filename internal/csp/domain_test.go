package csp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestDomain(t *testing.T) *Domain {
	t.Helper()
	slots := []TimeSlot{
		mustSlot(t, "Monday", 9, 10),
		mustSlot(t, "Monday", 10, 11),
	}
	rooms := []Room{
		{ID: "R1", Type: RoomTypeLecture, Capacity: 50},
		{ID: "R2", Type: RoomTypeLab, Capacity: 20, HasLab: true},
	}
	instructors := []Instructor{
		{ID: "I1", MaxHoursPerDay: 6},
	}
	return NewDomain(slots, rooms, instructors)
}

func TestNewDomainDedupesSlots(t *testing.T) {
	slot := mustSlot(t, "Monday", 9, 10)
	d := NewDomain([]TimeSlot{slot, slot}, nil, nil)
	assert.Len(t, d.TimeSlots, 1)
}

func TestGetAvailableValuesFiltersByRoomType(t *testing.T) {
	d := buildTestDomain(t)

	_, rooms, instructors := d.GetAvailableValues(ResourceRequirements{RoomType: RoomTypeLab, MinCapacity: 10})
	assert.Contains(t, rooms, "R2")
	assert.NotContains(t, rooms, "R1")
	assert.Len(t, instructors, 1, "instructor qualification is not filtered here; see Domain.GetAvailableValues")
}

func TestGetAvailableValuesFiltersByCapacityAndFeatures(t *testing.T) {
	d := buildTestDomain(t)

	_, rooms, _ := d.GetAvailableValues(ResourceRequirements{RoomType: RoomTypeLecture, MinCapacity: 100})
	assert.Empty(t, rooms, "no lecture room meets the capacity requirement")

	_, rooms, _ = d.GetAvailableValues(ResourceRequirements{RoomType: RoomTypeLab, MinCapacity: 10, RequiresLab: true})
	assert.Contains(t, rooms, "R2")
}

func TestUpdateAndRestoreAvailability(t *testing.T) {
	d := buildTestDomain(t)
	slot := d.TimeSlots[0]

	d.UpdateAvailability(slot, "R1", "I1")
	_, stillAvailable := d.Rooms["R1"].AvailableTimes[slot]
	assert.False(t, stillAvailable)
	_, stillAvailable = d.Instructors["I1"].AvailableTimes[slot]
	assert.False(t, stillAvailable)

	d.RestoreAvailability(slot, "R1", "I1")
	_, available := d.Rooms["R1"].AvailableTimes[slot]
	assert.True(t, available)
	_, available = d.Instructors["I1"].AvailableTimes[slot]
	assert.True(t, available)
}

func TestPreferenceSpecMatches(t *testing.T) {
	pref := PreferenceSpec{
		Days:     []string{"Monday", "Wednesday"},
		Earliest: Clock{Hour: 9},
		Latest:   Clock{Hour: 12},
	}

	inside := mustSlot(t, "Monday", 9, 10)
	assert.True(t, pref.Matches(inside))

	wrongDay := mustSlot(t, "Tuesday", 9, 10)
	assert.False(t, pref.Matches(wrongDay))

	tooLate := mustSlot(t, "Monday", 12, 13)
	assert.False(t, pref.Matches(tooLate))
}

func TestPreferenceSpecMatchesAnyDayWhenUnset(t *testing.T) {
	pref := PreferenceSpec{Earliest: Clock{Hour: 0}, Latest: Clock{Hour: 23, Minute: 59}}
	require.True(t, pref.Matches(mustSlot(t, "Sunday", 9, 10)))
}
