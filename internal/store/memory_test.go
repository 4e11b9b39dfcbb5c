package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusplan/timetable-engine/internal/csp"
)

func TestMemoryStoreCourseLookups(t *testing.T) {
	s := NewMemoryStore(
		map[string]csp.ResourceRequirements{"CSC111": {RoomType: csp.RoomTypeLecture, MinCapacity: 30}},
		nil, nil, nil,
	)

	req, ok, err := s.CourseRequirements(context.Background(), "CSC111")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 30, req.MinCapacity)

	exists, err := s.CourseExists(context.Background(), "CSC111")
	require.NoError(t, err)
	assert.True(t, exists)

	_, ok, err = s.CourseRequirements(context.Background(), "GHOST")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreTimeSlotsSorted(t *testing.T) {
	tue, err := csp.NewTimeSlot("Tuesday", csp.Clock{Hour: 9}, csp.Clock{Hour: 10})
	require.NoError(t, err)
	monEarly, err := csp.NewTimeSlot("Monday", csp.Clock{Hour: 8}, csp.Clock{Hour: 9})
	require.NoError(t, err)
	monLate, err := csp.NewTimeSlot("Monday", csp.Clock{Hour: 10}, csp.Clock{Hour: 11})
	require.NoError(t, err)

	s := NewMemoryStore(nil, nil, nil, []csp.TimeSlot{tue, monLate, monEarly})

	slots, err := s.TimeSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, monEarly, slots[0])
	assert.Equal(t, monLate, slots[1])
	assert.Equal(t, tue, slots[2])
}

func TestMemoryStoreRoomsAndInstructorsPassthrough(t *testing.T) {
	rooms := []csp.Room{{ID: "R101", Type: csp.RoomTypeLecture, Capacity: 50}}
	instructors := []csp.Instructor{{ID: "I1", MaxHoursPerDay: 6}}
	s := NewMemoryStore(nil, rooms, instructors, nil)

	gotRooms, err := s.Rooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rooms, gotRooms)

	gotInstructors, err := s.Instructors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, instructors, gotInstructors)
}
