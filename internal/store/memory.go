package store

import (
	"context"
	"sort"

	"github.com/campusplan/timetable-engine/internal/csp"
)

// MemoryStore is an in-memory Store used by tests and by the §8 worked
// examples — it substitutes for a sqlmock-backed fake because the
// contract here is read-only and trivial to construct literally.
type MemoryStore struct {
	Courses     map[string]csp.ResourceRequirements
	RoomList    []csp.Room
	Instructors []csp.Instructor
	Slots       []csp.TimeSlot
}

// NewMemoryStore builds a MemoryStore from literal fixtures.
func NewMemoryStore(courses map[string]csp.ResourceRequirements, rooms []csp.Room, instructors []csp.Instructor, slots []csp.TimeSlot) *MemoryStore {
	return &MemoryStore{Courses: courses, RoomList: rooms, Instructors: instructors, Slots: slots}
}

// CourseRequirements looks up req by courseID in the fixture map.
func (m *MemoryStore) CourseRequirements(_ context.Context, courseID string) (csp.ResourceRequirements, bool, error) {
	req, ok := m.Courses[courseID]
	return req, ok, nil
}

// CourseExists reports whether courseID is a key in the fixture map.
func (m *MemoryStore) CourseExists(_ context.Context, courseID string) (bool, error) {
	_, ok := m.Courses[courseID]
	return ok, nil
}

// Rooms returns the fixture room list.
func (m *MemoryStore) Rooms(_ context.Context) ([]csp.Room, error) {
	return m.RoomList, nil
}

// Instructors returns the fixture instructor list.
func (m *MemoryStore) Instructors(_ context.Context) ([]csp.Instructor, error) {
	return m.Instructors, nil
}

// TimeSlots returns the fixture slot list, sorted by (day, start).
func (m *MemoryStore) TimeSlots(_ context.Context) ([]csp.TimeSlot, error) {
	sorted := make([]csp.TimeSlot, len(m.Slots))
	copy(sorted, m.Slots)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return sorted[i].Day < sorted[j].Day
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return sorted, nil
}

var _ Store = (*MemoryStore)(nil)
