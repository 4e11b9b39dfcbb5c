// Package store defines the read-only backing-store contract consumed by
// the Domain and the Generator (spec §6.1), plus a Postgres-backed
// implementation, an in-memory fake for tests, and a Redis mirror for the
// proposal cache.
package store

import (
	"context"

	"github.com/campusplan/timetable-engine/internal/csp"
)

// CourseReader resolves a course id to its scheduling requirements.
type CourseReader interface {
	CourseRequirements(ctx context.Context, courseID string) (csp.ResourceRequirements, bool, error)
	CourseExists(ctx context.Context, courseID string) (bool, error)
}

// RoomReader lists every room available to the scheduler.
type RoomReader interface {
	Rooms(ctx context.Context) ([]csp.Room, error)
}

// InstructorReader lists every instructor available to the scheduler.
type InstructorReader interface {
	Instructors(ctx context.Context) ([]csp.Instructor, error)
}

// SlotReader lists the candidate time slots the scheduler may assign.
type SlotReader interface {
	TimeSlots(ctx context.Context) ([]csp.TimeSlot, error)
}

// Store is the full backing-store contract: every reader the Domain and
// Generator need, bundled into one handle for convenience at the call
// site. Callers that only need a subset should depend on the narrower
// interface instead.
type Store interface {
	CourseReader
	RoomReader
	InstructorReader
	SlotReader
}
