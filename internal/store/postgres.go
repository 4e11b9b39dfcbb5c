package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/campusplan/timetable-engine/internal/csp"
)

// PostgresStore implements Store against a Postgres database reached
// through sqlx, using named, parameterised queries over the courses,
// rooms, instructors, and timetable tables from spec §6.1. It performs no
// writes.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a PostgresStore over an already-connected
// *sqlx.DB (see pkg/database.NewPostgres).
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type courseRow struct {
	CourseType        string `db:"course_type"`
	MinCapacity       int    `db:"min_capacity"`
	RequiresLab       bool   `db:"requires_lab"`
	RequiresProjector bool   `db:"requires_projector"`
}

// CourseRequirements looks up a single course's scheduling requirements.
func (s *PostgresStore) CourseRequirements(ctx context.Context, courseID string) (csp.ResourceRequirements, bool, error) {
	const query = `
		SELECT course_type, min_capacity, requires_lab, requires_projector
		FROM courses
		WHERE course_id = $1`

	var row courseRow
	err := sqlx.GetContext(ctx, s.db, &row, query, courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return csp.ResourceRequirements{}, false, nil
	}
	if err != nil {
		return csp.ResourceRequirements{}, false, fmt.Errorf("query course requirements for %s: %w", courseID, err)
	}

	return csp.ResourceRequirements{
		RoomType:          csp.RoomType(row.CourseType),
		MinCapacity:       row.MinCapacity,
		RequiresLab:       row.RequiresLab,
		RequiresProjector: row.RequiresProjector,
	}, true, nil
}

// CourseExists reports whether courseID is present in the courses table.
func (s *PostgresStore) CourseExists(ctx context.Context, courseID string) (bool, error) {
	const query = `SELECT 1 FROM courses WHERE course_id = $1`

	var exists int
	err := sqlx.GetContext(ctx, s.db, &exists, query, courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query course existence for %s: %w", courseID, err)
	}
	return true, nil
}

type roomRow struct {
	RoomID       string `db:"room_id"`
	RoomType     string `db:"room_type"`
	RoomCapacity int    `db:"room_capacity"`
	HasLab       bool   `db:"has_lab"`
	HasProjector bool   `db:"has_projector"`
}

// Rooms lists every room in the rooms table.
func (s *PostgresStore) Rooms(ctx context.Context) ([]csp.Room, error) {
	const query = `SELECT room_id, room_type, room_capacity, has_lab, has_projector FROM rooms ORDER BY room_id`

	var rows []roomRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query); err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}

	rooms := make([]csp.Room, 0, len(rows))
	for _, r := range rows {
		rooms = append(rooms, csp.Room{
			ID:           r.RoomID,
			Type:         csp.RoomType(r.RoomType),
			Capacity:     r.RoomCapacity,
			HasLab:       r.HasLab,
			HasProjector: r.HasProjector,
		})
	}
	return rooms, nil
}

type instructorRow struct {
	InstructorID   string         `db:"instructor_id"`
	MaxHoursPerDay int            `db:"max_hours_per_day"`
	PreferredSlots types.JSONText `db:"preferred_slots"`
}

type preferredSlotsJSON struct {
	Days     []string `json:"days"`
	Earliest string   `json:"earliest"`
	Latest   string   `json:"latest"`
}

// Instructors lists every instructor in the instructors table. Each
// instructor's preferred_slots column is decoded into a PreferenceSpec and
// expanded into PreferredTimes against the store's own global slot set, so
// callers can read PreferredTimes directly without re-decoding JSON.
func (s *PostgresStore) Instructors(ctx context.Context) ([]csp.Instructor, error) {
	const query = `SELECT instructor_id, max_hours_per_day, preferred_slots FROM instructors ORDER BY instructor_id`

	var rows []instructorRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query); err != nil {
		return nil, fmt.Errorf("query instructors: %w", err)
	}

	slots, err := s.TimeSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("query timeslots for instructor preferences: %w", err)
	}

	instructors := make([]csp.Instructor, 0, len(rows))
	for _, r := range rows {
		spec, err := DecodePreferenceSpec(string(r.PreferredSlots))
		if err != nil {
			return nil, fmt.Errorf("instructor %s: %w", r.InstructorID, err)
		}

		preferred := make(map[csp.TimeSlot]struct{})
		for _, slot := range slots {
			if spec.Matches(slot) {
				preferred[slot] = struct{}{}
			}
		}

		instructors = append(instructors, csp.Instructor{
			ID:             r.InstructorID,
			MaxHoursPerDay: r.MaxHoursPerDay,
			PreferredTimes: preferred,
		})
	}
	return instructors, nil
}

// DecodePreferenceSpec decodes a preferred_slots JSON payload (possibly
// empty) into a csp.PreferenceSpec. An empty or null payload decodes to a
// spec that matches any day within the full day.
func DecodePreferenceSpec(raw string) (csp.PreferenceSpec, error) {
	if raw == "" {
		return csp.PreferenceSpec{Latest: csp.Clock{Hour: 23, Minute: 59}}, nil
	}

	var decoded preferredSlotsJSON
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return csp.PreferenceSpec{}, fmt.Errorf("decode preferred_slots: %w", err)
	}

	earliest := csp.Clock{}
	if decoded.Earliest != "" {
		c, err := csp.ParseClock(decoded.Earliest)
		if err != nil {
			return csp.PreferenceSpec{}, fmt.Errorf("decode preferred_slots.earliest: %w", err)
		}
		earliest = c
	}

	latest := csp.Clock{Hour: 23, Minute: 59}
	if decoded.Latest != "" {
		c, err := csp.ParseClock(decoded.Latest)
		if err != nil {
			return csp.PreferenceSpec{}, fmt.Errorf("decode preferred_slots.latest: %w", err)
		}
		latest = c
	}

	return csp.PreferenceSpec{Days: decoded.Days, Earliest: earliest, Latest: latest}, nil
}

type slotRow struct {
	Day       string `db:"day"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
}

// TimeSlots lists every distinct (day, start, end) row in the timetable
// table whose day is non-null, per spec §6.1.
func (s *PostgresStore) TimeSlots(ctx context.Context) ([]csp.TimeSlot, error) {
	const query = `
		SELECT DISTINCT day, start_time, end_time
		FROM timetable
		WHERE day IS NOT NULL
		ORDER BY day, start_time`

	var rows []slotRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query); err != nil {
		return nil, fmt.Errorf("query timetable slots: %w", err)
	}

	slots := make([]csp.TimeSlot, 0, len(rows))
	for _, r := range rows {
		start, err := csp.ParseClock(r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("parse start_time for %s: %w", r.Day, err)
		}
		end, err := csp.ParseClock(r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("parse end_time for %s: %w", r.Day, err)
		}
		slot, err := csp.NewTimeSlot(r.Day, start, end)
		if err != nil {
			return nil, fmt.Errorf("build timeslot for %s: %w", r.Day, err)
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

var _ Store = (*PostgresStore)(nil)
