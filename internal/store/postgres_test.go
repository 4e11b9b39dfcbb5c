package store

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusplan/timetable-engine/internal/csp"
)

func newPostgresMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPostgresStoreCourseRequirementsFound(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	s := NewPostgresStore(db)

	rows := sqlmock.NewRows([]string{"course_type", "min_capacity", "requires_lab", "requires_projector"}).
		AddRow("Lecture", 30, false, true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT course_type, min_capacity, requires_lab, requires_projector")).
		WithArgs("CSC111").
		WillReturnRows(rows)

	req, ok, err := s.CourseRequirements(context.Background(), "CSC111")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, csp.RoomTypeLecture, req.RoomType)
	assert.Equal(t, 30, req.MinCapacity)
	assert.True(t, req.RequiresProjector)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreCourseRequirementsNotFound(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	s := NewPostgresStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT course_type, min_capacity, requires_lab, requires_projector")).
		WithArgs("GHOST").
		WillReturnRows(sqlmock.NewRows([]string{"course_type", "min_capacity", "requires_lab", "requires_projector"}))

	_, ok, err := s.CourseRequirements(context.Background(), "GHOST")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresStoreCourseExists(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	s := NewPostgresStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM courses WHERE course_id = $1")).
		WithArgs("CSC111").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	exists, err := s.CourseExists(context.Background(), "CSC111")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPostgresStoreRooms(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	s := NewPostgresStore(db)

	rows := sqlmock.NewRows([]string{"room_id", "room_type", "room_capacity", "has_lab", "has_projector"}).
		AddRow("R101", "Lecture", 50, false, true).
		AddRow("R102", "Lab", 30, true, true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT room_id, room_type, room_capacity, has_lab, has_projector FROM rooms")).
		WillReturnRows(rows)

	rooms, err := s.Rooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "R101", rooms[0].ID)
	assert.Equal(t, csp.RoomTypeLab, rooms[1].Type)
}

func TestPostgresStoreInstructorsExpandsPreferredTimes(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	s := NewPostgresStore(db)

	instructorRows := sqlmock.NewRows([]string{"instructor_id", "max_hours_per_day", "preferred_slots"}).
		AddRow("I1", 6, `{"days":["Monday"],"earliest":"08:00","latest":"12:00"}`)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT instructor_id, max_hours_per_day, preferred_slots FROM instructors")).
		WillReturnRows(instructorRows)

	slotRows := sqlmock.NewRows([]string{"day", "start_time", "end_time"}).
		AddRow("Monday", "09:00", "10:00").
		AddRow("Tuesday", "09:00", "10:00")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT day, start_time, end_time")).
		WillReturnRows(slotRows)

	instructors, err := s.Instructors(context.Background())
	require.NoError(t, err)
	require.Len(t, instructors, 1)
	assert.Equal(t, 6, instructors[0].MaxHoursPerDay)

	monday, err := csp.NewTimeSlot("Monday", csp.Clock{Hour: 9}, csp.Clock{Hour: 10})
	require.NoError(t, err)
	_, matched := instructors[0].PreferredTimes[monday]
	assert.True(t, matched)

	tuesday, err := csp.NewTimeSlot("Tuesday", csp.Clock{Hour: 9}, csp.Clock{Hour: 10})
	require.NoError(t, err)
	_, matchedTuesday := instructors[0].PreferredTimes[tuesday]
	assert.False(t, matchedTuesday)
}

func TestPostgresStoreTimeSlots(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	s := NewPostgresStore(db)

	rows := sqlmock.NewRows([]string{"day", "start_time", "end_time"}).
		AddRow("Monday", "09:00", "10:00")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT day, start_time, end_time")).
		WillReturnRows(rows)

	slots, err := s.TimeSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "Monday", slots[0].Day)
}

func TestDecodePreferenceSpecEmptyMatchesAnyDay(t *testing.T) {
	spec, err := DecodePreferenceSpec("")
	require.NoError(t, err)
	slot, err := csp.NewTimeSlot("Friday", csp.Clock{Hour: 22}, csp.Clock{Hour: 23})
	require.NoError(t, err)
	assert.True(t, spec.Matches(slot))
}

func TestDecodePreferenceSpecInvalidJSON(t *testing.T) {
	_, err := DecodePreferenceSpec("{not json")
	assert.Error(t, err)
}
