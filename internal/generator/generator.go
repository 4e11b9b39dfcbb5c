package generator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusplan/timetable-engine/internal/csp"
	"github.com/campusplan/timetable-engine/internal/store"
)

// GeneratorResult is the public API's return value from Generate: the
// assigned timetable keyed by level, or an error plus whatever best-effort
// partial state was collected.
type GeneratorResult struct {
	Success   bool
	Timetable map[int][]*csp.Variable
	Error     string
	Stats     GeneratorStats
}

// GeneratorStats summarises one Generate call across every level it
// touched.
type GeneratorStats struct {
	Attempts       int
	TotalVariables int
	TotalTime      time.Duration
	PerLevel       map[int]csp.SolverStats
}

// TimetableGenerator ties the catalogue parser, the backing store, the
// Domain, the ConstraintManager, and the LevelScheduler/Solver together
// behind one Generate call, one level at a time.
type TimetableGenerator struct {
	store  store.Store
	domain *csp.Domain
	logger *zap.Logger
}

// NewTimetableGenerator constructs a TimetableGenerator over an
// already-loaded Domain and a Store used to resolve each course's
// requirements. Unlike the Domain, the store is read for course lookups
// only — Rooms/Instructors/TimeSlots must already have been used to build
// domain by the caller (see BuildDomain).
func NewTimetableGenerator(st store.Store, domain *csp.Domain, logger *zap.Logger) *TimetableGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableGenerator{store: st, domain: domain, logger: logger}
}

// BuildDomain loads rooms, instructors, and time slots from st and
// constructs a fresh csp.Domain. A Domain is not shared by concurrent
// solves; the generate handler builds one per request.
func BuildDomain(ctx context.Context, st store.Store) (*csp.Domain, error) {
	slots, err := st.TimeSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("load timeslots: %w", err)
	}
	rooms, err := st.Rooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	instructors, err := st.Instructors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load instructors: %w", err)
	}
	return csp.NewDomain(slots, rooms, instructors), nil
}

// Generate parses catalogueJSON, validates it structurally and against the
// store, then schedules each level in catalogue order via the
// LevelScheduler. A level the scheduler cannot complete within maxAttempts
// falls back to the Solver (one solution, bounded by timeout); the whole
// call fails at the first level neither of them completes.
func (g *TimetableGenerator) Generate(ctx context.Context, catalogueJSON []byte, maxAttempts int, timeout time.Duration) GeneratorResult {
	start := time.Now()

	catalogue, err := ParseCatalogue(catalogueJSON)
	if err != nil {
		return GeneratorResult{Success: false, Error: err.Error()}
	}

	if err := g.validateAgainstStore(ctx, catalogue); err != nil {
		return GeneratorResult{Success: false, Error: err.Error()}
	}

	stats := GeneratorStats{PerLevel: make(map[int]csp.SolverStats)}
	timetable := make(map[int][]*csp.Variable)

	for _, level := range catalogue.Order {
		variables, err := g.createVariables(ctx, level, catalogue.Levels[level])
		if err != nil {
			return GeneratorResult{Success: false, Error: err.Error(), Stats: stats}
		}
		stats.TotalVariables += len(variables)
		stats.Attempts += maxAttempts

		scheduler := csp.NewLevelScheduler(g.domain)
		result := scheduler.ScheduleLevel(level, variables, maxAttempts)
		if !result.Success {
			g.logger.Warn("level scheduling failed, falling back to solver",
				zap.Int("level", level), zap.String("reason", result.Error))

			manager := csp.NewConstraintManager(g.domain)
			solver := csp.NewSolver(manager, g.domain)
			solutions, solverStats, err := solver.Solve(variables, 1, timeout)
			stats.PerLevel[level] = solverStats
			if err != nil || len(solutions) == 0 {
				message := fmt.Sprintf("failed to schedule level_%d: %v", level, err)
				return GeneratorResult{Success: false, Error: message, Stats: stats}
			}
			timetable[level] = solutions[0]
			continue
		}

		timetable[level] = result.Variables
	}

	stats.TotalTime = time.Since(start)
	return GeneratorResult{Success: true, Timetable: timetable, Stats: stats}
}

// validateAgainstStore confirms every course id in catalogue exists in the
// store, returning a CatalogueIntegrityError naming the first missing
// course id encountered (in sorted course-id order) if not.
func (g *TimetableGenerator) validateAgainstStore(ctx context.Context, catalogue *Catalogue) error {
	for _, courseID := range catalogue.FlattenCourseIDs() {
		exists, err := g.store.CourseExists(ctx, courseID)
		if err != nil {
			return fmt.Errorf("check course existence for %s: %w", courseID, err)
		}
		if !exists {
			return &csp.CatalogueIntegrityError{CourseID: courseID, Reason: "not found in backing store"}
		}
	}
	return nil
}

// createVariables builds one csp.Variable per course referenced at level,
// expanding elective groups into one Variable per member course — each
// carries the level's number and is seeded with its initial domain from
// g.domain.
func (g *TimetableGenerator) createVariables(ctx context.Context, level int, items []CatalogueItem) ([]*csp.Variable, error) {
	var variables []*csp.Variable

	for _, item := range items {
		for _, courseID := range item.CourseIDs() {
			req, ok, err := g.store.CourseRequirements(ctx, courseID)
			if err != nil {
				return nil, fmt.Errorf("load requirements for %s: %w", courseID, err)
			}
			if !ok {
				// Existence was already confirmed by validateAgainstStore; a
				// missing requirements row here is a store data
				// inconsistency, not a catalogue error. Skip the course
				// rather than aborting the whole generation.
				g.logger.Warn("course has no requirements row, skipping", zap.String("course_id", courseID), zap.Int("level", level))
				continue
			}

			variable := csp.NewVariable(courseID, level, req)
			times, rooms, instructors := g.domain.GetAvailableValues(req)
			variable.SetDomain(times, rooms, instructors)
			variables = append(variables, variable)
		}
	}

	return variables, nil
}
