package csp

// Room is a schedulable space: an id, a type, a seating capacity, feature
// flags, and the set of global TimeSlots it is currently available at. A
// Room's AvailableTimes is always a subset of the Domain's global TimeSlot
// set. Rooms are owned exclusively by the Domain for the life of a solve.
type Room struct {
	ID              string
	Type            RoomType
	Capacity        int
	HasLab          bool
	HasProjector    bool
	AvailableTimes  map[TimeSlot]struct{}
}

// Instructor tracks availability and scheduling preferences for a single
// instructor. Same availability discipline as Room: owned by the Domain,
// mutated only through UpdateAvailability/RestoreAvailability.
type Instructor struct {
	ID              string
	MaxHoursPerDay  int
	PreferredTimes  map[TimeSlot]struct{}
	AvailableTimes  map[TimeSlot]struct{}
}

// PreferenceSpec is the decoded form of an instructor's preferred_slots
// record (see the backing-store contract): an optional set of preferred
// weekdays and a preferred [earliest, latest] window.
type PreferenceSpec struct {
	Days    []string
	Earliest Clock
	Latest   Clock
}

// Matches reports whether slot falls on one of the preferred days (or any
// day, if Days is empty) and fits within [Earliest, Latest].
func (p PreferenceSpec) Matches(slot TimeSlot) bool {
	if len(p.Days) > 0 {
		found := false
		for _, d := range p.Days {
			if d == slot.Day {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return !slot.Start.Before(p.Earliest) && !slot.End.After(p.Latest)
}

// Domain manages the available values for CSP variables: the global,
// deduplicated set of candidate TimeSlots, plus the Room and Instructor
// collections with per-slot availability. It is a mutable collaborator of
// the search — every tentative booking performed through
// UpdateAvailability must be paired with a compensating RestoreAvailability
// call when the search abandons that branch.
type Domain struct {
	TimeSlots   []TimeSlot
	Rooms       map[string]*Room
	Instructors map[string]*Instructor
}

// NewDomain builds a Domain from already-loaded rooms, instructors, and the
// global time slot pool. Each room/instructor's AvailableTimes is seeded to
// the full slot set if not already populated by the caller.
func NewDomain(slots []TimeSlot, rooms []Room, instructors []Instructor) *Domain {
	d := &Domain{
		TimeSlots:   dedupeSlots(slots),
		Rooms:       make(map[string]*Room, len(rooms)),
		Instructors: make(map[string]*Instructor, len(instructors)),
	}
	for i := range rooms {
		r := rooms[i]
		if r.AvailableTimes == nil {
			r.AvailableTimes = TimeSet(d.TimeSlots...)
		}
		room := r
		d.Rooms[room.ID] = &room
	}
	for i := range instructors {
		inst := instructors[i]
		if inst.AvailableTimes == nil {
			inst.AvailableTimes = TimeSet(d.TimeSlots...)
		}
		instructor := inst
		d.Instructors[instructor.ID] = &instructor
	}
	return d
}

func dedupeSlots(slots []TimeSlot) []TimeSlot {
	seen := make(map[TimeSlot]struct{}, len(slots))
	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// GetAvailableValues returns the initial domain for a Variable carrying the
// given requirements: the full global time set, the rooms matching type,
// capacity, and feature requirements, and the full instructor pool.
// Qualification filtering (matching an instructor to courses they're
// credentialed to teach) is a deliberate extension point — see
// DESIGN.md — and must not be silently added here.
func (d *Domain) GetAvailableValues(req ResourceRequirements) (times map[TimeSlot]struct{}, rooms, instructors map[string]struct{}) {
	times = TimeSet(d.TimeSlots...)

	rooms = make(map[string]struct{})
	for id, r := range d.Rooms {
		if r.Type != req.RoomType {
			continue
		}
		if r.Capacity < req.MinCapacity {
			continue
		}
		if req.RequiresLab && !r.HasLab {
			continue
		}
		if req.RequiresProjector && !r.HasProjector {
			continue
		}
		rooms[id] = struct{}{}
	}

	instructors = make(map[string]struct{}, len(d.Instructors))
	for id := range d.Instructors {
		instructors[id] = struct{}{}
	}

	return times, rooms, instructors
}

// UpdateAvailability removes slot from the named room's and instructor's
// available times.
func (d *Domain) UpdateAvailability(slot TimeSlot, roomID, instructorID string) {
	if roomID != "" {
		if r, ok := d.Rooms[roomID]; ok {
			delete(r.AvailableTimes, slot)
		}
	}
	if instructorID != "" {
		if i, ok := d.Instructors[instructorID]; ok {
			delete(i.AvailableTimes, slot)
		}
	}
}

// RestoreAvailability re-inserts slot into the named room's and
// instructor's available times if not already present.
func (d *Domain) RestoreAvailability(slot TimeSlot, roomID, instructorID string) {
	if roomID != "" {
		if r, ok := d.Rooms[roomID]; ok {
			r.AvailableTimes[slot] = struct{}{}
		}
	}
	if instructorID != "" {
		if i, ok := d.Instructors[instructorID]; ok {
			i.AvailableTimes[slot] = struct{}{}
		}
	}
}
