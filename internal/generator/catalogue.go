// Package generator wires the level catalogue parser, the backing store,
// and the core csp package together behind TimetableGenerator's public
// Generate method.
package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/campusplan/timetable-engine/internal/csp"
)

var (
	levelKeyPattern = regexp.MustCompile(`^level_(\d+)$`)
	courseIDPattern = regexp.MustCompile(`^[A-Z]{2,3}\d{3}$`)
)

// CatalogueItem is one entry in a level's course list: either a single
// required course (Group is nil) or an elective group of ≥2 course ids.
type CatalogueItem struct {
	CourseID string
	Group    []string
}

// IsGroup reports whether the item is an elective group.
func (i CatalogueItem) IsGroup() bool {
	return i.Group != nil
}

// CourseIDs returns every course id named by the item.
func (i CatalogueItem) CourseIDs() []string {
	if i.IsGroup() {
		return i.Group
	}
	return []string{i.CourseID}
}

// Catalogue is the parsed, structurally validated level document: level
// number to its ordered list of items.
type Catalogue struct {
	Levels map[int][]CatalogueItem
	// Order lists the level numbers in ascending numeric order, since Go
	// maps are unordered.
	Order []int
}

// ParseCatalogue parses and structurally validates a §6.2 level document.
// It rejects course ids repeated within or across levels itself, but never
// touches a backing store — checking course existence against the store's
// course table is the Generator's job, since only the Generator holds a
// store handle.
func ParseCatalogue(data []byte) (*Catalogue, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &csp.CatalogueFormatError{Source: "levels document", Reason: "root element must be a JSON object: " + err.Error()}
	}

	catalogue := &Catalogue{Levels: make(map[int][]CatalogueItem)}
	seen := make(map[string]int) // course id -> level it was first seen in

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		match := levelKeyPattern.FindStringSubmatch(key)
		if match == nil {
			return nil, &csp.CatalogueFormatError{Source: key, Reason: "level key must match level_<number>"}
		}
		levelNum, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, &csp.CatalogueFormatError{Source: key, Reason: "level number is not an integer"}
		}

		var entries []json.RawMessage
		if err := json.Unmarshal(raw[key], &entries); err != nil {
			return nil, &csp.CatalogueFormatError{Source: key, Reason: "level value must be a JSON array"}
		}

		items, err := parseCourseList(key, entries)
		if err != nil {
			return nil, err
		}

		for _, item := range items {
			for _, courseID := range item.CourseIDs() {
				if firstLevel, ok := seen[courseID]; ok {
					if firstLevel == levelNum {
						return nil, &csp.CatalogueIntegrityError{CourseID: courseID, Reason: fmt.Sprintf("duplicated within %s", levelKeyName(levelNum))}
					}
					return nil, &csp.CatalogueIntegrityError{CourseID: courseID, Reason: fmt.Sprintf("appears in both %s and %s", levelKeyName(firstLevel), levelKeyName(levelNum))}
				}
				seen[courseID] = levelNum
			}
		}

		catalogue.Levels[levelNum] = items
		catalogue.Order = append(catalogue.Order, levelNum)
	}

	sort.Ints(catalogue.Order)
	return catalogue, nil
}

func parseCourseList(level string, entries []json.RawMessage) ([]CatalogueItem, error) {
	items := make([]CatalogueItem, 0, len(entries))

	for _, raw := range entries {
		var asString string
		if err := json.Unmarshal(raw, &asString); err == nil {
			if !courseIDPattern.MatchString(asString) {
				return nil, &csp.CatalogueFormatError{Source: level, Reason: fmt.Sprintf("invalid course id format: %q", asString)}
			}
			items = append(items, CatalogueItem{CourseID: asString})
			continue
		}

		var asGroup []string
		if err := json.Unmarshal(raw, &asGroup); err == nil {
			if len(asGroup) < 2 {
				return nil, &csp.CatalogueFormatError{Source: level, Reason: fmt.Sprintf("elective group must have at least 2 options, got %d", len(asGroup))}
			}
			for _, courseID := range asGroup {
				if !courseIDPattern.MatchString(courseID) {
					return nil, &csp.CatalogueFormatError{Source: level, Reason: fmt.Sprintf("invalid course id format in elective group: %q", courseID)}
				}
			}
			items = append(items, CatalogueItem{Group: asGroup})
			continue
		}

		return nil, &csp.CatalogueFormatError{Source: level, Reason: "level entries must be a course id string or a list of course ids"}
	}

	return items, nil
}

// FlattenCourseIDs returns every course id referenced anywhere in the
// catalogue, deduplicated, in deterministic sorted order.
func (c *Catalogue) FlattenCourseIDs() []string {
	seen := make(map[string]struct{})
	for _, level := range c.Order {
		for _, item := range c.Levels[level] {
			for _, id := range item.CourseIDs() {
				seen[id] = struct{}{}
			}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func levelKeyName(level int) string {
	return "level_" + strconv.Itoa(level)
}
