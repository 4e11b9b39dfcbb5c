package csp

import "math"

// Violation records a single constraint breach. Severity 1.0 marks a hard
// violation; any hard violation makes the assignment infeasible. Soft
// violations carry a severity in [0, 1).
type Violation struct {
	Kind        string
	Description string
	Variables   []*Variable
	Severity    float64
}

// IsHard reports whether the violation is a hard constraint breach.
func (v Violation) IsHard() bool {
	return v.Severity >= 1.0
}

// Constraint is implemented by every hard or soft scheduling rule. Check
// evaluates a (possibly partial) assignment and returns the violations it
// finds; Propagate pushes the consequences of assigning variable into the
// Domain or into other variables' candidate sets, returning false if the
// propagation leaves no viable value behind.
type Constraint interface {
	Check(variables []*Variable, domain *Domain) []Violation
	Propagate(variable *Variable, domain *Domain) bool
}

// ConstraintManager is the registry of hard and soft constraints. Hard
// constraints are evaluated (and propagated) before soft ones, in
// registration order.
type ConstraintManager struct {
	domain *Domain
	hard   []Constraint
	soft   []Constraint
}

// NewConstraintManager builds a manager with the built-in hard constraints
// (ResourceConflict, RoomType, LevelTimeConflict) and the built-in soft
// constraint (LevelDailyHoursCap at the default cap). Use AddHard/AddSoft
// to register additional constraints before solving.
func NewConstraintManager(domain *Domain) *ConstraintManager {
	return &ConstraintManager{
		domain: domain,
		hard: []Constraint{
			&ResourceConflictConstraint{},
			&RoomTypeConstraint{},
			&LevelTimeConflictConstraint{},
		},
		soft: []Constraint{
			NewLevelDailyHoursCap(DefaultMaxDailyHours),
		},
	}
}

// AddHard registers an additional hard constraint.
func (m *ConstraintManager) AddHard(c Constraint) {
	m.hard = append(m.hard, c)
}

// AddSoft registers an additional soft constraint.
func (m *ConstraintManager) AddSoft(c Constraint) {
	m.soft = append(m.soft, c)
}

// CheckAssignment evaluates every hard constraint, then every soft
// constraint, and returns the concatenated violations.
func (m *ConstraintManager) CheckAssignment(variables []*Variable) []Violation {
	var violations []Violation
	for _, c := range m.hard {
		violations = append(violations, c.Check(variables, m.domain)...)
	}
	for _, c := range m.soft {
		violations = append(violations, c.Check(variables, m.domain)...)
	}
	return violations
}

// PropagateConstraints runs each hard constraint's Propagate step, in
// registration order, for the given variable. A false return means
// propagation failed and the caller must unwind the branch that produced
// it; this is always handled internally by the solver and never surfaced
// to callers of the public API.
func (m *ConstraintManager) PropagateConstraints(variable *Variable, domain *Domain) bool {
	for _, c := range m.hard {
		if !c.Propagate(variable, domain) {
			return false
		}
	}
	return true
}

// ViolationScore returns +Inf whenever any hard violation is present, and
// the sum of soft severities otherwise.
func ViolationScore(violations []Violation) float64 {
	for _, v := range violations {
		if v.IsHard() {
			return math.Inf(1)
		}
	}
	total := 0.0
	for _, v := range violations {
		total += v.Severity
	}
	return total
}
