package csp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGapsScoreNoGapForAdjacentSlots(t *testing.T) {
	o := NewSolutionOptimizer()

	a := NewVariable("CS101", 1, ResourceRequirements{})
	b := NewVariable("CS102", 1, ResourceRequirements{})
	a.Assign(mustSlot(t, "Monday", 9, 10), "R1", "I1")
	b.Assign(mustSlot(t, "Monday", 10, 11), "R2", "I2")

	metrics := o.Score([]*Variable{a, b})
	assert.Equal(t, 0.0, metrics.GapsScore)
}

func TestGapsScoreCountsSameDayGap(t *testing.T) {
	o := NewSolutionOptimizer()

	a := NewVariable("CS101", 1, ResourceRequirements{})
	b := NewVariable("CS102", 1, ResourceRequirements{})
	a.Assign(mustSlot(t, "Monday", 9, 10), "R1", "I1")
	b.Assign(mustSlot(t, "Monday", 12, 13), "R2", "I2")

	metrics := o.Score([]*Variable{a, b})
	assert.InDelta(t, 2.0, metrics.GapsScore, 1e-9)
}

func TestPreferenceScoreFavorsBusinessHours(t *testing.T) {
	o := NewSolutionOptimizer()

	morning := NewVariable("CS101", 1, ResourceRequirements{})
	morning.Assign(mustSlot(t, "Monday", 10, 11), "R1", "I1")

	evening := NewVariable("CS102", 1, ResourceRequirements{})
	evening.Assign(mustSlot(t, "Monday", 20, 21), "R2", "I2")

	metrics := o.Score([]*Variable{morning})
	assert.Equal(t, 1.0, metrics.PreferenceScore)

	metrics = o.Score([]*Variable{evening})
	assert.Equal(t, 0.0, metrics.PreferenceScore)
}

func TestDistributionScorePerfectWhenEvenlySpread(t *testing.T) {
	o := NewSolutionOptimizer()

	a := NewVariable("CS101", 1, ResourceRequirements{})
	b := NewVariable("CS102", 1, ResourceRequirements{})
	a.Assign(mustSlot(t, "Monday", 9, 10), "R1", "I1")
	b.Assign(mustSlot(t, "Tuesday", 9, 10), "R2", "I2")

	metrics := o.Score([]*Variable{a, b})
	assert.Equal(t, 1.0, metrics.DistributionScore)
}

func TestScoreIgnoresUnassignedVariables(t *testing.T) {
	o := NewSolutionOptimizer()
	unassigned := NewVariable("CS103", 1, ResourceRequirements{})

	metrics := o.Score([]*Variable{unassigned})
	assert.Equal(t, 0.0, metrics.GapsScore)
	assert.Equal(t, 0.0, metrics.PreferenceScore)
	assert.Equal(t, 0.0, metrics.DistributionScore)
}

func TestScoreTotalWeighting(t *testing.T) {
	o := NewSolutionOptimizer()

	a := NewVariable("CS101", 1, ResourceRequirements{})
	a.Assign(mustSlot(t, "Monday", 10, 11), "R1", "I1")

	metrics := o.Score([]*Variable{a})
	expected := -0.4*metrics.GapsScore + 0.4*metrics.PreferenceScore + 0.2*metrics.DistributionScore
	assert.InDelta(t, expected, metrics.Total, 1e-9)
}
