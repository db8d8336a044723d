package csa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func footpathMap(t *testing.T, specs [][3]any) map[FootpathKey]Footpath {
	t.Helper()
	m := make(map[FootpathKey]Footpath, len(specs))
	for _, s := range specs {
		from := s[0].(StopID)
		to := s[1].(StopID)
		wt := s[2].(int)
		fp, err := NewFootpath(from, to, wt)
		require.NoError(t, err)
		m[FootpathKey{From: from, To: to}] = fp
	}
	return m
}

func TestCheckTransitivityMissing(t *testing.T) {
	fps := footpathMap(t, [][3]any{
		{StopID("a"), StopID("b"), 60},
		{StopID("b"), StopID("c"), 90},
	})

	report := CheckTransitivity(fps)
	require.Len(t, report.Missing, 1)
	assert.Equal(t, StopID("a"), report.Missing[0].From)
	assert.Equal(t, StopID("c"), report.Missing[0].To)
	assert.Equal(t, 150, report.Missing[0].WalkingTime)
	assert.Empty(t, report.Tighter)
}

func TestCheckTransitivityTighter(t *testing.T) {
	fps := footpathMap(t, [][3]any{
		{StopID("a"), StopID("b"), 60},
		{StopID("b"), StopID("c"), 90},
		{StopID("a"), StopID("c"), 1000},
	})

	report := CheckTransitivity(fps)
	assert.Empty(t, report.Missing)
	require.Len(t, report.Tighter, 1)
	assert.Equal(t, 150, report.Tighter[0].WalkingTime)
}

func TestCheckTransitivityClean(t *testing.T) {
	fps := footpathMap(t, [][3]any{
		{StopID("a"), StopID("b"), 60},
		{StopID("b"), StopID("c"), 90},
		{StopID("a"), StopID("c"), 100},
	})
	report := CheckTransitivity(fps)
	assert.Equal(t, 0, report.Len())
}

func TestMakeTransitiveTerminates(t *testing.T) {
	fps := footpathMap(t, [][3]any{
		{StopID("a"), StopID("b"), 10},
		{StopID("b"), StopID("c"), 10},
		{StopID("c"), StopID("d"), 10},
	})

	closed, iterations := MakeTransitive(fps)
	assert.Greater(t, iterations, 0)
	report := CheckTransitivity(closed)
	assert.Equal(t, 0, report.Len())
	assert.Contains(t, closed, FootpathKey{From: "a", To: "d"})
}
