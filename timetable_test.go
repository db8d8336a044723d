package csa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleTimetable(t *testing.T) *TimetableContainer {
	t.Helper()
	a, _ := NewStop("a", "", "Alpha", 0, 0, false, nil)
	b, _ := NewStop("b", "", "Beta", 0, 0, false, nil)
	stops := map[StopID]Stop{a.ID: a, b.ID: b}

	fp, _ := NewFootpath("a", "b", 60)
	footpaths := map[FootpathKey]Footpath{{From: "a", To: "b"}: fp}

	c, _ := NewConnection("t1", "a", "b", 100, 200)
	trip, _ := NewTrip("t1", []Connection{c}, TripTypeBus)
	trips := map[TripID]Trip{trip.ID: trip}

	tt, err := NewTimetableContainer(stops, footpaths, trips)
	require.NoError(t, err)
	return tt
}

func TestNewTimetableContainerValid(t *testing.T) {
	tt := simpleTimetable(t)
	assert.Equal(t, 2, tt.NumStops())
	assert.Equal(t, 1, tt.NumTrips())

	stop, ok := tt.Stop("a")
	require.True(t, ok)
	assert.Equal(t, "Alpha", stop.Name)

	fp, ok := tt.Footpath("a", "b")
	require.True(t, ok)
	assert.Equal(t, 60, fp.WalkingTime)
}

func TestNewTimetableContainerRejectsMismatchedStopKey(t *testing.T) {
	a, _ := NewStop("a", "", "Alpha", 0, 0, false, nil)
	stops := map[StopID]Stop{"wrong": a}
	_, err := NewTimetableContainer(stops, nil, nil)
	assert.Error(t, err)
}

func TestNewTimetableContainerRejectsUnknownFootpathStop(t *testing.T) {
	a, _ := NewStop("a", "", "Alpha", 0, 0, false, nil)
	stops := map[StopID]Stop{a.ID: a}
	fp, _ := NewFootpath("a", "ghost", 10)
	footpaths := map[FootpathKey]Footpath{{From: "a", To: "ghost"}: fp}
	_, err := NewTimetableContainer(stops, footpaths, nil)
	assert.Error(t, err)
}

func TestNewTimetableContainerRejectsUnknownTripStop(t *testing.T) {
	a, _ := NewStop("a", "", "Alpha", 0, 0, false, nil)
	stops := map[StopID]Stop{a.ID: a}
	c, _ := NewConnection("t1", "a", "ghost", 100, 200)
	trip, _ := NewTrip("t1", []Connection{c}, TripTypeBus)
	trips := map[TripID]Trip{trip.ID: trip}
	_, err := NewTimetableContainer(stops, nil, trips)
	assert.Error(t, err)
}

func TestStopsByNameTieBreak(t *testing.T) {
	station, _ := NewStop("bern_main", "", "Bern", 0, 0, true, nil)
	nonStation, _ := NewStop("bern_alt", "", "Bern", 0, 0, false, nil)
	stops := map[StopID]Stop{station.ID: station, nonStation.ID: nonStation}

	tt, err := NewTimetableContainer(stops, nil, nil)
	require.NoError(t, err)

	id, ok := tt.ResolveStopByName("Bern")
	require.True(t, ok)
	assert.Equal(t, StopID("bern_main"), id, "is_station candidate must win over non-station")
}

func TestStopsByNameShortestIDTieBreak(t *testing.T) {
	long, _ := NewStop("bern_long_id", "", "Bern", 0, 0, false, nil)
	short, _ := NewStop("bn", "", "Bern", 0, 0, false, nil)
	stops := map[StopID]Stop{long.ID: long, short.ID: short}

	tt, err := NewTimetableContainer(stops, nil, nil)
	require.NoError(t, err)

	id, ok := tt.ResolveStopByName("Bern")
	require.True(t, ok)
	assert.Equal(t, StopID("bn"), id)
}

func TestSortedConnectionsOrdering(t *testing.T) {
	a, _ := NewStop("a", "", "A", 0, 0, false, nil)
	b, _ := NewStop("b", "", "B", 0, 0, false, nil)
	stops := map[StopID]Stop{a.ID: a, b.ID: b}

	c1, _ := NewConnection("t1", "a", "b", 200, 300)
	c2, _ := NewConnection("t2", "a", "b", 100, 150)
	trip1, _ := NewTrip("t1", []Connection{c1}, TripTypeBus)
	trip2, _ := NewTrip("t2", []Connection{c2}, TripTypeBus)
	trips := map[TripID]Trip{trip1.ID: trip1, trip2.ID: trip2}

	tt, err := NewTimetableContainer(stops, nil, trips)
	require.NoError(t, err)
	require.Len(t, tt.sortedConnections, 2)
	assert.Equal(t, 100, tt.sortedConnections[0].depTime)
	assert.Equal(t, 200, tt.sortedConnections[1].depTime)
}
