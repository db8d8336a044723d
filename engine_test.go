package csa_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	csa "github.com/andersmoen/go-csa"
	"github.com/andersmoen/go-csa/internal/examplenet"
)

func hms(h, m, s int) int { return h*3600 + m*60 + s }

func buildNetwork(t *testing.T) (*csa.TimetableContainer, *csa.Engine) {
	t.Helper()
	tt, err := examplenet.Build(zerolog.Nop())
	require.NoError(t, err)
	return tt, csa.NewEngine(tt)
}

func TestEngineBernToZurichHBUnoptimised(t *testing.T) {
	_, engine := buildNetwork(t)

	arr, ok := engine.RouteEarliestArrival(examplenet.Bern, examplenet.ZurichHB, hms(7, 35, 0))
	require.True(t, ok)
	assert.Equal(t, hms(8, 58, 0), arr)
}

func TestEngineBernToZurichHBExactDeparture(t *testing.T) {
	_, engine := buildNetwork(t)

	j, err := engine.RouteEarliestArrivalWithReconstruction(examplenet.Bern, examplenet.ZurichHB, hms(8, 2, 0))
	require.NoError(t, err)
	require.NotNil(t, j)
	arr, ok := j.ArrTime()
	require.True(t, ok)
	assert.Equal(t, hms(8, 58, 0), arr)
	assert.Len(t, j.Legs(), 1)
	assert.Len(t, j.BoardedStopIDs(), 1)
}

func TestEngineBernToZurichHBUnreachable(t *testing.T) {
	_, engine := buildNetwork(t)

	_, ok := engine.RouteEarliestArrival(examplenet.Bern, examplenet.ZurichHB, hms(23, 33, 0))
	assert.False(t, ok)
}

func TestEngineBernToSamedan(t *testing.T) {
	_, engine := buildNetwork(t)

	j, err := engine.RouteEarliestArrivalWithReconstruction(examplenet.Bern, examplenet.Samedan, hms(8, 30, 0))
	require.NoError(t, err)
	require.NotNil(t, j)
	arr, ok := j.ArrTime()
	require.True(t, ok)
	assert.Equal(t, hms(12, 45, 0), arr)
	assert.Len(t, j.Legs(), 3)
	assert.Len(t, j.BoardedStopIDs(), 3)
}

func TestEngineBernToSamedanSpital(t *testing.T) {
	_, engine := buildNetwork(t)

	j, err := engine.RouteEarliestArrivalWithReconstruction(examplenet.Bern, examplenet.SamedanSpital, hms(7, 30, 0))
	require.NoError(t, err)
	require.NotNil(t, j)
	arr, ok := j.ArrTime()
	require.True(t, ok)
	assert.Equal(t, hms(15, 7, 0), arr)
	assert.Len(t, j.Legs(), 4)
	assert.Len(t, j.BoardedStopIDs(), 4)
}

func TestEngineBernDubystrasseToSamedan(t *testing.T) {
	_, engine := buildNetwork(t)

	j, err := engine.RouteEarliestArrivalWithReconstruction(examplenet.BernDuby, examplenet.Samedan, hms(7, 30, 0))
	require.NoError(t, err)
	require.NotNil(t, j)
	arr, ok := j.ArrTime()
	require.True(t, ok)
	assert.Equal(t, hms(12, 45, 0), arr)
	require.Len(t, j.Legs(), 4)
	assert.Len(t, j.BoardedStopIDs(), 4)

	firstLeg := j.Legs()[0]
	require.True(t, firstLeg.IsRide())
	out, ok := firstLeg.OutConnection()
	require.True(t, ok)
	assert.Equal(t, examplenet.BernBhf, out.To)
}

func TestEngineBaselToStGallen(t *testing.T) {
	_, engine := buildNetwork(t)

	j, err := engine.RouteEarliestArrivalWithReconstruction(examplenet.BaselSBB, examplenet.StGallen, hms(7, 30, 0))
	require.NoError(t, err)
	require.NotNil(t, j)
	arr, ok := j.ArrTime()
	require.True(t, ok)
	assert.Equal(t, hms(9, 41, 0), arr)
	assert.Len(t, j.Legs(), 2)
	assert.Len(t, j.BoardedStopIDs(), 2)
}

func TestEngineSelfQueryEmptyJourney(t *testing.T) {
	_, engine := buildNetwork(t)

	j, err := engine.RouteEarliestArrivalWithReconstruction(examplenet.Bern, examplenet.Bern, hms(12, 9, 46))
	require.NoError(t, err)
	require.NotNil(t, j)
	assert.True(t, j.IsEmpty())
	assert.Empty(t, j.BoardedStopIDs())
}

func TestEngineSelfQueryMode1ReturnsDesiredDepartureTime(t *testing.T) {
	_, engine := buildNetwork(t)

	arr, ok := engine.RouteEarliestArrival(examplenet.Bern, examplenet.Bern, hms(12, 9, 46))
	require.True(t, ok)
	assert.Equal(t, hms(12, 9, 46), arr)
}

func TestEngineWalkingOnlyJourney(t *testing.T) {
	_, engine := buildNetwork(t)

	j, err := engine.RouteEarliestArrivalWithReconstruction(examplenet.Bern, examplenet.BernBhf, hms(12, 9, 46))
	require.NoError(t, err)
	require.NotNil(t, j)
	require.Len(t, j.Legs(), 1)
	assert.True(t, j.Legs()[0].IsWalk())
	assert.Empty(t, j.BoardedStopIDs())
}

func TestEngineAllModesAgree(t *testing.T) {
	_, engine := buildNetwork(t)

	cases := []struct {
		from, to csa.StopID
		dep      int
	}{
		{examplenet.Bern, examplenet.ZurichHB, hms(7, 35, 0)},
		{examplenet.Bern, examplenet.Samedan, hms(8, 30, 0)},
		{examplenet.Bern, examplenet.SamedanSpital, hms(7, 30, 0)},
		{examplenet.BernDuby, examplenet.Samedan, hms(7, 30, 0)},
		{examplenet.BaselSBB, examplenet.StGallen, hms(7, 30, 0)},
	}

	for _, c := range cases {
		arr1, ok1 := engine.RouteEarliestArrival(c.from, c.to, c.dep)
		j2, err := engine.RouteEarliestArrivalWithReconstruction(c.from, c.to, c.dep)
		require.NoError(t, err)
		j3, err := engine.RouteOptimizedEarliestArrivalWithReconstruction(c.from, c.to, c.dep)
		require.NoError(t, err)

		require.True(t, ok1)
		arr2, ok2 := j2.ArrTime()
		require.True(t, ok2)
		arr3, ok3 := j3.ArrTime()
		require.True(t, ok3)

		assert.Equal(t, arr1, arr2, "mode 1 and mode 2 must agree")
		assert.Equal(t, arr1, arr3, "mode 1 and mode 3 must agree")
		assert.Equal(t, j2.Legs(), j3.Legs(), "mode 2 and mode 3 must reconstruct the same journey")
	}
}

func TestEngineIdempotence(t *testing.T) {
	_, engine := buildNetwork(t)

	arrA, okA := engine.RouteEarliestArrival(examplenet.Bern, examplenet.Samedan, hms(8, 30, 0))
	arrB, okB := engine.RouteEarliestArrival(examplenet.Bern, examplenet.Samedan, hms(8, 30, 0))
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, arrA, arrB)

	jA, err := engine.RouteOptimizedEarliestArrivalWithReconstruction(examplenet.Bern, examplenet.Samedan, hms(8, 30, 0))
	require.NoError(t, err)
	jB, err := engine.RouteOptimizedEarliestArrivalWithReconstruction(examplenet.Bern, examplenet.Samedan, hms(8, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, jA.Legs(), jB.Legs())
}

func TestEngineTripFreeTimetableDirectFootpath(t *testing.T) {
	a, _ := csa.NewStop("a", "", "A", 0, 0, false, nil)
	b, _ := csa.NewStop("b", "", "B", 0, 0, false, nil)
	stops := map[csa.StopID]csa.Stop{a.ID: a, b.ID: b}

	loopA, _ := csa.NewFootpath("a", "a", 0)
	loopB, _ := csa.NewFootpath("b", "b", 0)
	direct, _ := csa.NewFootpath("a", "b", 300)
	footpaths := map[csa.FootpathKey]csa.Footpath{
		{From: "a", To: "a"}: loopA,
		{From: "b", To: "b"}: loopB,
		{From: "a", To: "b"}: direct,
	}

	tt, err := csa.NewTimetableContainer(stops, footpaths, nil)
	require.NoError(t, err)
	engine := csa.NewEngine(tt)

	arr, ok := engine.RouteEarliestArrival("a", "b", 1000)
	require.True(t, ok)
	assert.Equal(t, 1300, arr)

	_, ok = engine.RouteEarliestArrival("b", "a", 1000)
	assert.False(t, ok, "footpath is directed; the reverse must be unreachable")
}

func TestEngineUnknownStopIsUnreachable(t *testing.T) {
	_, engine := buildNetwork(t)

	_, ok := engine.RouteEarliestArrival("nowhere", examplenet.Bern, 0)
	assert.False(t, ok)
}

func TestEngineUnknownStopIsUnreachableWithReconstruction(t *testing.T) {
	_, engine := buildNetwork(t)

	j, err := engine.RouteEarliestArrivalWithReconstruction("nowhere", examplenet.Bern, 0)
	require.NoError(t, err)
	assert.Nil(t, j)

	j, err = engine.RouteOptimizedEarliestArrivalWithReconstruction(examplenet.Bern, "nowhere", 0)
	require.NoError(t, err)
	assert.Nil(t, j)
}
