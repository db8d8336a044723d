package csa

import (
	"sort"

	"github.com/rs/zerolog"
)

// compiledConnection is the engine's internal, interned representation
// of a Connection: stop and trip ids are resolved to small integer
// indices so the hot connection-scan loop can use them as direct slice
// indices into S/T/L instead of hashing strings. See DESIGN.md,
// component B ("array-of-struct connections").
type compiledConnection struct {
	tripIdx int32
	fromIdx int32
	toIdx   int32
	depTime int
	arrTime int
}

type compiledFootpath struct {
	toIdx       int32
	walkingTime int
}

// TimetableContainer owns the validated stops, footpaths and trips of
// a static timetable and the derived indices the CSA engine scans
// over. It is built once by its constructor and is read-only for the
// rest of its lifetime; multiple engines/queries may share one
// container concurrently.
type TimetableContainer struct {
	stops     map[StopID]Stop
	footpaths map[FootpathKey]Footpath
	trips     map[TripID]Trip

	stopIndex map[StopID]int32
	stopIDs   []StopID // index -> id
	tripIndex map[TripID]int32
	tripIDs   []TripID // index -> id

	sortedConnections []compiledConnection
	outgoingFootpaths [][]compiledFootpath // index by stop index

	stopsByName map[string]StopID

	logger zerolog.Logger
}

// Option configures a TimetableContainer at construction time.
type Option func(*containerConfig)

type containerConfig struct {
	logger zerolog.Logger
}

// WithLogger attaches a structured logger to the container; it logs
// only non-fatal warnings (currently: footpath non-transitivity).
// Defaults to a no-op logger when omitted.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *containerConfig) { c.logger = logger }
}

// NewTimetableContainer validates stops, footpaths and trips per
// spec §3 and builds the derived indices per spec §4.1. Every
// validation failure is a hard, fatal *ConstructionError.
func NewTimetableContainer(
	stops map[StopID]Stop,
	footpaths map[FootpathKey]Footpath,
	trips map[TripID]Trip,
	opts ...Option,
) (*TimetableContainer, error) {
	cfg := containerConfig{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	for id, stop := range stops {
		if id != stop.ID {
			return nil, newConstructionError("TimetableContainer", string(id), "stop map key does not equal stop.ID")
		}
	}

	for key, fp := range footpaths {
		if key.From != fp.From || key.To != fp.To {
			return nil, newConstructionError("TimetableContainer", string(key.From)+"->"+string(key.To),
				"footpath map key does not equal footpath's (from,to)")
		}
	}
	for key := range footpaths {
		if _, ok := stops[key.From]; !ok {
			return nil, newConstructionError("TimetableContainer", string(key.From), "footpath references unknown from_stop")
		}
		if _, ok := stops[key.To]; !ok {
			return nil, newConstructionError("TimetableContainer", string(key.To), "footpath references unknown to_stop")
		}
	}

	for id, trip := range trips {
		if id != trip.ID {
			return nil, newConstructionError("TimetableContainer", string(id), "trip map key does not equal trip.ID")
		}
	}
	for id, trip := range trips {
		for stopID := range trip.AllStopIDs() {
			if _, ok := stops[stopID]; !ok {
				return nil, newConstructionError("TimetableContainer", string(id),
					"trip references unknown stop_id "+string(stopID))
			}
		}
	}

	tt := &TimetableContainer{
		stops:     stops,
		footpaths: footpaths,
		trips:     trips,
		logger:    cfg.logger,
	}
	tt.buildStopIndex()
	tt.buildTripIndex()
	tt.buildSortedConnections()
	tt.buildOutgoingFootpaths()
	tt.buildStopsByName()

	report := CheckTransitivity(footpaths)
	if report.Len() > 0 {
		tt.logger.Warn().
			Int("missing", len(report.Missing)).
			Int("tighter", len(report.Tighter)).
			Msg("footpaths are not transitively closed; engine remains correct, only direct footpaths are scanned")
	}

	return tt, nil
}

func (tt *TimetableContainer) buildStopIndex() {
	ids := make([]StopID, 0, len(tt.stops))
	for id := range tt.stops {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tt.stopIndex = make(map[StopID]int32, len(ids))
	tt.stopIDs = ids
	for i, id := range ids {
		tt.stopIndex[id] = int32(i)
	}
}

func (tt *TimetableContainer) buildTripIndex() {
	ids := make([]TripID, 0, len(tt.trips))
	for id := range tt.trips {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tt.tripIndex = make(map[TripID]int32, len(ids))
	tt.tripIDs = ids
	for i, id := range ids {
		tt.tripIndex[id] = int32(i)
	}
}

// buildSortedConnections gathers every connection of every trip into a
// single array, sorted by (dep_time, arr_time) ascending. Trips are
// walked in sorted-id order (not map iteration order) so that ties in
// the sort key break deterministically across runs, which idempotence
// (spec §8 property 6) depends on.
func (tt *TimetableContainer) buildSortedConnections() {
	var conns []compiledConnection
	for _, tripID := range tt.tripIDs {
		tripIdx := tt.tripIndex[tripID]
		for _, c := range tt.trips[tripID].Connections {
			conns = append(conns, compiledConnection{
				tripIdx: tripIdx,
				fromIdx: tt.stopIndex[c.From],
				toIdx:   tt.stopIndex[c.To],
				depTime: c.DepTime,
				arrTime: c.ArrTime,
			})
		}
	}
	sort.SliceStable(conns, func(i, j int) bool {
		if conns[i].depTime != conns[j].depTime {
			return conns[i].depTime < conns[j].depTime
		}
		return conns[i].arrTime < conns[j].arrTime
	})
	tt.sortedConnections = conns
}

func (tt *TimetableContainer) buildOutgoingFootpaths() {
	tt.outgoingFootpaths = make([][]compiledFootpath, len(tt.stopIDs))
	keys := make([]FootpathKey, 0, len(tt.footpaths))
	for k := range tt.footpaths {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].From != keys[j].From {
			return keys[i].From < keys[j].From
		}
		return keys[i].To < keys[j].To
	})
	for _, k := range keys {
		fp := tt.footpaths[k]
		fromIdx := tt.stopIndex[fp.From]
		tt.outgoingFootpaths[fromIdx] = append(tt.outgoingFootpaths[fromIdx], compiledFootpath{
			toIdx:       tt.stopIndex[fp.To],
			walkingTime: fp.WalkingTime,
		})
	}
}

// buildStopsByName picks, for every stop name shared by multiple
// stops, a single canonical stop id: prefer IsStation == true, then
// the shortest id, lexicographically-smallest as the final tiebreak.
// This disambiguation rule is user-facing (it feeds the *_by_name
// query wrappers) and must be preserved exactly.
func (tt *TimetableContainer) buildStopsByName() {
	tt.stopsByName = make(map[string]StopID)
	for _, id := range tt.stopIDs {
		stop := tt.stops[id]
		cur, ok := tt.stopsByName[stop.Name]
		if !ok {
			tt.stopsByName[stop.Name] = stop.ID
			continue
		}
		if betterNameCandidate(stop, tt.stops[cur]) {
			tt.stopsByName[stop.Name] = stop.ID
		}
	}
}

func betterNameCandidate(candidate, current Stop) bool {
	if candidate.IsStation != current.IsStation {
		return candidate.IsStation
	}
	if len(candidate.ID) != len(current.ID) {
		return len(candidate.ID) < len(current.ID)
	}
	return candidate.ID < current.ID
}

// Stop looks up a stop by id.
func (tt *TimetableContainer) Stop(id StopID) (Stop, bool) {
	s, ok := tt.stops[id]
	return s, ok
}

// Trip looks up a trip by id.
func (tt *TimetableContainer) Trip(id TripID) (Trip, bool) {
	t, ok := tt.trips[id]
	return t, ok
}

// Footpath looks up a direct footpath by (from, to).
func (tt *TimetableContainer) Footpath(from, to StopID) (Footpath, bool) {
	fp, ok := tt.footpaths[FootpathKey{From: from, To: to}]
	return fp, ok
}

// ResolveStopByName resolves a display name to its canonical stop id,
// per the buildStopsByName disambiguation rule.
func (tt *TimetableContainer) ResolveStopByName(name string) (StopID, bool) {
	id, ok := tt.stopsByName[name]
	return id, ok
}

// NumStops and NumTrips report the size of the timetable.
func (tt *TimetableContainer) NumStops() int { return len(tt.stopIDs) }
func (tt *TimetableContainer) NumTrips() int { return len(tt.tripIDs) }

func (tt *TimetableContainer) decodeConnection(cc compiledConnection) Connection {
	return Connection{
		TripID:  tt.tripIDs[cc.tripIdx],
		From:    tt.stopIDs[cc.fromIdx],
		To:      tt.stopIDs[cc.toIdx],
		DepTime: cc.depTime,
		ArrTime: cc.arrTime,
	}
}

func (tt *TimetableContainer) decodeFootpath(fromIdx int32, fp compiledFootpath) Footpath {
	return Footpath{
		From:        tt.stopIDs[fromIdx],
		To:          tt.stopIDs[fp.toIdx],
		WalkingTime: fp.walkingTime,
	}
}

// legAt returns the reconstruction pointer for a stop, or nil if the
// stop is unknown (should not happen for stops reachable via l/L).
func (tt *TimetableContainer) legAt(l []*JourneyLeg, id StopID) *JourneyLeg {
	idx, ok := tt.stopIndex[id]
	if !ok {
		return nil
	}
	return l[idx]
}
