package csa

// Engine answers earliest-arrival routing queries over a
// TimetableContainer via the Connection Scan Algorithm. An Engine is
// stateless and safe for concurrent use by multiple goroutines; every
// query allocates its own S/T/L state and releases it on return.
type Engine struct {
	tt *TimetableContainer
}

// NewEngine wraps a validated timetable for querying.
func NewEngine(tt *TimetableContainer) *Engine {
	return &Engine{tt: tt}
}

// scanResult carries the forward pass's outcome: the earliest arrival
// at the target, and — when reconstruct was requested — the
// reconstruction pointers needed to walk a journey back out of it.
type scanResult struct {
	eaTarget int
	lTarget  *JourneyLeg
	l        []*JourneyLeg
}

// scan runs the connection-scan main loop once, in either of its four
// configurations (reconstruct x optimized). This is the sole place the
// forward pass is implemented; every public query method is a thin
// wrapper that resolves ids, short-circuits, and renders the result.
func (e *Engine) scan(fromIdx, toIdx int32, depSec int, reconstruct, optimized bool) scanResult {
	tt := e.tt
	numStops := len(tt.stopIDs)

	s := make([]int, numStops)
	for i := range s {
		s[i] = Infinity
	}

	var l []*JourneyLeg
	if reconstruct {
		l = make([]*JourneyLeg, numStops)
	}

	eaTarget := Infinity
	var lTarget *JourneyLeg

	// Initialisation: every outgoing footpath of the source stop, per
	// §4.3.2. A loop footpath (f.to == f.from, i.e. the source's own
	// dwell edge) contributes zero walking time to both S and
	// ea_target; every other footpath contributes its full time and,
	// when reconstructing, seeds a pure-walking leg.
	for _, fp := range tt.outgoingFootpaths[fromIdx] {
		isLoop := fp.toIdx == fromIdx
		walk := fp.walkingTime
		if isLoop {
			walk = 0
		}
		cand := depSec + walk

		if cand < s[fp.toIdx] {
			s[fp.toIdx] = cand
			if reconstruct && !isLoop {
				leg := NewWalkLeg(tt.decodeFootpath(fromIdx, fp))
				l[fp.toIdx] = &leg
			}
		}
		if fp.toIdx == toIdx && cand < eaTarget {
			eaTarget = cand
			if reconstruct {
				if isLoop {
					lTarget = nil
				} else {
					leg := NewWalkLeg(tt.decodeFootpath(fromIdx, fp))
					lTarget = &leg
				}
			}
		}
	}

	numTrips := len(tt.tripIDs)
	tSet := make([]bool, numTrips)
	tConn := make([]compiledConnection, numTrips)

	conns := tt.sortedConnections
	start := 0
	if optimized {
		if idx, ok := lowerBound(conns, depSec, func(c compiledConnection) int { return c.depTime }); ok {
			start = idx
		} else {
			start = len(conns)
		}
	}

	for idx := start; idx < len(conns); idx++ {
		c := conns[idx]

		// Stopping criterion (mode 3 only): later connections, sorted
		// by departure time, can never improve an already-found arrival.
		if optimized && c.depTime >= eaTarget {
			break
		}

		reachable := tSet[c.tripIdx] || s[c.fromIdx] <= c.depTime
		if !reachable {
			continue
		}
		if !tSet[c.tripIdx] {
			tSet[c.tripIdx] = true
			tConn[c.tripIdx] = c
		}

		// Limited-walking criterion (mode 3 only): if this connection
		// cannot itself tighten S[c.to], its outgoing footpaths can't
		// tighten anything further either.
		if optimized && !(c.arrTime < s[c.toIdx]) {
			continue
		}

		for _, fp := range tt.outgoingFootpaths[c.toIdx] {
			cand := c.arrTime + fp.walkingTime
			improved := cand < s[fp.toIdx]
			if improved {
				s[fp.toIdx] = cand
			}

			isLoop := fp.toIdx == c.toIdx
			candTarget := c.arrTime
			if !isLoop {
				candTarget += fp.walkingTime
			}
			improvesTarget := fp.toIdx == toIdx && candTarget < eaTarget

			if !reconstruct {
				if improvesTarget {
					eaTarget = candTarget
				}
				continue
			}

			var in, out Connection
			if improved || improvesTarget {
				in = tt.decodeConnection(tConn[c.tripIdx])
				out = tt.decodeConnection(c)
			}
			if improved {
				fpDecoded := tt.decodeFootpath(c.toIdx, fp)
				leg, _ := NewRideLeg(in, out, &fpDecoded)
				l[fp.toIdx] = &leg
			}
			if improvesTarget {
				eaTarget = candTarget
				if isLoop {
					leg, _ := NewRideLeg(in, out, nil)
					lTarget = &leg
				} else {
					fpDecoded := tt.decodeFootpath(c.toIdx, fp)
					leg, _ := NewRideLeg(in, out, &fpDecoded)
					lTarget = &leg
				}
			}
		}
	}

	return scanResult{eaTarget: eaTarget, lTarget: lTarget, l: l}
}

// reconstruct walks L backwards from the target to the source per
// §4.3.4, generalised to branch on leg kind: a ride leg's predecessor
// stop is its in_connection's boarding stop, a walking leg's is its
// footpath's origin. Falls back to a direct footpath from the source
// when the walk runs dry short of it, and reports a nil journey (not
// an error) when neither resolves, per the "no crash" rule of §7.
func (e *Engine) reconstruct(fromIdx, toIdx int32, fromStopID, toStopID StopID, lTarget *JourneyLeg, l []*JourneyLeg) (*Journey, error) {
	if fromIdx == toIdx {
		return NewJourney(), nil
	}

	j := NewJourney()
	cur := toStopID
	curLeg := lTarget
	for curLeg != nil {
		if err := j.Prepend(*curLeg); err != nil {
			return nil, err
		}
		if curLeg.IsRide() {
			in, _ := curLeg.InConnection()
			cur = in.From
		} else {
			fp, _ := curLeg.Footpath()
			cur = fp.From
		}
		curLeg = e.tt.legAt(l, cur)
	}

	if cur == fromStopID {
		return j, nil
	}
	if fp, ok := e.tt.Footpath(fromStopID, cur); ok {
		leg := NewWalkLeg(fp)
		if err := j.Prepend(leg); err != nil {
			return nil, err
		}
		return j, nil
	}
	return nil, nil
}

// RouteEarliestArrival is mode 1: the unoptimised scan with no
// reconstruction. Returns (arrival, true) if reachable, (0, false)
// otherwise. An unknown stop id is treated as unreachable.
func (e *Engine) RouteEarliestArrival(from, to StopID, depSec int) (int, bool) {
	fromIdx, ok := e.tt.stopIndex[from]
	if !ok {
		return 0, false
	}
	toIdx, ok := e.tt.stopIndex[to]
	if !ok {
		return 0, false
	}
	res := e.scan(fromIdx, toIdx, depSec, false, false)
	if res.eaTarget == Infinity {
		return 0, false
	}
	return res.eaTarget, true
}

// RouteEarliestArrivalWithReconstruction is mode 2: the unoptimised
// scan plus reconstruction. Returns a nil journey when unreachable, an
// empty journey when from == to.
func (e *Engine) RouteEarliestArrivalWithReconstruction(from, to StopID, depSec int) (*Journey, error) {
	return e.routeReconstruct(from, to, depSec, false)
}

// RouteOptimizedEarliestArrivalWithReconstruction is mode 3: adds the
// starting/stopping/limited-walking prunings to mode 2. Agrees with
// modes 1 and 2 on every query (spec property 8.1).
func (e *Engine) RouteOptimizedEarliestArrivalWithReconstruction(from, to StopID, depSec int) (*Journey, error) {
	return e.routeReconstruct(from, to, depSec, true)
}

func (e *Engine) routeReconstruct(from, to StopID, depSec int, optimized bool) (*Journey, error) {
	// An unknown stop id is a query-level "unreachable", not a
	// construction failure (spec §7 class 2, not class 1) — it must
	// agree with mode 1's (0, false) for the same query.
	fromIdx, ok := e.tt.stopIndex[from]
	if !ok {
		return nil, nil
	}
	toIdx, ok := e.tt.stopIndex[to]
	if !ok {
		return nil, nil
	}
	// Trivial short-circuit (spec §4.3.4): source == target always
	// yields an empty journey, with or without a loop footpath present.
	if fromIdx == toIdx {
		return NewJourney(), nil
	}
	res := e.scan(fromIdx, toIdx, depSec, true, optimized)
	return e.reconstruct(fromIdx, toIdx, from, to, res.lTarget, res.l)
}

// RouteEarliestArrivalByName resolves from/to display names via the
// container's stops_by_name index, then delegates to mode 1.
func (e *Engine) RouteEarliestArrivalByName(fromName, toName string, depSec int) (int, bool) {
	from, ok := e.tt.ResolveStopByName(fromName)
	if !ok {
		return 0, false
	}
	to, ok := e.tt.ResolveStopByName(toName)
	if !ok {
		return 0, false
	}
	return e.RouteEarliestArrival(from, to, depSec)
}

// RouteEarliestArrivalWithReconstructionByName is the name-resolving
// wrapper for mode 2.
func (e *Engine) RouteEarliestArrivalWithReconstructionByName(fromName, toName string, depSec int) (*Journey, error) {
	from, ok := e.tt.ResolveStopByName(fromName)
	if !ok {
		return nil, newConstructionError("Engine", fromName, "unknown stop name")
	}
	to, ok := e.tt.ResolveStopByName(toName)
	if !ok {
		return nil, newConstructionError("Engine", toName, "unknown stop name")
	}
	return e.RouteEarliestArrivalWithReconstruction(from, to, depSec)
}

// RouteOptimizedEarliestArrivalWithReconstructionByName is the
// name-resolving wrapper for mode 3.
func (e *Engine) RouteOptimizedEarliestArrivalWithReconstructionByName(fromName, toName string, depSec int) (*Journey, error) {
	from, ok := e.tt.ResolveStopByName(fromName)
	if !ok {
		return nil, newConstructionError("Engine", fromName, "unknown stop name")
	}
	to, ok := e.tt.ResolveStopByName(toName)
	if !ok {
		return nil, newConstructionError("Engine", toName, "unknown stop name")
	}
	return e.RouteOptimizedEarliestArrivalWithReconstruction(from, to, depSec)
}
