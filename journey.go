package csa

import "fmt"

type legKind int

const (
	legKindWalk legKind = iota
	legKindRide
)

// JourneyLeg is a tagged union of a pure walking leg and a ride on a
// single trip optionally followed by a walk. Preferring a sum type
// over a triple of nullable fields keeps "at least one present" and
// "ride fields are symmetric" invariants enforceable at construction
// instead of re-checked by every reader.
type JourneyLeg struct {
	kind     legKind
	in       Connection
	out      Connection
	footpath Footpath
	hasWalk  bool
}

// NewWalkLeg builds a pure-walking leg.
func NewWalkLeg(fp Footpath) JourneyLeg {
	return JourneyLeg{kind: legKindWalk, footpath: fp, hasWalk: true}
}

// NewRideLeg builds a leg that rides a single trip from in.From to
// out.To, optionally followed by a walk. trailingWalk may be nil.
//
// Invariant chosen for the in/out ordering (spec's open question on
// the JourneyLeg time bound): in.ArrTime <= out.DepTime, the tighter
// of the two historical variants — it implies in.DepTime <=
// out.ArrTime given each connection's own dep<=arr invariant, so
// nothing is lost by requiring the stronger bound. A single-hop ride,
// where in and out are the same connection, is exempt from this bound.
func NewRideLeg(in, out Connection, trailingWalk *Footpath) (JourneyLeg, error) {
	if in.TripID != out.TripID {
		return JourneyLeg{}, newConstructionError("JourneyLeg", string(in.TripID),
			fmt.Sprintf("in/out connections belong to different trips (%s vs %s)", in.TripID, out.TripID))
	}
	if in != out && in.ArrTime > out.DepTime {
		return JourneyLeg{}, newConstructionError("JourneyLeg", string(in.TripID),
			fmt.Sprintf("in.arr_time (%d) > out.dep_time (%d)", in.ArrTime, out.DepTime))
	}
	leg := JourneyLeg{kind: legKindRide, in: in, out: out}
	if trailingWalk != nil {
		if out.To != trailingWalk.From {
			return JourneyLeg{}, newConstructionError("JourneyLeg", string(in.TripID),
				fmt.Sprintf("out.to_stop (%s) does not equal footpath.from_stop (%s)", out.To, trailingWalk.From))
		}
		leg.footpath = *trailingWalk
		leg.hasWalk = true
	}
	return leg, nil
}

func (l JourneyLeg) IsWalk() bool { return l.kind == legKindWalk }
func (l JourneyLeg) IsRide() bool { return l.kind == legKindRide }

// InConnection returns the boarded connection of a ride leg.
func (l JourneyLeg) InConnection() (Connection, bool) {
	if l.kind != legKindRide {
		return Connection{}, false
	}
	return l.in, true
}

// OutConnection returns the alighted connection of a ride leg.
func (l JourneyLeg) OutConnection() (Connection, bool) {
	if l.kind != legKindRide {
		return Connection{}, false
	}
	return l.out, true
}

// Footpath returns the walking edge of this leg: the whole leg for a
// walk leg, or the trailing walk of a ride leg, if any.
func (l JourneyLeg) Footpath() (Footpath, bool) {
	if !l.hasWalk {
		return Footpath{}, false
	}
	return l.footpath, true
}

// FirstStopID is the stop this leg departs from.
func (l JourneyLeg) FirstStopID() StopID {
	if l.kind == legKindRide {
		return l.in.From
	}
	return l.footpath.From
}

// LastStopID is the stop this leg arrives at.
func (l JourneyLeg) LastStopID() StopID {
	if l.hasWalk {
		return l.footpath.To
	}
	if l.kind == legKindRide {
		return l.out.To
	}
	return l.footpath.To
}

func (l JourneyLeg) String() string {
	if l.kind == legKindWalk {
		return fmt.Sprintf("walk%s", l.footpath)
	}
	if l.hasWalk {
		return fmt.Sprintf("ride(%s -> %s)+walk%s", l.in, l.out, l.footpath)
	}
	return fmt.Sprintf("ride(%s -> %s)", l.in, l.out)
}

// Journey is an ordered sequence of journey legs, built back-to-front
// by Prepend during reconstruction and read-only once returned by the
// engine.
type Journey struct {
	legs []JourneyLeg
}

// NewJourney returns an empty journey (the result for a source ==
// target query).
func NewJourney() *Journey {
	return &Journey{}
}

// Prepend adds leg to the front of the journey, enforcing that its
// last stop matches the journey's current first stop and that two
// consecutive pure-walking legs never occur.
func (j *Journey) Prepend(leg JourneyLeg) error {
	if len(j.legs) > 0 {
		first := j.legs[0]
		if leg.LastStopID() != first.FirstStopID() {
			return newConstructionError("Journey", string(leg.LastStopID()),
				fmt.Sprintf("leg's last stop does not equal journey's first stop (%s)", first.FirstStopID()))
		}
		if leg.IsWalk() && first.IsWalk() {
			return newConstructionError("Journey", "", "two consecutive pure-walking legs are not allowed")
		}
	}
	j.legs = append([]JourneyLeg{leg}, j.legs...)
	return nil
}

// Legs returns the ordered legs of the journey.
func (j *Journey) Legs() []JourneyLeg {
	return j.legs
}

// IsEmpty reports whether the journey has no legs (source == target).
func (j *Journey) IsEmpty() bool {
	return len(j.legs) == 0
}

// FirstStopID is the stop the journey departs from, or "" if empty.
func (j *Journey) FirstStopID() StopID {
	if j.IsEmpty() {
		return ""
	}
	return j.legs[0].FirstStopID()
}

// LastStopID is the stop the journey arrives at, or "" if empty.
func (j *Journey) LastStopID() StopID {
	if j.IsEmpty() {
		return ""
	}
	return j.legs[len(j.legs)-1].LastStopID()
}

// DepTime derives the journey's departure time, per spec §4.4: the
// in-connection's dep_time if the first leg is a ride; otherwise, if
// a second leg follows, that leg's departure minus the first walk's
// walking time. A lone pure-walking leg carries no departure time of
// its own (the journey does not remember the query's desired
// departure time), so the second return is false in that case.
func (j *Journey) DepTime() (int, bool) {
	if j.IsEmpty() {
		return 0, false
	}
	first := j.legs[0]
	if first.IsRide() {
		in, _ := first.InConnection()
		return in.DepTime, true
	}
	if len(j.legs) > 1 {
		second := j.legs[1]
		in, ok := second.InConnection()
		if !ok {
			return 0, false
		}
		fp, _ := first.Footpath()
		return in.DepTime - fp.WalkingTime, true
	}
	return 0, false
}

// ArrTime derives the journey's arrival time, per spec §4.4: the last
// ride's out_connection.arr_time plus the walking time of its trailing
// footpath and of a pure-walking leg after it, if any. A journey with
// no ride leg at all (a single walking leg) has no such anchor and
// reports false, matching the same limitation as DepTime above — the
// absolute arrival for that case is only known to the caller that ran
// the query, via the returned earliest-arrival time.
func (j *Journey) ArrTime() (int, bool) {
	trailing := 0
	for i := len(j.legs) - 1; i >= 0; i-- {
		leg := j.legs[i]
		if leg.IsRide() {
			out, _ := leg.OutConnection()
			if fp, ok := leg.Footpath(); ok {
				return out.ArrTime + fp.WalkingTime + trailing, true
			}
			return out.ArrTime + trailing, true
		}
		fp, _ := leg.Footpath()
		trailing += fp.WalkingTime
	}
	return 0, false
}

// BoardedStopIDs returns the boarding stop of every ride leg, in order.
func (j *Journey) BoardedStopIDs() []StopID {
	var ids []StopID
	for _, leg := range j.legs {
		if in, ok := leg.InConnection(); ok {
			ids = append(ids, in.From)
		}
	}
	return ids
}

// AlightedStopIDs returns the alighting stop of every ride leg, in order.
func (j *Journey) AlightedStopIDs() []StopID {
	var ids []StopID
	for _, leg := range j.legs {
		if out, ok := leg.OutConnection(); ok {
			ids = append(ids, out.To)
		}
	}
	return ids
}
