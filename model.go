package csa

import "fmt"

// Stop is a physical place a journey can board, alight or walk
// between. It is immutable after construction.
type Stop struct {
	ID              StopID
	Code            string
	Name            string
	Easting         float64 // planar projection, meters
	Northing        float64 // planar projection, meters
	IsStation       bool
	ParentStationID *StopID
}

// NewStop validates and constructs a Stop. The only hard invariant at
// this level is that the id is non-empty; cross-referential
// invariants (footpaths/trips referencing only known stops) are
// enforced by TimetableContainer, which is the only place that sees
// the full stop set. ParentStationID is not checked against the stop
// set anywhere.
func NewStop(id StopID, code, name string, easting, northing float64, isStation bool, parentStationID *StopID) (Stop, error) {
	if id == "" {
		return Stop{}, newConstructionError("Stop", "", "id must not be empty")
	}
	return Stop{
		ID:              id,
		Code:            code,
		Name:            name,
		Easting:         easting,
		Northing:        northing,
		IsStation:       isStation,
		ParentStationID: parentStationID,
	}, nil
}

func (s Stop) String() string {
	return fmt.Sprintf("[id=%s, name=%s]", s.ID, s.Name)
}

// Footpath is a directed walking edge between two stops. A loop
// (From == To) is permitted and represents the minimum dwell time at
// that stop before a connecting trip can be boarded.
type Footpath struct {
	From        StopID
	To          StopID
	WalkingTime int // seconds, >= 0
}

// NewFootpath validates and constructs a Footpath.
func NewFootpath(from, to StopID, walkingTime int) (Footpath, error) {
	if walkingTime < 0 {
		return Footpath{}, newConstructionError("Footpath", fmt.Sprintf("%s->%s", from, to), "walking_time must be >= 0")
	}
	return Footpath{From: from, To: to, WalkingTime: walkingTime}, nil
}

func (f Footpath) IsLoop() bool {
	return f.From == f.To
}

func (f Footpath) String() string {
	return fmt.Sprintf("[from=%s, to=%s, walking_time=%d]", f.From, f.To, f.WalkingTime)
}

// Connection is a single elementary vehicle hop between two adjacent
// stops of a trip. Times are integer seconds since midnight and may
// exceed 24*3600 to express overnight service.
type Connection struct {
	TripID   TripID
	From     StopID
	To       StopID
	DepTime  int
	ArrTime  int
}

// NewConnection validates and constructs a Connection.
func NewConnection(tripID TripID, from, to StopID, depTime, arrTime int) (Connection, error) {
	if depTime > arrTime {
		return Connection{}, newConstructionError("Connection", string(tripID),
			fmt.Sprintf("dep_time (%d) <= arr_time (%d) does not hold", depTime, arrTime))
	}
	return Connection{TripID: tripID, From: from, To: to, DepTime: depTime, ArrTime: arrTime}, nil
}

func (c Connection) String() string {
	return fmt.Sprintf("[trip_id=%s, from=%s, to=%s, dep_time=%d, arr_time=%d]",
		c.TripID, c.From, c.To, c.DepTime, c.ArrTime)
}

// Trip is a single vehicle run: an ordered list of connections
// belonging to the same service.
type Trip struct {
	ID          TripID
	Connections []Connection
	Type        TripType
}

// NewTrip validates and constructs a Trip. Consecutive connections
// must share a stop (c_i.To == c_{i+1}.From) and must not overlap in
// time (c_i.ArrTime <= c_{i+1}.DepTime); every connection must belong
// to this trip.
func NewTrip(id TripID, connections []Connection, tripType TripType) (Trip, error) {
	for i, c := range connections {
		if c.TripID != id {
			return Trip{}, newConstructionError("Trip", string(id),
				fmt.Sprintf("connection %d has trip_id %s, expected %s", i, c.TripID, id))
		}
	}
	for i := 0; i < len(connections)-1; i++ {
		act, next := connections[i], connections[i+1]
		if act.To != next.From {
			return Trip{}, newConstructionError("Trip", string(id),
				fmt.Sprintf("to_stop of connection %s does not equal from_stop of next connection %s", act, next))
		}
		if act.ArrTime > next.DepTime {
			return Trip{}, newConstructionError("Trip", string(id),
				fmt.Sprintf("arr_time of connection %s is > dep_time of next connection %s", act, next))
		}
	}
	return Trip{ID: id, Connections: connections, Type: tripType}, nil
}

// AllStopIDs returns the set of stop ids touched by this trip's
// connections, used by TimetableContainer to validate cross-references.
func (t Trip) AllStopIDs() map[StopID]struct{} {
	ids := make(map[StopID]struct{}, 2*len(t.Connections))
	for _, c := range t.Connections {
		ids[c.From] = struct{}{}
		ids[c.To] = struct{}{}
	}
	return ids
}

func (t Trip) String() string {
	return fmt.Sprintf("[trip_id=%s, n_connections=%d]", t.ID, len(t.Connections))
}
