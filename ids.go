package csa

// StopID and TripID are stable string identifiers, stable across the
// lifetime of a timetable. They are deliberately plain strings at the
// API boundary — TimetableContainer interns them into small integer
// indices internally for the hot connection-scan loop, but every
// public type and signature speaks in these ids so a caller never has
// to think about the internal numbering.
type StopID string
type TripID string

// TripType loosely categorises the vehicle mode of a Trip. It has no
// bearing on routing and exists purely for reporting.
type TripType int

const (
	TripTypeUnknown TripType = iota
	TripTypeTram
	TripTypeRail
	TripTypeBus
	TripTypeFerry
	TripTypeCableCar
)

func (t TripType) String() string {
	switch t {
	case TripTypeTram:
		return "tram"
	case TripTypeRail:
		return "rail"
	case TripTypeBus:
		return "bus"
	case TripTypeFerry:
		return "ferry"
	case TripTypeCableCar:
		return "cable_car"
	default:
		return "unknown"
	}
}

// Infinity caps any arrival time a query can report. A query only
// ever touches times within a single day or two (connections may run
// past midnight to express overnight service), so a two-day bound
// strictly exceeds any representable time while staying far below
// int overflow.
const Infinity = 2 * 24 * 3600
