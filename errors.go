package csa

import "fmt"

// ConstructionError reports a validation failure while building a
// core value type (Stop, Footpath, Connection, Trip, JourneyLeg,
// Journey) or the TimetableContainer itself. The name-resolving
// query wrappers for modes 2 and 3 also return it, with Component
// "Engine", when a stop name is unknown. It is the only error type
// this package returns; every construction failure in spec is a hard,
// fatal failure surfaced this way, never a panic.
type ConstructionError struct {
	Component string // e.g. "Connection", "Trip", "TimetableContainer"
	Key       string // the offending id or composite key, formatted for humans
	Msg       string
}

func (e *ConstructionError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", e.Component, e.Msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Component, e.Key, e.Msg)
}

func newConstructionError(component, key, msg string) *ConstructionError {
	return &ConstructionError{Component: component, Key: key, Msg: msg}
}
