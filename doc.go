// Package csa implements the Connection Scan Algorithm (CSA) of
// Dibbelt et al. for earliest-arrival public-transit routing over a
// static timetable of stops, footpaths and scheduled vehicle trips.
package csa
