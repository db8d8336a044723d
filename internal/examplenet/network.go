// Package examplenet builds the small synthetic Swiss-network
// timetable shared by the CLI's demo command and the engine's
// end-to-end tests: Bern, Zürich HB, Chur, Samedan and their
// neighbours, with a handful of hand-picked trips whose arrival times
// are exact and reproducible.
package examplenet

import (
	"github.com/rs/zerolog"

	csa "github.com/andersmoen/go-csa"
)

// Stop ids, exported so tests can refer to them by name instead of
// re-typing string literals.
const (
	Bern          csa.StopID = "bern"
	BernDuby      csa.StopID = "bern_dubystrasse"
	BernBhf       csa.StopID = "bern_bahnhof"
	ZurichHB      csa.StopID = "zuerich_hb"
	Chur          csa.StopID = "chur"
	Thusis        csa.StopID = "thusis"
	Samedan       csa.StopID = "samedan"
	SamedanBhf    csa.StopID = "samedan_bahnhof"
	SamedanSpital csa.StopID = "samedan_spital"
	BaselSBB      csa.StopID = "basel_sbb"
	StGallen      csa.StopID = "st_gallen"
	Fribourg      csa.StopID = "fribourg"
	Winterthur    csa.StopID = "winterthur"
	InterlakenOst csa.StopID = "interlaken_ost"
	StMoritz      csa.StopID = "st_moritz"
	KonizZentrum  csa.StopID = "koniz_zentrum"
	Ostermundigen csa.StopID = "ostermundigen_bahnhof"
)

func hms(h, m, s int) int { return h*3600 + m*60 + s }

type stopSpec struct {
	id       csa.StopID
	name     string
	loopTime int
}

var stopSpecs = []stopSpec{
	{Bern, "Bern", 300},
	{BernDuby, "Bern Dübystrasse", 120},
	{BernBhf, "Bern Bahnhof", 120},
	{ZurichHB, "Zürich HB", 420},
	{Chur, "Chur", 240},
	{Thusis, "Thusis", 120},
	{Samedan, "Samedan", 120},
	{SamedanBhf, "Samedan Bahnhof", 120},
	{SamedanSpital, "Samedan Spital", 120},
	{BaselSBB, "Basel SBB", 120},
	{StGallen, "St. Gallen", 120},
	{Fribourg, "Fribourg", 120},
	{Winterthur, "Winterthur", 120},
	{InterlakenOst, "Interlaken Ost", 120},
	{StMoritz, "St. Moritz", 120},
	{KonizZentrum, "Köniz Zentrum", 120},
	{Ostermundigen, "Ostermundigen Bahnhof", 120},
}

type connSpec struct {
	from, to       csa.StopID
	depSec, arrSec int
}

type tripSpec struct {
	id    csa.TripID
	conns []connSpec
	typ   csa.TripType
}

var tripSpecs = []tripSpec{
	{
		id:  "BE-ZH-1",
		typ: csa.TripTypeRail,
		conns: []connSpec{
			{Bern, ZurichHB, hms(8, 2, 0), hms(8, 58, 0)},
		},
	},
	{
		id:  "BE-ZH-2",
		typ: csa.TripTypeRail,
		conns: []connSpec{
			{Bern, ZurichHB, hms(8, 32, 0), hms(9, 28, 0)},
		},
	},
	{
		id:  "ZH-CHUR-1",
		typ: csa.TripTypeRail,
		conns: []connSpec{
			{ZurichHB, Chur, hms(9, 35, 0), hms(10, 40, 0)},
		},
	},
	{
		id:  "CHUR-SAMEDAN-1",
		typ: csa.TripTypeRail,
		conns: []connSpec{
			{Chur, Thusis, hms(10, 44, 0), hms(11, 19, 0)},
			{Thusis, Samedan, hms(11, 21, 0), hms(12, 45, 0)},
		},
	},
	{
		id:  "DUBY-BHF-1",
		typ: csa.TripTypeTram,
		conns: []connSpec{
			{BernDuby, BernBhf, hms(7, 30, 0), hms(7, 40, 0)},
		},
	},
	{
		id:  "SAMEDAN-SPITAL-1",
		typ: csa.TripTypeBus,
		conns: []connSpec{
			{SamedanBhf, SamedanSpital, hms(14, 50, 0), hms(15, 7, 0)},
		},
	},
	{
		id:  "BASEL-ZH",
		typ: csa.TripTypeRail,
		conns: []connSpec{
			{BaselSBB, ZurichHB, hms(7, 34, 0), hms(8, 20, 0)},
		},
	},
	{
		id:  "ZH-STGALLEN",
		typ: csa.TripTypeRail,
		conns: []connSpec{
			{ZurichHB, StGallen, hms(8, 27, 0), hms(9, 41, 0)},
		},
	},
}

type footpathSpec struct {
	from, to    csa.StopID
	walkingTime int
}

var extraFootpaths = []footpathSpec{
	{BernBhf, Bern, 180},
	{Bern, BernBhf, 180},
	{Samedan, SamedanBhf, 180},
}

// Build assembles the stops, footpaths and trips above into a ready
// TimetableContainer.
func Build(logger zerolog.Logger) (*csa.TimetableContainer, error) {
	stops := make(map[csa.StopID]csa.Stop, len(stopSpecs))
	for i, spec := range stopSpecs {
		stop, err := csa.NewStop(spec.id, string(spec.id), spec.name, float64(i)*1000, 0, false, nil)
		if err != nil {
			return nil, err
		}
		stops[stop.ID] = stop
	}

	footpaths := make(map[csa.FootpathKey]csa.Footpath)
	for _, spec := range stopSpecs {
		fp, err := csa.NewFootpath(spec.id, spec.id, spec.loopTime)
		if err != nil {
			return nil, err
		}
		footpaths[csa.FootpathKey{From: spec.id, To: spec.id}] = fp
	}
	for _, spec := range extraFootpaths {
		fp, err := csa.NewFootpath(spec.from, spec.to, spec.walkingTime)
		if err != nil {
			return nil, err
		}
		footpaths[csa.FootpathKey{From: spec.from, To: spec.to}] = fp
	}

	trips := make(map[csa.TripID]csa.Trip, len(tripSpecs))
	for _, ts := range tripSpecs {
		conns := make([]csa.Connection, 0, len(ts.conns))
		for _, cs := range ts.conns {
			c, err := csa.NewConnection(ts.id, cs.from, cs.to, cs.depSec, cs.arrSec)
			if err != nil {
				return nil, err
			}
			conns = append(conns, c)
		}
		trip, err := csa.NewTrip(ts.id, conns, ts.typ)
		if err != nil {
			return nil, err
		}
		trips[trip.ID] = trip
	}

	return csa.NewTimetableContainer(stops, footpaths, trips, csa.WithLogger(logger))
}
