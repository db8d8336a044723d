// Package ingest adapts a GTFS feed into the three maps a
// csa.TimetableContainer is built from: stops by id, footpaths by
// (from, to), and trips by id. It is a collaborator, not part of the
// routing engine — the engine never imports it.
package ingest

import (
	"fmt"
	"math"
	"sort"

	"github.com/patrickbr/gtfsparser"
	"github.com/patrickbr/gtfsparser/gtfs"
	"github.com/rs/zerolog"

	csa "github.com/andersmoen/go-csa"
)

// Options configures footpath synthesis. Zero-value Options falls
// back to the defaults noted on each field below.
type Options struct {
	// BeelineRadiusMeters bounds the all-pairs beeline synthesis; stop
	// pairs farther apart than this never get a beeline edge. Default 100.
	BeelineRadiusMeters float64
	// WalkingSpeedMetersPerSecond is used to turn a beeline distance
	// into a walking_time. Default 2.0/3.6 (2 km/h).
	WalkingSpeedMetersPerSecond float64
	// Date is the service date trips are filtered against, as
	// YYYYMMDD.
	Date string
	Logger zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.BeelineRadiusMeters == 0 {
		o.BeelineRadiusMeters = 100
	}
	if o.WalkingSpeedMetersPerSecond == 0 {
		o.WalkingSpeedMetersPerSecond = 2.0 / 3.6
	}
	return o
}

// LoadFeed reads a GTFS zip/directory at path and returns the three
// maps a TimetableContainer wants. The planar projection it uses is
// internal and is not returned.
func LoadFeed(path string, opts Options) (
	map[csa.StopID]csa.Stop,
	map[csa.FootpathKey]csa.Footpath,
	map[csa.TripID]csa.Trip,
	error,
) {
	opts = opts.withDefaults()

	feed := gtfsparser.NewFeed()
	if err := feed.Parse(path); err != nil {
		return nil, nil, nil, fmt.Errorf("ingest: parsing gtfs feed at %q: %w", path, err)
	}

	proj := newEquirectangularProjection(feed.Stops)

	stops, parentOf, err := buildStops(feed, proj)
	if err != nil {
		return nil, nil, nil, err
	}

	footpaths := synthesizeFootpaths(stops, parentOf, opts)

	trips, err := buildTrips(feed, opts)
	if err != nil {
		return nil, nil, nil, err
	}

	opts.Logger.Info().
		Int("stops", len(stops)).
		Int("footpaths", len(footpaths)).
		Int("trips", len(trips)).
		Msg("ingested gtfs feed")

	return stops, footpaths, trips, nil
}

// equirectangularProjection turns WGS84 lon/lat into a local planar
// (easting, northing) metric frame, centred on the feed's stop
// centroid. This is the one ambient-math concern this package takes
// on with the standard library rather than a third-party library: no
// geo-projection package appears anywhere in the retrieved corpus, so
// this small, well-known approximation (flat-earth equirectangular,
// accurate to a few meters over a metro area) is preferred over
// fabricating a dependency.
type equirectangularProjection struct {
	centerLatRad float64
	centerLonRad float64
}

const earthRadiusMeters = 6371000.0

func newEquirectangularProjection(stops map[string]*gtfs.Stop) equirectangularProjection {
	var sumLat, sumLon float64
	var n int
	for _, s := range stops {
		sumLat += s.Lat
		sumLon += s.Lon
		n++
	}
	if n == 0 {
		return equirectangularProjection{}
	}
	return equirectangularProjection{
		centerLatRad: (sumLat / float64(n)) * math.Pi / 180,
		centerLonRad: (sumLon / float64(n)) * math.Pi / 180,
	}
}

func (p equirectangularProjection) project(lat, lon float64) (easting, northing float64) {
	latRad := lat * math.Pi / 180
	lonRad := lon * math.Pi / 180
	easting = earthRadiusMeters * (lonRad - p.centerLonRad) * math.Cos(p.centerLatRad)
	northing = earthRadiusMeters * (latRad - p.centerLatRad)
	return easting, northing
}

func buildStops(feed *gtfsparser.Feed, proj equirectangularProjection) (map[csa.StopID]csa.Stop, map[csa.StopID]csa.StopID, error) {
	stops := make(map[csa.StopID]csa.Stop, len(feed.Stops))
	parentOf := make(map[csa.StopID]csa.StopID)

	for _, s := range feed.Stops {
		easting, northing := proj.project(s.Lat, s.Lon)
		var parentID *csa.StopID
		if s.Parent_station != nil {
			pid := csa.StopID(s.Parent_station.Id)
			parentID = &pid
			parentOf[csa.StopID(s.Id)] = pid
		}
		stop, err := csa.NewStop(
			csa.StopID(s.Id),
			s.Code,
			s.Name,
			easting,
			northing,
			isStationLocationType(s),
			parentID,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("ingest: building stop %q: %w", s.Id, err)
		}
		stops[stop.ID] = stop
	}
	return stops, parentOf, nil
}

func isStationLocationType(s *gtfs.Stop) bool {
	return s.Location_type == 1
}

// synthesizeFootpaths produces, per spec §6, a zero-cost loop at every
// stop, zero-cost parent/child edges in both directions, and an
// all-pairs beeline footpath within radius at walking speed for every
// pair not already joined by a parent/child edge — then
// lets an explicit edge with the same key win if one is later upserted
// by the caller (this function never sees feed.Transfers itself;
// callers combining a feed's own transfers should upsert after).
func synthesizeFootpaths(stops map[csa.StopID]csa.Stop, parentOf map[csa.StopID]csa.StopID, opts Options) map[csa.FootpathKey]csa.Footpath {
	footpaths := make(map[csa.FootpathKey]csa.Footpath)

	ids := make([]csa.StopID, 0, len(stops))
	for id := range stops {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	upsert := func(from, to csa.StopID, walkingTime int) {
		fp, err := csa.NewFootpath(from, to, walkingTime)
		if err != nil {
			return
		}
		footpaths[csa.FootpathKey{From: from, To: to}] = fp
	}

	for _, id := range ids {
		upsert(id, id, 0)
	}

	for childID, parentID := range parentOf {
		if _, ok := stops[parentID]; !ok {
			continue
		}
		upsert(childID, parentID, 0)
		upsert(parentID, childID, 0)
	}

	speed := opts.WalkingSpeedMetersPerSecond
	radius := opts.BeelineRadiusMeters
	for i, a := range ids {
		sa := stops[a]
		for _, b := range ids[i+1:] {
			sb := stops[b]
			dist := math.Hypot(sa.Easting-sb.Easting, sa.Northing-sb.Northing)
			if dist > radius {
				continue
			}
			walkingTime := int(math.Round(dist / speed))
			if _, ok := footpaths[csa.FootpathKey{From: a, To: b}]; !ok {
				upsert(a, b, walkingTime)
			}
			if _, ok := footpaths[csa.FootpathKey{From: b, To: a}]; !ok {
				upsert(b, a, walkingTime)
			}
		}
	}

	return footpaths
}

func buildTrips(feed *gtfsparser.Feed, opts Options) (map[csa.TripID]csa.Trip, error) {
	date, err := parseDate(opts.Date)
	if err != nil {
		return nil, err
	}

	trips := make(map[csa.TripID]csa.Trip, len(feed.Trips))
	tripIDs := make([]string, 0, len(feed.Trips))
	for id := range feed.Trips {
		tripIDs = append(tripIDs, id)
	}
	sort.Strings(tripIDs)

	for _, id := range tripIDs {
		t := feed.Trips[id]
		if date.Year != 0 && !t.Service.IsActiveOn(date) {
			continue
		}

		stopTimes := append([]gtfs.StopTime(nil), t.StopTimes...)
		sort.SliceStable(stopTimes, func(i, j int) bool {
			return stopTimes[i].Sequence() < stopTimes[j].Sequence()
		})

		if hasMissingStopTime(stopTimes) {
			opts.Logger.Warn().Str("trip_id", id).Msg("dropping trip with missing stop time")
			continue
		}
		if len(stopTimes) < 2 {
			continue
		}

		conns := make([]csa.Connection, 0, len(stopTimes)-1)
		for i := 0; i < len(stopTimes)-1; i++ {
			from, to := stopTimes[i], stopTimes[i+1]
			c, err := csa.NewConnection(
				csa.TripID(id),
				csa.StopID(from.Stop().Id),
				csa.StopID(to.Stop().Id),
				from.Departure_time().SecondsSinceMidnight(),
				to.Arrival_time().SecondsSinceMidnight(),
			)
			if err != nil {
				return nil, fmt.Errorf("ingest: building connection for trip %q: %w", id, err)
			}
			conns = append(conns, c)
		}

		trip, err := csa.NewTrip(csa.TripID(id), conns, tripType(t.Route))
		if err != nil {
			return nil, fmt.Errorf("ingest: building trip %q: %w", id, err)
		}
		trips[trip.ID] = trip
	}

	return trips, nil
}

func hasMissingStopTime(stopTimes []gtfs.StopTime) bool {
	for _, st := range stopTimes {
		if !st.Arrival_time().Empty() || !st.Departure_time().Empty() {
			continue
		}
		return true
	}
	return false
}

func tripType(route *gtfs.Route) csa.TripType {
	if route == nil {
		return csa.TripTypeUnknown
	}
	switch route.Type {
	case 0:
		return csa.TripTypeTram
	case 1, 2:
		return csa.TripTypeRail
	case 3:
		return csa.TripTypeBus
	case 4:
		return csa.TripTypeFerry
	case 5, 6, 7:
		return csa.TripTypeCableCar
	default:
		return csa.TripTypeUnknown
	}
}

func parseDate(s string) (gtfs.Date, error) {
	if s == "" {
		return gtfs.Date{}, nil
	}
	if len(s) != 8 {
		return gtfs.Date{}, fmt.Errorf("ingest: date %q is not in YYYYMMDD form", s)
	}
	var year, month, day int
	if _, err := fmt.Sscanf(s, "%4d%2d%2d", &year, &month, &day); err != nil {
		return gtfs.Date{}, fmt.Errorf("ingest: parsing date %q: %w", s, err)
	}
	return gtfs.NewDate(uint8(day), uint8(month), uint16(year)), nil
}
