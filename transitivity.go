package csa

import "sort"

// FootpathKey is the composite key of the footpaths_per_from_to_stop_id
// map from spec §3/§6.
type FootpathKey struct {
	From StopID
	To   StopID
}

// TransitivityReport is the result of CheckTransitivity: footpaths
// that would close a transitive gap, and footpaths that already exist
// but are longer than the two-hop composition would be.
type TransitivityReport struct {
	Missing []Footpath
	Tighter []Footpath
}

// Len reports the total number of violations found.
func (r TransitivityReport) Len() int {
	return len(r.Missing) + len(r.Tighter)
}

// CheckTransitivity inspects a footpath map for triangle-inequality
// violations: for every pair (a->b), (b->c), it flags a missing (a->c)
// footpath, or a strictly shorter composed time than an existing one.
// The engine itself never requires this closure — sorted_connections
// scanning only ever follows direct outgoing footpaths — so this is
// offered purely as an opt-in diagnostic/pre-processing step.
func CheckTransitivity(footpaths map[FootpathKey]Footpath) TransitivityReport {
	outgoing := map[StopID][]Footpath{}
	for _, fp := range footpaths {
		outgoing[fp.From] = append(outgoing[fp.From], fp)
	}

	var report TransitivityReport
	for a, firstHops := range outgoing {
		for _, ab := range firstHops {
			b := ab.To
			for _, bc := range outgoing[b] {
				c := bc.To
				composed := ab.WalkingTime + bc.WalkingTime
				key := FootpathKey{From: a, To: c}
				existing, ok := footpaths[key]
				if !ok {
					report.Missing = append(report.Missing, Footpath{From: a, To: c, WalkingTime: composed})
					continue
				}
				if composed > 0 && composed < existing.WalkingTime {
					report.Tighter = append(report.Tighter, Footpath{From: a, To: c, WalkingTime: composed})
				}
			}
		}
	}

	sortFootpaths(report.Missing)
	sortFootpaths(report.Tighter)
	return report
}

func sortFootpaths(fps []Footpath) {
	sort.Slice(fps, func(i, j int) bool {
		if fps[i].From != fps[j].From {
			return fps[i].From < fps[j].From
		}
		if fps[i].To != fps[j].To {
			return fps[i].To < fps[j].To
		}
		return fps[i].WalkingTime < fps[j].WalkingTime
	})
}

// MakeTransitive iterates CheckTransitivity, upserting every Missing
// and Tighter footpath by key, until a pass finds no violation. It
// returns the closed (or tightened) map and the number of passes
// performed. Termination is guaranteed because every upsert either
// creates a previously-absent edge or strictly shortens an existing
// one, and walking times are bounded below by zero.
//
// This is disabled by default and opt-in only: make_transitive can
// blow up the footpath map's size and produces implausible long-walk
// edges, so callers must ask for it explicitly.
func MakeTransitive(footpaths map[FootpathKey]Footpath) (map[FootpathKey]Footpath, int) {
	result := make(map[FootpathKey]Footpath, len(footpaths))
	for k, v := range footpaths {
		result[k] = v
	}

	iterations := 0
	for {
		report := CheckTransitivity(result)
		if report.Len() == 0 {
			return result, iterations
		}
		for _, fp := range report.Missing {
			result[FootpathKey{From: fp.From, To: fp.To}] = fp
		}
		for _, fp := range report.Tighter {
			result[FootpathKey{From: fp.From, To: fp.To}] = fp
		}
		iterations++
	}
}
