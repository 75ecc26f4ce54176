// Package plan holds the pure planning kernel: spatial partitioning of points
// of interest into day-sized clusters and per-day budget/time selection.
package plan

import (
	"math"
	"sort"

	"github.com/DD2507/Tripster/internal/model"
)

const (
	maxIterations = 100
	moveTolerance = 1e-7
)

// Partition groups points into at most dayCount geographically compact
// clusters by (lat, lng) proximity. Points without usable coordinates are
// excluded entirely. The algorithm is fully deterministic: identical inputs
// always produce identical cluster assignments. Returned clusters are never
// empty except for the single cluster returned on empty input; every valid
// input point appears in exactly one cluster.
func Partition(points []model.PointOfInterest, dayCount int) []model.DayCluster {
	if dayCount < 1 {
		dayCount = 1
	}
	valid := make([]model.PointOfInterest, 0, len(points))
	for _, p := range points {
		if p.HasCoordinates() {
			valid = append(valid, p)
		}
	}

	k := dayCount
	if len(valid) < k {
		k = len(valid)
	}
	if k <= 1 {
		return []model.DayCluster{{Points: valid}}
	}

	labels := kmeans(valid, k)

	groups := make([][]model.PointOfInterest, k)
	for i, p := range valid {
		groups[labels[i]] = append(groups[labels[i]], p)
	}

	out := make([]model.DayCluster, 0, k)
	for _, g := range groups {
		if len(g) > 0 {
			out = append(out, model.DayCluster{Points: g})
		}
	}
	if len(out) == 0 {
		return []model.DayCluster{{Points: valid}}
	}
	return out
}

type centroid struct {
	lat, lng float64
}

// kmeans runs Lloyd iterations with deterministic seeding: initial centroids
// are the points at evenly spaced ranks of the input sorted by (lat, lng).
// Ties on distance go to the lower-indexed centroid.
func kmeans(points []model.PointOfInterest, k int) []int {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := points[order[a]], points[order[b]]
		if pa.Lat != pb.Lat {
			return pa.Lat < pb.Lat
		}
		return pa.Lng < pb.Lng
	})

	cents := make([]centroid, k)
	for i := 0; i < k; i++ {
		idx := order[i*(len(points)-1)/(k-1)]
		cents[i] = centroid{lat: points[idx].Lat, lng: points[idx].Lng}
	}

	labels := make([]int, len(points))
	for iter := 0; iter < maxIterations; iter++ {
		for i, p := range points {
			best := 0
			bestDist := sqDist(p, cents[0])
			for c := 1; c < k; c++ {
				if d := sqDist(p, cents[c]); d < bestDist {
					best = c
					bestDist = d
				}
			}
			labels[i] = best
		}

		moved := 0.0
		for c := 0; c < k; c++ {
			var latSum, lngSum float64
			n := 0
			for i, p := range points {
				if labels[i] == c {
					latSum += p.Lat
					lngSum += p.Lng
					n++
				}
			}
			if n == 0 {
				// keep the stale centroid; the empty cluster is dropped later
				continue
			}
			next := centroid{lat: latSum / float64(n), lng: lngSum / float64(n)}
			d := math.Abs(next.lat-cents[c].lat) + math.Abs(next.lng-cents[c].lng)
			if d > moved {
				moved = d
			}
			cents[c] = next
		}
		if moved < moveTolerance {
			break
		}
	}
	return labels
}

func sqDist(p model.PointOfInterest, c centroid) float64 {
	dLat := p.Lat - c.lat
	dLng := p.Lng - c.lng
	return dLat*dLat + dLng*dLng
}
