package plan

import (
	"sort"

	"github.com/DD2507/Tripster/internal/model"
)

// DefaultMaxHoursPerDay caps the summed visit duration of one day.
const DefaultMaxHoursPerDay = 6.0

// Allocate splits the activities budget evenly across clusters and, per
// cluster, picks the points to visit. Selection is a 0/1 knapsack over the
// integer per-day budget maximizing 1/duration (more stops per budget unit),
// followed by trimming the longest visits until the day fits maxHours, with a
// greedy cheapest-first fallback when the optimizer ends up empty. Allocate
// never fails: degenerate input yields empty selections, not errors. The
// returned total is the literal sum of every day's selected fees.
func Allocate(clusters []model.DayCluster, activitiesBudget float64, maxHours float64) ([]model.DaySelection, float64) {
	if maxHours <= 0 {
		maxHours = DefaultMaxHoursPerDay
	}
	n := len(clusters)
	if n == 0 {
		return []model.DaySelection{}, 0
	}
	perDay := activitiesBudget / float64(n)

	out := make([]model.DaySelection, 0, n)
	total := 0.0
	for _, c := range clusters {
		sel := selectForDay(c.Points, perDay, maxHours)
		out = append(out, sel)
		total += sel.TotalFee
	}
	return out, total
}

func selectForDay(items []model.PointOfInterest, dayBudget, maxHours float64) model.DaySelection {
	capacity := 0
	if dayBudget > 0 {
		capacity = int(dayBudget)
	}
	if len(items) == 0 || capacity <= 0 {
		// A day with nothing affordable is a valid outcome, not an error.
		return model.DaySelection{Points: []model.PointOfInterest{}}
	}

	costs := make([]int, len(items))
	values := make([]float64, len(items))
	for i, it := range items {
		fee := it.EstimatedFee
		if fee < 0 {
			fee = 0
		}
		costs[i] = int(fee)
		dur := it.DurationHours
		if dur < 0.5 {
			dur = 0.5
		}
		values[i] = 1.0 / dur
	}

	chosen := knapsack(costs, values, capacity)

	hoursSum := 0.0
	feeSum := 0.0
	for _, i := range chosen {
		hoursSum += items[i].DurationHours
		feeSum += float64(costs[i])
	}

	// Trim longest-first until the day fits the hour ceiling; ties keep the
	// earlier input index out first.
	for hoursSum > maxHours && len(chosen) > 0 {
		drop := 0
		for j := 1; j < len(chosen); j++ {
			if items[chosen[j]].DurationHours > items[chosen[drop]].DurationHours {
				drop = j
			}
		}
		i := chosen[drop]
		hoursSum -= items[i].DurationHours
		feeSum -= float64(costs[i])
		chosen = append(chosen[:drop], chosen[drop+1:]...)
	}

	if len(chosen) == 0 {
		return greedyFill(items, dayBudget, maxHours)
	}

	picks := make([]model.PointOfInterest, 0, len(chosen))
	for _, i := range chosen {
		picks = append(picks, items[i])
	}
	return model.DaySelection{Points: picks, TotalFee: feeSum, TotalHours: hoursSum}
}

// knapsack solves the 0/1 problem exactly over the discretized capacity and
// returns the selected indices in input order.
func knapsack(costs []int, values []float64, capacity int) []int {
	n := len(costs)
	dp := make([][]float64, n+1)
	keep := make([][]bool, n+1)
	for i := 0; i <= n; i++ {
		dp[i] = make([]float64, capacity+1)
		keep[i] = make([]bool, capacity+1)
	}
	for i := 1; i <= n; i++ {
		v := values[i-1]
		w := costs[i-1]
		for b := 0; b <= capacity; b++ {
			dp[i][b] = dp[i-1][b]
			if w <= b && dp[i-1][b-w]+v > dp[i][b] {
				dp[i][b] = dp[i-1][b-w] + v
				keep[i][b] = true
			}
		}
	}

	chosen := make([]int, 0, n)
	b := capacity
	for i := n; i >= 1; i-- {
		if keep[i][b] {
			chosen = append(chosen, i-1)
			b -= costs[i-1]
		}
	}
	for l, r := 0, len(chosen)-1; l < r; l, r = l+1, r-1 {
		chosen[l], chosen[r] = chosen[r], chosen[l]
	}
	return chosen
}

// greedyFill admits points in ascending (fee, duration) order while both the
// fee budget and the hour ceiling hold. Used only when the knapsack selection
// trimmed away to nothing.
func greedyFill(items []model.PointOfInterest, dayBudget, maxHours float64) model.DaySelection {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := items[order[a]], items[order[b]]
		if ia.EstimatedFee != ib.EstimatedFee {
			return ia.EstimatedFee < ib.EstimatedFee
		}
		return ia.DurationHours < ib.DurationHours
	})

	picks := []model.PointOfInterest{}
	feeSum := 0.0
	hoursSum := 0.0
	for _, i := range order {
		fee := items[i].EstimatedFee
		if fee < 0 {
			fee = 0
		}
		dur := items[i].DurationHours
		if feeSum+fee <= dayBudget && hoursSum+dur <= maxHours {
			picks = append(picks, items[i])
			feeSum += fee
			hoursSum += dur
		}
	}
	return model.DaySelection{Points: picks, TotalFee: feeSum, TotalHours: hoursSum}
}
