package scoring

import (
	"math"

	"github.com/google/uuid"

	"immimate-hq/polaris/pkg/evaluation"
)

// Adjustment records one subcategory score change made while capping.
type Adjustment struct {
	Subcategory string
	From        int
	To          int

	// Remainder marks the member that absorbed the rounding remainder so
	// the group lands exactly on its cap.
	Remainder bool
}

// applySubcategoryCaps enforces each subcategory's own ceiling over a
// category's score snapshot. Subcategories are grouped by their grid
// subcategory ID; maxFor supplies the spouse-adjusted ceiling per group.
// Member scores are adjusted in place and returned adjustments tell the
// caller which rows to persist.
//
// Returns the category total after capping.
func applySubcategoryCaps(subcategories []*evaluation.Subcategory, maxFor func(uuid.UUID) int) (int, []Adjustment, error) {
	groups := make(map[uuid.UUID][]*evaluation.Subcategory)
	var order []uuid.UUID
	for _, sc := range subcategories {
		if _, seen := groups[sc.SubcategoryID]; !seen {
			order = append(order, sc.SubcategoryID)
		}
		groups[sc.SubcategoryID] = append(groups[sc.SubcategoryID], sc)
	}

	var adjustments []Adjustment
	for _, id := range order {
		members := groups[id]
		adj, err := reduceToCap(members[0].SubcategoryName, members, maxFor(id))
		if err != nil {
			return 0, nil, err
		}
		adjustments = append(adjustments, adj...)
	}

	total := 0
	for _, sc := range subcategories {
		total += sc.UserScore
	}
	return total, adjustments, nil
}

// reduceToCap proportionally scales a group's scores down so the group sum
// lands exactly on limit. The last member absorbs the rounding remainder and
// never goes below zero. A group already at or under the limit is untouched.
func reduceToCap(group string, members []*evaluation.Subcategory, limit int) ([]Adjustment, error) {
	if len(members) == 0 {
		return nil, nil
	}

	total := 0
	for _, m := range members {
		total += m.UserScore
	}
	if total <= limit {
		return nil, nil
	}

	scaleFactor := float64(limit) / float64(total)

	var adjustments []Adjustment
	runningSum := 0
	last := len(members) - 1
	for i, m := range members {
		original := m.UserScore
		var adjusted int
		if i == last {
			adjusted = limit - runningSum
			if adjusted < 0 {
				adjusted = 0
			}
		} else {
			adjusted = int(math.Round(float64(original) * scaleFactor))
			runningSum += adjusted
		}

		if adjusted != original {
			m.UserScore = adjusted
			adjustments = append(adjustments, Adjustment{
				Subcategory: m.SubcategoryName,
				From:        original,
				To:          adjusted,
				Remainder:   i == last,
			})
		}
	}

	sum := 0
	for _, m := range members {
		sum += m.UserScore
	}
	if sum != limit {
		return nil, evaluation.NewCappingInvariantError(group, limit, sum)
	}
	return adjustments, nil
}
