package scoring

import (
	"strings"

	"immimate-hq/polaris/pkg/evaluation"
)

// Skill Transferability combination groups. Subcategories are assigned to a
// group by name: education-based combinations and foreign-work-based
// combinations each share a group cap, trades certificate combinations score
// outside the group caps, and unrecognized subcategories do not count toward
// the category total at all.
const (
	transferGroupEducation   = "Education"
	transferGroupForeignWork = "Foreign work experience"

	// maxPointsPerTransferGroup caps each combination group.
	maxPointsPerTransferGroup = 50
)

// transferGroupFor classifies one Skill Transferability subcategory by name.
// exempt subcategories count toward the total without a group cap; counted
// reports whether the subcategory counts toward the category at all.
func transferGroupFor(subcategoryName string) (group string, exempt, counted bool) {
	switch {
	case strings.Contains(subcategoryName, "Education"):
		return transferGroupEducation, false, true
	case strings.Contains(subcategoryName, "Foreign Work"):
		return transferGroupForeignWork, false, true
	case strings.Contains(subcategoryName, "Trades Certificate"):
		return "", true, true
	default:
		return "", false, false
	}
}

// applyTransferabilityCaps enforces the Skill Transferability group rules over
// a category's score snapshot: each combination group is capped at 50 points
// with proportional reduction of its members, trades combinations bypass the
// group cap, and the category ceiling is applied by the caller afterwards.
//
// Member scores are adjusted in place. Returns the category total after the
// group caps.
func applyTransferabilityCaps(subcategories []*evaluation.Subcategory, in *insights) (int, []Adjustment, error) {
	groups := make(map[string][]*evaluation.Subcategory)
	var order []string
	var exempt []*evaluation.Subcategory

	for _, sc := range subcategories {
		group, isExempt, counted := transferGroupFor(sc.SubcategoryName)
		switch {
		case !counted:
			in.detailf("  Subcategory '%s' is not part of a transferability combination; excluded from the category total\n",
				sc.SubcategoryName)
		case isExempt:
			exempt = append(exempt, sc)
		default:
			if _, seen := groups[group]; !seen {
				order = append(order, group)
			}
			groups[group] = append(groups[group], sc)
		}
	}

	total := 0
	var adjustments []Adjustment
	for _, name := range order {
		members := groups[name]

		groupScore := 0
		for _, m := range members {
			groupScore += m.UserScore
		}
		if groupScore <= maxPointsPerTransferGroup {
			total += groupScore
			continue
		}

		in.detailf("Group '%s' capped from %d to %d points.\n", name, groupScore, maxPointsPerTransferGroup)
		adj, err := reduceToCap(name, members, maxPointsPerTransferGroup)
		if err != nil {
			return 0, nil, err
		}
		for _, a := range adj {
			if a.Remainder {
				in.detailf("    - %s: %d → %d points (adjusted to ensure exact cap)\n", a.Subcategory, a.From, a.To)
			} else {
				in.detailf("    - %s: %d → %d points\n", a.Subcategory, a.From, a.To)
			}
		}
		adjustments = append(adjustments, adj...)
		total += maxPointsPerTransferGroup
	}

	for _, sc := range exempt {
		total += sc.UserScore
	}

	return total, adjustments, nil
}
