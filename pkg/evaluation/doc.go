// Package evaluation defines the persisted result tree of one scoring run.
//
// The tree mirrors the grid one-to-one but carries computed values:
//
//	Evaluation                (total score, status, insights)
//	 └── Category             (user score vs max possible)
//	      └── Subcategory     (user score vs max possible, field count)
//	           └── Field      (qualifies, points earned, actual value)
//
// The whole tree is created and populated within one evaluation run and is
// write-once: after the final total-score/notes update nothing mutates it.
// Invariants maintained by the scoring engine:
//
//   - a field with points earned > 0 always qualifies
//   - subcategory and category user scores never exceed their max possible
//     scores after capping
//   - the evaluation total equals the sum of its category scores
//
// Storage backends live in the storage subpackage; scheduled cleanup lives in
// the retention subpackage.
package evaluation
