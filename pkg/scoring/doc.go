// Package scoring implements the evaluation engine: it walks a grid against
// an applicant profile and produces a persisted, fully explained score tree.
//
// One evaluation run proceeds in fixed steps:
//
//  1. Look up the grid by name and the profile by application ID.
//  2. Extract the flat variable map and the spouse flag from the profile.
//  3. Persist the evaluation shell, then walk categories in declared order.
//  4. Within each subcategory, same-name fields form mutually exclusive
//     groups; the highest qualifying tier wins, and the subcategory sum is
//     clamped at its ceiling.
//  5. Apply the capping strategy for the category: the Skill Transferability
//     category uses the three-tier group rules, every other category uses
//     per-subcategory caps. Both strategies work on in-memory snapshots and
//     persist adjusted rows once. Either way the category is finally clamped
//     at its own ceiling.
//  6. Sum category scores into the total, attach the insights summary and
//     detailed report, and persist the final update.
//
// Field expression failures are contained: the field does not qualify, the
// insight trail records why, and the run continues. A capping group that does
// not land exactly on its cap is an internal error and aborts the run.
//
// The expr subpackage implements the field expression language.
package scoring
