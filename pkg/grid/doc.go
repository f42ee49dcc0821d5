// Package grid defines the versioned scoring rulesets that evaluations run
// against. A grid is an immutable tree of categories, subcategories, and
// fields; fields carry the boolean logic expressions and point awards.
//
// # Structure
//
//	Grid
//	 └── Category        (two ceilings: with spouse / without spouse)
//	      └── Subcategory (two ceilings)
//	           └── Field  (logic expression, combine operator, two point values)
//
// Fields sharing a name within a subcategory are mutually exclusive
// alternatives: during scoring only the highest-scoring qualifying field of
// the group counts.
//
// Grids are identified by name and version. The engine re-reads grid data on
// every evaluation; nothing in this package caches or mutates grid rows, so
// concurrent evaluations can share one Store.
//
// Storage backends live in the storage subpackage; YAML import lives in the
// loader subpackage.
package grid
