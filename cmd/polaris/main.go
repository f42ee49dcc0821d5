// Polaris is an immigration eligibility scoring engine.
//
// It evaluates applicant profiles against versioned scoring grids (point
// rulesets in the style of Canada's Comprehensive Ranking System) and
// persists fully explained score trees for audit.
//
// Usage:
//
//	# Import grid definitions from a directory of YAML files
//	polaris grids import --dir grids/
//
//	# Import an applicant profile
//	polaris profiles import --file applicant.json
//
//	# Score an application against a grid
//	polaris evaluate --application 6a1f... --grid COMPREHENSIVE_RANKING
//
//	# Inspect past evaluations
//	polaris evaluations list --application 6a1f...
//	polaris evaluations show 9c3e... --details
//
//	# Delete evaluations past retention
//	polaris prune
//
//	# Run the grid watcher, retention scheduler, and metrics endpoint
//	polaris watch
package main

func main() {
	Execute()
}
