// Package retention prunes old evaluation trees on a cron schedule.
//
// Pruning is age-based with a safety floor: evaluations older than the
// configured maximum age are deleted, but the newest evaluations of each
// application are always preserved so an applicant never loses their current
// score. The Scheduler runs the Pruner unattended; Prune can also be invoked
// directly from the CLI.
package retention
