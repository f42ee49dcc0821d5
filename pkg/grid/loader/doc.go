// Package loader reads grid definitions from YAML files and imports them
// into a grid store.
//
// A definition file declares one grid: its metadata and the full
// category/subcategory/field tree. The loader materializes the tree with
// fresh IDs; grids are immutable once imported, so re-importing a file
// replaces the stored grid of the same name and version wholesale.
//
// Field expressions are checked against the expression grammar at load time.
// A non-parsing expression is a warning, not an import failure: the field
// simply never qualifies at evaluation time and the failure shows up in the
// evaluation report and metrics.
//
// The Watcher re-imports a directory of definition files when they change on
// disk, debouncing rapid events so editors that write in bursts trigger one
// import.
package loader
