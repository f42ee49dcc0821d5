package grid

import (
	"context"

	"github.com/google/uuid"
)

// Store is the read/write contract for grid rulesets.
//
// The read path (FindGridByName and the List methods) is what the evaluation
// engine consumes; it must be side-effect-free and safe for concurrent use.
// The write path exists for the YAML importer and the CLI.
type Store interface {
	// FindGridByName returns the grid with the given name, or a
	// *NotFoundError if no such grid exists.
	FindGridByName(ctx context.Context, name string) (*Grid, error)

	// ListCategories returns the categories of a grid in declared order.
	ListCategories(ctx context.Context, gridID uuid.UUID) ([]*Category, error)

	// ListSubcategories returns the subcategories of a category in declared order.
	ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]*Subcategory, error)

	// ListFields returns the fields of a subcategory in declared order.
	ListFields(ctx context.Context, subcategoryID uuid.UUID) ([]*Field, error)

	// ListGrids returns all grids, newest first.
	ListGrids(ctx context.Context) ([]*Grid, error)

	// ImportGrid atomically stores a full grid tree, replacing any existing
	// grid with the same name and version.
	ImportGrid(ctx context.Context, def *Definition) (*Grid, error)

	// Close releases resources held by the store.
	Close() error
}

// Definition is a fully materialized grid tree as produced by the YAML
// loader, ready for import into a Store.
type Definition struct {
	Grid       Grid
	Categories []CategoryDefinition
}

// CategoryDefinition pairs a category with its subcategory tree.
type CategoryDefinition struct {
	Category      Category
	Subcategories []SubcategoryDefinition
}

// SubcategoryDefinition pairs a subcategory with its fields.
type SubcategoryDefinition struct {
	Subcategory Subcategory
	Fields      []Field
}
