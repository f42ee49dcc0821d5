package grid

import (
	"time"

	"github.com/google/uuid"
)

// Grid is a named, versioned scoring ruleset. Grid rows are immutable once
// imported; a new version is a new row.
type Grid struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Version       string    `json:"version"`
	Coverage      string    `json:"coverage,omitempty"` // e.g. "federal", "provincial"
	MaxTotalScore int       `json:"max_total_score"`
	EffectiveDate time.Time `json:"effective_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Category is a top-level scoring section of a grid. The applicable ceiling
// depends on the applicant's marital status.
type Category struct {
	ID               uuid.UUID `json:"id"`
	GridID           uuid.UUID `json:"grid_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	MaxScoreSpouse   int       `json:"max_score_spouse"`
	MaxScoreNoSpouse int       `json:"max_score_no_spouse"`
	SortOrder        int       `json:"sort_order"`
	CreatedAt        time.Time `json:"created_at"`
}

// Subcategory groups the fields of one scoring concern within a category.
type Subcategory struct {
	ID               uuid.UUID `json:"id"`
	CategoryID       uuid.UUID `json:"category_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	MaxScoreSpouse   int       `json:"max_score_spouse"`
	MaxScoreNoSpouse int       `json:"max_score_no_spouse"`
	SortOrder        int       `json:"sort_order"`
	CreatedAt        time.Time `json:"created_at"`
}

// Field is a single scoring rule. Expression holds the logic DSL evaluated
// against the applicant's variable map; CombineOperator optionally controls
// how semicolon-separated clauses are joined ("AND", "OR", or a
// semicolon-separated list of per-position operators).
//
// Fields with the same Name inside one subcategory form a mutually exclusive
// group; that is a rule invariant, not a data error.
type Field struct {
	ID              uuid.UUID `json:"id"`
	SubcategoryID   uuid.UUID `json:"subcategory_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Expression      string    `json:"expression"`
	CombineOperator string    `json:"combine_operator,omitempty"`
	PointsSpouse    int       `json:"points_spouse"`
	PointsNoSpouse  int       `json:"points_no_spouse"`
	SortOrder       int       `json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
}

// MaxScore returns the category ceiling applicable to the applicant.
func (c *Category) MaxScore(hasSpouse bool) int {
	if hasSpouse {
		return c.MaxScoreSpouse
	}
	return c.MaxScoreNoSpouse
}

// MaxScore returns the subcategory ceiling applicable to the applicant.
func (s *Subcategory) MaxScore(hasSpouse bool) int {
	if hasSpouse {
		return s.MaxScoreSpouse
	}
	return s.MaxScoreNoSpouse
}

// Points returns the award applicable to the applicant's marital status.
func (f *Field) Points(hasSpouse bool) int {
	if hasSpouse {
		return f.PointsSpouse
	}
	return f.PointsNoSpouse
}
