package evaluation

import (
	"time"

	"github.com/google/uuid"
)

// StatusCompleted is the status of a fully scored evaluation. Evaluations are
// written in one run; there is no in-progress status visible to callers.
const StatusCompleted = "COMPLETED"

// InitialVersion is the version number assigned to new evaluations.
const InitialVersion = 1

// Evaluation is the root of one scoring run's result tree.
type Evaluation struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	GridID        uuid.UUID `json:"grid_id"`
	GridName      string    `json:"grid_name"`
	EvaluatedAt   time.Time `json:"evaluated_at"`
	TotalScore    int       `json:"total_score"`
	Status        string    `json:"status"`
	Version       int       `json:"version"`

	// Notes is the short human-readable insights summary; Details is the
	// full technical report.
	Notes   string `json:"notes,omitempty"`
	Details string `json:"details,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Categories is populated on reads that load the full tree.
	Categories []*Category `json:"categories,omitempty"`
}

// Category is one category's computed result.
type Category struct {
	ID               uuid.UUID `json:"id"`
	EvaluationID     uuid.UUID `json:"evaluation_id"`
	CategoryID       uuid.UUID `json:"category_id"`
	CategoryName     string    `json:"category_name"`
	UserScore        int       `json:"user_score"`
	MaxPossibleScore int       `json:"max_possible_score"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Subcategories []*Subcategory `json:"subcategories,omitempty"`
}

// Subcategory is one subcategory's computed result. FieldCount is the number
// of field groups that produced at least one qualifying field.
type Subcategory struct {
	ID               uuid.UUID `json:"id"`
	CategoryEvalID   uuid.UUID `json:"category_eval_id"`
	SubcategoryID    uuid.UUID `json:"subcategory_id"`
	SubcategoryName  string    `json:"subcategory_name"`
	UserScore        int       `json:"user_score"`
	MaxPossibleScore int       `json:"max_possible_score"`
	FieldCount       int       `json:"field_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Fields []*Field `json:"fields,omitempty"`
}

// Field is one field's computed result. ActualValue records the resolved
// variable values the decision was based on, for audit.
type Field struct {
	ID                uuid.UUID `json:"id"`
	SubcategoryEvalID uuid.UUID `json:"subcategory_eval_id"`
	FieldID           uuid.UUID `json:"field_id"`
	ApplicationID     uuid.UUID `json:"application_id"`
	FieldName         string    `json:"field_name"`
	Expression        string    `json:"expression"`
	Qualifies         bool      `json:"qualifies"`
	PointsEarned      int       `json:"points_earned"`
	ActualValue       string    `json:"actual_value,omitempty"`
	EvaluatedAt       time.Time `json:"evaluated_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
