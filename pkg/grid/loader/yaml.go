package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"immimate-hq/polaris/pkg/grid"
	"immimate-hq/polaris/pkg/scoring/expr"
)

// ValidationError reports a grid definition file that cannot be imported.
type ValidationError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid grid definition %s: %s", e.Path, e.Reason)
}

// gridFile mirrors the YAML structure of one grid definition.
type gridFile struct {
	Name          string         `yaml:"name"`
	Version       string         `yaml:"version"`
	Coverage      string         `yaml:"coverage"`
	MaxTotalScore int            `yaml:"max_total_score"`
	EffectiveDate string         `yaml:"effective_date"`
	Categories    []categoryFile `yaml:"categories"`
}

type categoryFile struct {
	Name             string            `yaml:"name"`
	Description      string            `yaml:"description"`
	MaxScoreSpouse   int               `yaml:"max_score_spouse"`
	MaxScoreNoSpouse int               `yaml:"max_score_no_spouse"`
	Subcategories    []subcategoryFile `yaml:"subcategories"`
}

type subcategoryFile struct {
	Name             string      `yaml:"name"`
	Description      string      `yaml:"description"`
	MaxScoreSpouse   int         `yaml:"max_score_spouse"`
	MaxScoreNoSpouse int         `yaml:"max_score_no_spouse"`
	Fields           []fieldFile `yaml:"fields"`
}

type fieldFile struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	Expression      string `yaml:"expression"`
	CombineOperator string `yaml:"combine_operator"`
	PointsSpouse    int    `yaml:"points_spouse"`
	PointsNoSpouse  int    `yaml:"points_no_spouse"`
}

// Loader reads and validates YAML grid definitions.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a grid definition loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default().With("component", "grid.loader")
	}
	return &Loader{logger: logger}
}

// LoadFile reads one grid definition file and materializes it into an
// importable tree.
func (l *Loader) LoadFile(path string) (*grid.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grid definition: %w", err)
	}

	var file gridFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ValidationError{Path: path, Reason: fmt.Sprintf("not valid YAML: %v", err)}
	}

	if err := l.validate(path, &file); err != nil {
		return nil, err
	}
	return l.materialize(path, &file)
}

// LoadDir reads every .yaml/.yml file in a directory, sorted by name so
// imports are deterministic.
func (l *Loader) LoadDir(dir string) ([]*grid.Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read grid directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)

	var definitions []*grid.Definition
	for _, path := range paths {
		def, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, def)
	}
	return definitions, nil
}

// ImportDir loads every definition in a directory and imports it into the
// store. Returns the number of grids imported.
func (l *Loader) ImportDir(ctx context.Context, store grid.Store, dir string) (int, error) {
	definitions, err := l.LoadDir(dir)
	if err != nil {
		return 0, err
	}

	for _, def := range definitions {
		if _, err := store.ImportGrid(ctx, def); err != nil {
			return 0, fmt.Errorf("import grid %q: %w", def.Grid.Name, err)
		}
		l.logger.Info("grid imported",
			"grid", def.Grid.Name,
			"version", def.Grid.Version,
			"categories", len(def.Categories),
		)
	}
	return len(definitions), nil
}

func (l *Loader) validate(path string, file *gridFile) error {
	fail := func(format string, args ...any) error {
		return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
	}

	if file.Name == "" {
		return fail("grid name is required")
	}
	if file.Version == "" {
		return fail("grid version is required")
	}
	if len(file.Categories) == 0 {
		return fail("grid %q declares no categories", file.Name)
	}

	for _, c := range file.Categories {
		if c.Name == "" {
			return fail("grid %q has a category without a name", file.Name)
		}
		if c.MaxScoreSpouse < 0 || c.MaxScoreNoSpouse < 0 {
			return fail("category %q has a negative ceiling", c.Name)
		}
		for _, sc := range c.Subcategories {
			if sc.Name == "" {
				return fail("category %q has a subcategory without a name", c.Name)
			}
			if sc.MaxScoreSpouse < 0 || sc.MaxScoreNoSpouse < 0 {
				return fail("subcategory %q has a negative ceiling", sc.Name)
			}
			for _, f := range sc.Fields {
				if f.Name == "" {
					return fail("subcategory %q has a field without a name", sc.Name)
				}
				if f.PointsSpouse < 0 || f.PointsNoSpouse < 0 {
					return fail("field %q has negative points", f.Name)
				}

				// Non-parsing expressions are tolerated; the field will never
				// qualify and the failure is visible at evaluation time.
				if f.Expression != "" {
					if _, err := expr.Parse(f.Expression); err != nil {
						l.logger.Warn("grid expression does not parse",
							"grid", file.Name,
							"field", f.Name,
							"expression", f.Expression,
							"error", err,
						)
					}
				}
			}
		}
	}
	return nil
}

func (l *Loader) materialize(path string, file *gridFile) (*grid.Definition, error) {
	now := time.Now().UTC()

	effective := now
	if file.EffectiveDate != "" {
		parsed, err := parseDate(file.EffectiveDate)
		if err != nil {
			return nil, &ValidationError{
				Path:   path,
				Reason: fmt.Sprintf("effective_date %q is not a date: %v", file.EffectiveDate, err),
			}
		}
		effective = parsed
	}

	def := &grid.Definition{
		Grid: grid.Grid{
			ID:            uuid.New(),
			Name:          file.Name,
			Version:       file.Version,
			Coverage:      file.Coverage,
			MaxTotalScore: file.MaxTotalScore,
			EffectiveDate: effective,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}

	for ci, c := range file.Categories {
		category := grid.Category{
			ID:               uuid.New(),
			GridID:           def.Grid.ID,
			Name:             c.Name,
			Description:      c.Description,
			MaxScoreSpouse:   c.MaxScoreSpouse,
			MaxScoreNoSpouse: c.MaxScoreNoSpouse,
			SortOrder:        ci + 1,
			CreatedAt:        now,
		}

		cd := grid.CategoryDefinition{Category: category}
		for si, sc := range c.Subcategories {
			subcategory := grid.Subcategory{
				ID:               uuid.New(),
				CategoryID:       category.ID,
				Name:             sc.Name,
				Description:      sc.Description,
				MaxScoreSpouse:   sc.MaxScoreSpouse,
				MaxScoreNoSpouse: sc.MaxScoreNoSpouse,
				SortOrder:        si + 1,
				CreatedAt:        now,
			}

			sd := grid.SubcategoryDefinition{Subcategory: subcategory}
			for fi, f := range sc.Fields {
				sd.Fields = append(sd.Fields, grid.Field{
					ID:              uuid.New(),
					SubcategoryID:   subcategory.ID,
					Name:            f.Name,
					Description:     f.Description,
					Expression:      f.Expression,
					CombineOperator: f.CombineOperator,
					PointsSpouse:    f.PointsSpouse,
					PointsNoSpouse:  f.PointsNoSpouse,
					SortOrder:       fi + 1,
					CreatedAt:       now,
				})
			}
			cd.Subcategories = append(cd.Subcategories, sd)
		}
		def.Categories = append(def.Categories, cd)
	}

	return def, nil
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
