package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"immimate-hq/polaris/pkg/evaluation"
	evalstorage "immimate-hq/polaris/pkg/evaluation/storage"
	"immimate-hq/polaris/pkg/grid"
	gridstorage "immimate-hq/polaris/pkg/grid/storage"
	"immimate-hq/polaris/pkg/profile"
	profilestorage "immimate-hq/polaris/pkg/profile/storage"
)

const testGridName = "COMPREHENSIVE_RANKING"

func field(name, expression, operator string, spouse, noSpouse, order int) grid.Field {
	return grid.Field{
		ID:              uuid.New(),
		Name:            name,
		Expression:      expression,
		CombineOperator: operator,
		PointsSpouse:    spouse,
		PointsNoSpouse:  noSpouse,
		SortOrder:       order,
	}
}

// testGrid builds a small three-category ranking grid:
//
//   - Core: an Age subcategory with a mutually exclusive tier group and an
//     Education subcategory whose two groups can overflow their ceiling
//   - Skill Transferability: two education combinations plus one foreign
//     work combination to exercise the group cap
//   - Additional: a provincial nomination field
func testGrid() *grid.Definition {
	g := grid.Grid{
		ID:            uuid.New(),
		Name:          testGridName,
		Version:       "2026-01",
		MaxTotalScore: 1200,
		EffectiveDate: time.Now().UTC(),
	}

	core := grid.Category{
		ID:               uuid.New(),
		GridID:           g.ID,
		Name:             "Core / Human Capital",
		MaxScoreSpouse:   460,
		MaxScoreNoSpouse: 500,
		SortOrder:        1,
	}
	age := grid.Subcategory{
		ID:               uuid.New(),
		CategoryID:       core.ID,
		Name:             "Age",
		MaxScoreSpouse:   100,
		MaxScoreNoSpouse: 110,
		SortOrder:        1,
	}
	education := grid.Subcategory{
		ID:               uuid.New(),
		CategoryID:       core.ID,
		Name:             "Education",
		MaxScoreSpouse:   20,
		MaxScoreNoSpouse: 25,
		SortOrder:        2,
	}

	transfer := grid.Category{
		ID:               uuid.New(),
		GridID:           g.ID,
		Name:             "Skill Transferability",
		MaxScoreSpouse:   100,
		MaxScoreNoSpouse: 100,
		SortOrder:        2,
	}
	eduLang := grid.Subcategory{
		ID:               uuid.New(),
		CategoryID:       transfer.ID,
		Name:             "Education + Language",
		MaxScoreSpouse:   50,
		MaxScoreNoSpouse: 50,
		SortOrder:        1,
	}
	eduWork := grid.Subcategory{
		ID:               uuid.New(),
		CategoryID:       transfer.ID,
		Name:             "Education + Canadian Work Experience",
		MaxScoreSpouse:   50,
		MaxScoreNoSpouse: 50,
		SortOrder:        2,
	}
	foreignLang := grid.Subcategory{
		ID:               uuid.New(),
		CategoryID:       transfer.ID,
		Name:             "Foreign Work Experience + Language",
		MaxScoreSpouse:   50,
		MaxScoreNoSpouse: 50,
		SortOrder:        3,
	}

	additional := grid.Category{
		ID:               uuid.New(),
		GridID:           g.ID,
		Name:             "Additional Points",
		MaxScoreSpouse:   600,
		MaxScoreNoSpouse: 600,
		SortOrder:        3,
	}
	nomination := grid.Subcategory{
		ID:               uuid.New(),
		CategoryID:       additional.ID,
		Name:             "Provincial Nomination",
		MaxScoreSpouse:   600,
		MaxScoreNoSpouse: 600,
		SortOrder:        1,
	}

	return &grid.Definition{
		Grid: g,
		Categories: []grid.CategoryDefinition{
			{
				Category: core,
				Subcategories: []grid.SubcategoryDefinition{
					{
						Subcategory: age,
						Fields: []grid.Field{
							// Mutually exclusive age tiers: only the best
							// qualifying tier counts.
							field("age_points", "applicant_age >= 20; applicant_age <= 29", "AND", 100, 110, 1),
							field("age_points", "applicant_age >= 30; applicant_age <= 35", "AND", 50, 55, 2),
						},
					},
					{
						Subcategory: education,
						Fields: []grid.Field{
							// Two groups worth 10 and 15 together exceed the
							// subcategory ceiling of 20.
							field("degree_points", "applicant_education_level == 'bachelors-degree'", "", 10, 12, 1),
							field("eca_points", "has_educational_credential_assessment == true", "", 15, 18, 2),
						},
					},
				},
			},
			{
				Category: transfer,
				Subcategories: []grid.SubcategoryDefinition{
					{
						Subcategory: eduLang,
						Fields: []grid.Field{
							field("edu_lang_points", "primary_clb_score >= 7", "", 30, 30, 1),
						},
					},
					{
						Subcategory: eduWork,
						Fields: []grid.Field{
							field("edu_work_points", "canadian_work_experience_years >= 1", "", 30, 30, 1),
						},
					},
					{
						Subcategory: foreignLang,
						Fields: []grid.Field{
							field("foreign_lang_points", "foreign_work_experience_years >= 2", "", 20, 20, 1),
						},
					},
				},
			},
			{
				Category: additional,
				Subcategories: []grid.SubcategoryDefinition{
					{
						Subcategory: nomination,
						Fields: []grid.Field{
							field("nomination_points", "has_provincial_nomination == true", "", 600, 600, 1),
						},
					},
				},
			},
		},
	}
}

func testProfile(applicationID uuid.UUID) *profile.Profile {
	return &profile.Profile{
		ApplicationID:                      applicationID,
		UserEmail:                          "applicant@example.com",
		ApplicantName:                      "Test Applicant",
		ApplicantAge:                       30,
		ApplicantCitizenship:               "India",
		ApplicantResidence:                 "India",
		ApplicantMaritalStatus:             profile.MaritalStatusMarried,
		ApplicantEducationLevel:            "bachelors-degree",
		HasEducationalCredentialAssessment: true,
		PrimaryLanguageTestType:            "IELTS",
		PrimaryTestSpeakingScore:           8,
		PrimaryTestListeningScore:          8,
		PrimaryTestReadingScore:            7,
		PrimaryTestWritingScore:            7,
		CanadianWorkExperienceYears:        1,
		ForeignWorkExperienceYears:         4,
		SettlementFundsCAD:                 25000,
		CreatedAt:                          time.Now().UTC(),
		LastModifiedAt:                     time.Now().UTC(),
	}
}

func newTestEngine(t *testing.T) (*Engine, evaluation.Store, uuid.UUID) {
	t.Helper()

	grids := gridstorage.NewMemoryStore()
	profiles := profilestorage.NewMemoryStore()
	evaluations := evalstorage.NewMemoryStore()

	ctx := context.Background()
	if _, err := grids.ImportGrid(ctx, testGrid()); err != nil {
		t.Fatalf("import grid: %v", err)
	}

	applicationID := uuid.New()
	if err := profiles.Save(ctx, testProfile(applicationID)); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	engine, err := NewEngine(EngineConfig{
		Grids:       grids,
		Profiles:    profiles,
		Evaluations: evaluations,
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine, evaluations, applicationID
}

func findCategory(t *testing.T, eval *evaluation.Evaluation, name string) *evaluation.Category {
	t.Helper()
	for _, c := range eval.Categories {
		if c.CategoryName == name {
			return c
		}
	}
	t.Fatalf("category %q not found", name)
	return nil
}

func TestEngineEvaluateEndToEnd(t *testing.T) {
	engine, store, applicationID := newTestEngine(t)
	ctx := context.Background()

	eval, err := engine.Evaluate(ctx, applicationID, testGridName)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if eval.Status != evaluation.StatusCompleted {
		t.Errorf("status = %q, want %q", eval.Status, evaluation.StatusCompleted)
	}
	if eval.Version != evaluation.InitialVersion {
		t.Errorf("version = %d, want %d", eval.Version, evaluation.InitialVersion)
	}

	// Age: the 30-35 tier wins its mutually exclusive group with 50 points
	// (married rates). Education: groups 10 + 15 = 25, clamped at the
	// subcategory ceiling of 20. Core total: 70.
	core := findCategory(t, eval, "Core / Human Capital")
	if core.UserScore != 70 {
		t.Errorf("core score = %d, want 70", core.UserScore)
	}

	// Transferability: education combinations 30 + 30 capped at 50, foreign
	// work 20. Category total: 70.
	transfer := findCategory(t, eval, "Skill Transferability")
	if transfer.UserScore != 70 {
		t.Errorf("transferability score = %d, want 70", transfer.UserScore)
	}

	// No provincial nomination.
	additional := findCategory(t, eval, "Additional Points")
	if additional.UserScore != 0 {
		t.Errorf("additional score = %d, want 0", additional.UserScore)
	}

	if want := 70 + 70; eval.TotalScore != want {
		t.Errorf("total = %d, want %d", eval.TotalScore, want)
	}

	// The persisted tree must match what the engine returned.
	stored, err := store.FindByID(ctx, eval.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.TotalScore != eval.TotalScore {
		t.Errorf("persisted total = %d, returned total = %d", stored.TotalScore, eval.TotalScore)
	}
	if len(stored.Categories) != 3 {
		t.Errorf("persisted categories = %d, want 3", len(stored.Categories))
	}
}

func TestEngineMutuallyExclusiveFieldGroup(t *testing.T) {
	engine, _, applicationID := newTestEngine(t)

	eval, err := engine.Evaluate(context.Background(), applicationID, testGridName)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	core := findCategory(t, eval, "Core / Human Capital")
	for _, sc := range core.Subcategories {
		if sc.SubcategoryName != "Age" {
			continue
		}
		// Only the 30-35 tier qualifies for a 30 year old, so the group
		// contributes 50 and counts as one qualifying group.
		if sc.UserScore != 50 {
			t.Errorf("age score = %d, want 50", sc.UserScore)
		}
		if sc.FieldCount != 1 {
			t.Errorf("age field count = %d, want 1", sc.FieldCount)
		}
		if len(sc.Fields) != 2 {
			t.Errorf("age field results = %d, want 2 (both tiers recorded)", len(sc.Fields))
		}
		for _, f := range sc.Fields {
			if f.PointsEarned > 0 && !f.Qualifies {
				t.Errorf("field %q earned points without qualifying", f.FieldName)
			}
		}
		return
	}
	t.Fatal("Age subcategory not found")
}

func TestEngineSubcategoryCeilingClamp(t *testing.T) {
	engine, _, applicationID := newTestEngine(t)

	eval, err := engine.Evaluate(context.Background(), applicationID, testGridName)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	core := findCategory(t, eval, "Core / Human Capital")
	for _, sc := range core.Subcategories {
		if sc.SubcategoryName != "Education" {
			continue
		}
		if sc.UserScore != 20 {
			t.Errorf("education score = %d, want 20 (10 + 15 clamped at ceiling)", sc.UserScore)
		}
		if sc.FieldCount != 2 {
			t.Errorf("education field count = %d, want 2", sc.FieldCount)
		}
		return
	}
	t.Fatal("Education subcategory not found")
}

func TestEngineTransferabilityGroupCapPersisted(t *testing.T) {
	engine, _, applicationID := newTestEngine(t)

	eval, err := engine.Evaluate(context.Background(), applicationID, testGridName)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	transfer := findCategory(t, eval, "Skill Transferability")
	eduSum := 0
	for _, sc := range transfer.Subcategories {
		if strings.Contains(sc.SubcategoryName, "Education") {
			eduSum += sc.UserScore
		}
	}
	if eduSum != maxPointsPerTransferGroup {
		t.Errorf("education group sum = %d, want exactly %d", eduSum, maxPointsPerTransferGroup)
	}

	if !strings.Contains(eval.Notes, "CAPPING APPLIED") {
		t.Error("summary notes should record the capping event")
	}
	if !strings.Contains(eval.Details, "Group 'Education' capped") {
		t.Error("detailed report should record the group cap")
	}
}

// TestEngineTransferabilityCategoryMaximum runs every capping tier in one
// evaluation: the education group overflows its 50-point cap, the foreign
// work group lands exactly on its cap, a trades certificate subcategory
// bypasses the group caps, and the surviving 125 points still exceed the
// category maximum of 100 so the category clamp must fire.
func TestEngineTransferabilityCategoryMaximum(t *testing.T) {
	grids := gridstorage.NewMemoryStore()
	profiles := profilestorage.NewMemoryStore()
	evaluations := evalstorage.NewMemoryStore()
	ctx := context.Background()

	g := grid.Grid{
		ID:            uuid.New(),
		Name:          testGridName,
		Version:       "2026-01",
		MaxTotalScore: 1200,
		EffectiveDate: time.Now().UTC(),
	}
	transfer := grid.Category{
		ID:               uuid.New(),
		GridID:           g.ID,
		Name:             "Skill Transferability",
		MaxScoreSpouse:   100,
		MaxScoreNoSpouse: 100,
		SortOrder:        1,
	}

	transferSub := func(name string, order int) grid.Subcategory {
		return grid.Subcategory{
			ID:               uuid.New(),
			CategoryID:       transfer.ID,
			Name:             name,
			MaxScoreSpouse:   50,
			MaxScoreNoSpouse: 50,
			SortOrder:        order,
		}
	}
	def := &grid.Definition{
		Grid: g,
		Categories: []grid.CategoryDefinition{
			{
				Category: transfer,
				Subcategories: []grid.SubcategoryDefinition{
					{
						Subcategory: transferSub("Education + Language", 1),
						Fields: []grid.Field{
							field("edu_lang_points", "primary_clb_score >= 7", "", 30, 30, 1),
						},
					},
					{
						Subcategory: transferSub("Education + Canadian Work Experience", 2),
						Fields: []grid.Field{
							field("edu_work_points", "canadian_work_experience_years >= 1", "", 30, 30, 1),
						},
					},
					{
						Subcategory: transferSub("Foreign Work Experience + Language", 3),
						Fields: []grid.Field{
							field("foreign_lang_points", "foreign_work_experience_years >= 2", "", 30, 30, 1),
						},
					},
					{
						Subcategory: transferSub("Foreign Work Experience + Canadian Work Experience", 4),
						Fields: []grid.Field{
							field("foreign_work_points", "canadian_work_experience_years >= 1", "", 20, 20, 1),
						},
					},
					{
						Subcategory: transferSub("Trades Certificate + Language", 5),
						Fields: []grid.Field{
							field("trades_lang_points", "primary_clb_score >= 5", "", 25, 25, 1),
						},
					},
				},
			},
		},
	}
	if _, err := grids.ImportGrid(ctx, def); err != nil {
		t.Fatalf("import grid: %v", err)
	}

	applicationID := uuid.New()
	if err := profiles.Save(ctx, testProfile(applicationID)); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	engine, err := NewEngine(EngineConfig{Grids: grids, Profiles: profiles, Evaluations: evaluations})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	eval, err := engine.Evaluate(ctx, applicationID, testGridName)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	transferResult := findCategory(t, eval, "Skill Transferability")
	if transferResult.UserScore != 100 {
		t.Errorf("category score = %d, want 100 (125 after group caps, clamped)", transferResult.UserScore)
	}
	if eval.TotalScore != 100 {
		t.Errorf("total = %d, want 100", eval.TotalScore)
	}

	eduSum, foreignSum, tradesScore := 0, 0, 0
	for _, sc := range transferResult.Subcategories {
		switch {
		case strings.Contains(sc.SubcategoryName, "Trades Certificate"):
			tradesScore = sc.UserScore
		case strings.Contains(sc.SubcategoryName, "Education"):
			eduSum += sc.UserScore
		case strings.Contains(sc.SubcategoryName, "Foreign Work"):
			foreignSum += sc.UserScore
		}
	}
	if eduSum != maxPointsPerTransferGroup {
		t.Errorf("education group sum = %d, want %d (60 reduced to the group cap)", eduSum, maxPointsPerTransferGroup)
	}
	if foreignSum != maxPointsPerTransferGroup {
		t.Errorf("foreign work group sum = %d, want %d (exactly at the cap, untouched)", foreignSum, maxPointsPerTransferGroup)
	}
	if tradesScore != 25 {
		t.Errorf("trades score = %d, want 25 (exempt from group caps)", tradesScore)
	}

	// Both capping tiers must leave an audit trail.
	if !strings.Contains(eval.Details, "Group 'Education' capped") {
		t.Error("detailed report should record the education group cap")
	}
	if !strings.Contains(eval.Details, "CATEGORY CAP APPLIED") {
		t.Error("detailed report should record the category clamp")
	}
	if !strings.Contains(eval.Notes, "(category maximum)") {
		t.Error("summary notes should record the category clamp")
	}
}

func TestEngineRecordsActualValues(t *testing.T) {
	engine, _, applicationID := newTestEngine(t)

	eval, err := engine.Evaluate(context.Background(), applicationID, testGridName)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	core := findCategory(t, eval, "Core / Human Capital")
	for _, sc := range core.Subcategories {
		if sc.SubcategoryName != "Age" {
			continue
		}
		for _, f := range sc.Fields {
			if f.ActualValue != "30; 30" {
				t.Errorf("field %q actual value = %q, want %q", f.FieldName, f.ActualValue, "30; 30")
			}
		}
		return
	}
	t.Fatal("Age subcategory not found")
}

func TestEngineGridNotFound(t *testing.T) {
	engine, _, applicationID := newTestEngine(t)

	_, err := engine.Evaluate(context.Background(), applicationID, "NO_SUCH_GRID")
	var nfe *grid.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected *grid.NotFoundError, got %v", err)
	}
}

func TestEngineProfileNotFound(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.Evaluate(context.Background(), uuid.New(), testGridName)
	var nfe *profile.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected *profile.NotFoundError, got %v", err)
	}
}

func TestEngineContainsExpressionFailure(t *testing.T) {
	grids := gridstorage.NewMemoryStore()
	profiles := profilestorage.NewMemoryStore()
	evaluations := evalstorage.NewMemoryStore()
	ctx := context.Background()

	def := testGrid()
	// Corrupt one expression; the field must not qualify but the run must
	// still complete.
	def.Categories[0].Subcategories[0].Fields[0].Expression = "applicant_age >== 20"
	if _, err := grids.ImportGrid(ctx, def); err != nil {
		t.Fatalf("import grid: %v", err)
	}

	applicationID := uuid.New()
	if err := profiles.Save(ctx, testProfile(applicationID)); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	engine, err := NewEngine(EngineConfig{Grids: grids, Profiles: profiles, Evaluations: evaluations})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	eval, err := engine.Evaluate(ctx, applicationID, testGridName)
	if err != nil {
		t.Fatalf("Evaluate should contain the expression failure: %v", err)
	}
	if eval.Status != evaluation.StatusCompleted {
		t.Errorf("status = %q, want %q", eval.Status, evaluation.StatusCompleted)
	}
	if !strings.Contains(eval.Details, "Error evaluating field") {
		t.Error("detailed report should record the expression failure")
	}
}

func TestEngineNotesIncludeKeyQualifications(t *testing.T) {
	grids := gridstorage.NewMemoryStore()
	profiles := profilestorage.NewMemoryStore()
	evaluations := evalstorage.NewMemoryStore()
	ctx := context.Background()

	if _, err := grids.ImportGrid(ctx, testGrid()); err != nil {
		t.Fatalf("import grid: %v", err)
	}

	applicationID := uuid.New()
	p := testProfile(applicationID)
	p.ApplicantEducationLevel = "masters-degree"
	p.HasProvincialNomination = true
	if err := profiles.Save(ctx, p); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	engine, err := NewEngine(EngineConfig{Grids: grids, Profiles: profiles, Evaluations: evaluations})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	eval, err := engine.Evaluate(ctx, applicationID, testGridName)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	for _, want := range []string{"KEY QUALIFICATIONS:", "Master's degree", "Provincial nomination"} {
		if !strings.Contains(eval.Notes, want) {
			t.Errorf("notes missing %q", want)
		}
	}
	if !strings.Contains(eval.Details, "APPLICANT PROFILE:") {
		t.Error("detailed report missing the applicant profile overview")
	}
}

func TestServiceCreateAndRead(t *testing.T) {
	engine, store, applicationID := newTestEngine(t)
	ctx := context.Background()

	svc, err := NewService(engine, store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	first, err := svc.CreateEvaluation(ctx, applicationID, testGridName)
	if err != nil {
		t.Fatalf("CreateEvaluation: %v", err)
	}
	second, err := svc.CreateEvaluation(ctx, applicationID, testGridName)
	if err != nil {
		t.Fatalf("CreateEvaluation: %v", err)
	}

	all, err := svc.EvaluationsByApplication(ctx, applicationID)
	if err != nil {
		t.Fatalf("EvaluationsByApplication: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("evaluations = %d, want 2", len(all))
	}

	latest, err := svc.LatestEvaluation(ctx, applicationID)
	if err != nil {
		t.Fatalf("LatestEvaluation: %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("latest = %s, want %s", latest.ID, second.ID)
	}

	byID, err := svc.EvaluationByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("EvaluationByID: %v", err)
	}
	if byID.TotalScore != first.TotalScore {
		t.Errorf("stored total = %d, want %d", byID.TotalScore, first.TotalScore)
	}
}
