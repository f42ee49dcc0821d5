package profile

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func fullProfile() *Profile {
	return &Profile{
		ApplicationID:          uuid.New(),
		UserEmail:              "applicant@example.com",
		ApplicantName:          "Test Applicant",
		ApplicantAge:           31,
		ApplicantCitizenship:   "IN",
		ApplicantResidence:     "IN",
		ApplicantMaritalStatus: "married",

		ApplicantEducationLevel:            "masters-degree",
		EducationCompletedInCanada:         boolp(false),
		HasEducationalCredentialAssessment: true,

		PrimaryLanguageTestType:   "IELTS",
		PrimaryTestSpeakingScore:  9,
		PrimaryTestListeningScore: 8,
		PrimaryTestReadingScore:   7,
		PrimaryTestWritingScore:   8,

		TookSecondaryLanguageTest:   true,
		SecondaryTestType:           "TEF",
		SecondaryTestSpeakingScore:  intp(6),
		SecondaryTestListeningScore: intp(5),
		SecondaryTestReadingScore:   intp(6),
		SecondaryTestWritingScore:   intp(7),

		CanadianWorkExperienceYears: 2,
		ForeignWorkExperienceYears:  5,
		WorkingInCanada:             true,

		HasProvincialNomination: false,
		HasCanadianRelatives:    true,

		SettlementFundsCAD: 25000,

		PartnerEducationLevel:     "bachelors-degree",
		PartnerLanguageTestType:   "IELTS",
		PartnerTestSpeakingScore:  intp(7),
		PartnerTestListeningScore: intp(6),
		PartnerTestReadingScore:   intp(8),
		PartnerTestWritingScore:   intp(7),

		HasJobOffer:            true,
		IsJobOfferLmiaApproved: boolp(true),
		JobOfferWageCAD:        intp(85000),
	}
}

// Every scalar Profile attribute must be bound exactly once; only the two
// snapshot timestamps are excluded from the variable map.
func TestVariableMappingCompleteness(t *testing.T) {
	excluded := map[string]bool{"CreatedAt": true, "LastModifiedAt": true}

	typ := reflect.TypeOf(Profile{})
	want := 0
	for i := 0; i < typ.NumField(); i++ {
		if !excluded[typ.Field(i).Name] {
			want++
		}
	}

	if len(variableBindings) != want {
		t.Errorf("variableBindings has %d entries, Profile has %d mapped attributes", len(variableBindings), want)
	}

	seen := make(map[string]bool, len(variableBindings))
	for _, b := range variableBindings {
		if seen[b.name] {
			t.Errorf("duplicate variable binding %q", b.name)
		}
		seen[b.name] = true
	}
}

func TestVariablesBasicMapping(t *testing.T) {
	p := fullProfile()
	vars := Variables(p)

	if got := vars["applicant_age"]; got != 31 {
		t.Errorf("applicant_age = %v, want 31", got)
	}
	if got := vars["applicant_education_level"]; got != "masters-degree" {
		t.Errorf("applicant_education_level = %v, want masters-degree", got)
	}
	if got := vars["has_educational_credential_assessment"]; got != true {
		t.Errorf("has_educational_credential_assessment = %v, want true", got)
	}
	if got := vars["job_offer_wage_cad"]; got != 85000 {
		t.Errorf("job_offer_wage_cad = %v, want 85000", got)
	}

	// Unset optionals stay out of the map entirely.
	if _, ok := vars["noc_code_canadian"]; ok {
		t.Error("noc_code_canadian should be absent for an unset optional")
	}
	if _, ok := vars["trades_certification"]; ok {
		t.Error("trades_certification should be absent for an unset optional")
	}
	if _, ok := vars["province_of_interest"]; ok {
		t.Error("province_of_interest should be absent for an empty string")
	}
}

func TestVariablesPrimaryCLBMinimum(t *testing.T) {
	p := fullProfile()
	vars := Variables(p)

	// 9/8/7/8 -> weakest skill wins.
	if got := vars["primary_clb_score"]; got != 7 {
		t.Errorf("primary_clb_score = %v, want 7", got)
	}
	if got := vars["primary_clb_speaking"]; got != 9 {
		t.Errorf("primary_clb_speaking = %v, want 9", got)
	}
}

func TestVariablesSecondaryCLBPresenceRules(t *testing.T) {
	t.Run("complete secondary test", func(t *testing.T) {
		vars := Variables(fullProfile())
		if got := vars["secondary_clb_score"]; got != 5 {
			t.Errorf("secondary_clb_score = %v, want 5", got)
		}
	})

	t.Run("not taken", func(t *testing.T) {
		p := fullProfile()
		p.TookSecondaryLanguageTest = false
		vars := Variables(p)
		if _, ok := vars["secondary_clb_score"]; ok {
			t.Error("secondary_clb_score should be absent when no secondary test was taken")
		}
	})

	t.Run("test type not recorded", func(t *testing.T) {
		// Complete sub-scores qualify even when the test type field was
		// left blank.
		p := fullProfile()
		p.SecondaryTestType = ""
		vars := Variables(p)
		if got := vars["secondary_clb_score"]; got != 5 {
			t.Errorf("secondary_clb_score = %v, want 5", got)
		}
	})

	t.Run("missing sub-score", func(t *testing.T) {
		p := fullProfile()
		p.SecondaryTestWritingScore = nil
		vars := Variables(p)
		if _, ok := vars["secondary_clb_score"]; ok {
			t.Error("secondary_clb_score should be absent with an incomplete score set")
		}
		// The populated per-skill aliases are still exposed.
		if got := vars["secondary_clb_reading"]; got != 6 {
			t.Errorf("secondary_clb_reading = %v, want 6", got)
		}
	})
}

func TestVariablesPartnerCLBRequiresSpouse(t *testing.T) {
	p := fullProfile()
	vars := Variables(p)
	if got := vars["partner_clb_score"]; got != 6 {
		t.Errorf("partner_clb_score = %v, want 6", got)
	}

	// Same partner data, single applicant: partner factors don't apply.
	p.ApplicantMaritalStatus = "single"
	vars = Variables(p)
	if _, ok := vars["partner_clb_score"]; ok {
		t.Error("partner_clb_score should be absent without a spouse")
	}
	if _, ok := vars["partner_clb_speaking"]; ok {
		t.Error("partner_clb_speaking should be absent without a spouse")
	}
}

func TestHasSpouse(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"MARRIED", true},
		{"married", true},
		{"  Common_Law ", true},
		{"SINGLE", false},
		{"divorced", false},
		{"", false},
	}

	for _, tt := range tests {
		p := &Profile{ApplicantMaritalStatus: tt.status}
		if got := p.HasSpouse(); got != tt.want {
			t.Errorf("HasSpouse(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
