package profile

// VariableMap is the flat variable bag consumed by the expression evaluator.
// Values are int, float64, bool, or string; absent optionals are simply not
// present in the map.
type VariableMap map[string]any

// variableBinding maps one scalar profile attribute to its variable name.
// The resolve func returns (value, present); optional attributes report
// present=false when unset and are omitted from the map.
type variableBinding struct {
	name    string
	resolve func(p *Profile) (any, bool)
}

func value(v any) (any, bool) { return v, true }

func optionalInt(v *int) (any, bool) {
	if v == nil {
		return nil, false
	}
	return *v, true
}

func optionalBool(v *bool) (any, bool) {
	if v == nil {
		return nil, false
	}
	return *v, true
}

func optionalString(v string) (any, bool) {
	if v == "" {
		return nil, false
	}
	return v, true
}

// variableBindings is the complete, statically declared mapping from profile
// attributes to variable names. Every scalar attribute of Profile must appear
// here exactly once; TestVariableMappingCompleteness enforces it.
var variableBindings = []variableBinding{
	{"application_id", func(p *Profile) (any, bool) { return p.ApplicationID.String(), true }},
	{"user_email", func(p *Profile) (any, bool) { return value(p.UserEmail) }},
	{"applicant_name", func(p *Profile) (any, bool) { return value(p.ApplicantName) }},
	{"applicant_age", func(p *Profile) (any, bool) { return value(p.ApplicantAge) }},
	{"applicant_citizenship", func(p *Profile) (any, bool) { return value(p.ApplicantCitizenship) }},
	{"applicant_residence", func(p *Profile) (any, bool) { return value(p.ApplicantResidence) }},
	{"applicant_marital_status", func(p *Profile) (any, bool) { return value(p.ApplicantMaritalStatus) }},
	{"applicant_education_level", func(p *Profile) (any, bool) { return value(p.ApplicantEducationLevel) }},
	{"education_completed_in_canada", func(p *Profile) (any, bool) { return optionalBool(p.EducationCompletedInCanada) }},
	{"canadian_education_level", func(p *Profile) (any, bool) { return optionalString(p.CanadianEducationLevel) }},
	{"has_educational_credential_assessment", func(p *Profile) (any, bool) { return value(p.HasEducationalCredentialAssessment) }},
	{"primary_language_test_type", func(p *Profile) (any, bool) { return value(p.PrimaryLanguageTestType) }},
	{"primary_test_speaking_score", func(p *Profile) (any, bool) { return value(p.PrimaryTestSpeakingScore) }},
	{"primary_test_listening_score", func(p *Profile) (any, bool) { return value(p.PrimaryTestListeningScore) }},
	{"primary_test_reading_score", func(p *Profile) (any, bool) { return value(p.PrimaryTestReadingScore) }},
	{"primary_test_writing_score", func(p *Profile) (any, bool) { return value(p.PrimaryTestWritingScore) }},
	{"took_secondary_language_test", func(p *Profile) (any, bool) { return value(p.TookSecondaryLanguageTest) }},
	{"secondary_test_type", func(p *Profile) (any, bool) { return optionalString(p.SecondaryTestType) }},
	{"secondary_test_speaking_score", func(p *Profile) (any, bool) { return optionalInt(p.SecondaryTestSpeakingScore) }},
	{"secondary_test_listening_score", func(p *Profile) (any, bool) { return optionalInt(p.SecondaryTestListeningScore) }},
	{"secondary_test_reading_score", func(p *Profile) (any, bool) { return optionalInt(p.SecondaryTestReadingScore) }},
	{"secondary_test_writing_score", func(p *Profile) (any, bool) { return optionalInt(p.SecondaryTestWritingScore) }},
	{"canadian_work_experience_years", func(p *Profile) (any, bool) { return value(p.CanadianWorkExperienceYears) }},
	{"noc_code_canadian", func(p *Profile) (any, bool) { return optionalInt(p.NocCodeCanadian) }},
	{"canadian_occupation_teer_category", func(p *Profile) (any, bool) { return optionalInt(p.CanadianOccupationTeerCategory) }},
	{"foreign_work_experience_years", func(p *Profile) (any, bool) { return value(p.ForeignWorkExperienceYears) }},
	{"noc_code_foreign", func(p *Profile) (any, bool) { return optionalInt(p.NocCodeForeign) }},
	{"foreign_occupation_teer_category", func(p *Profile) (any, bool) { return optionalInt(p.ForeignOccupationTeerCategory) }},
	{"working_in_canada", func(p *Profile) (any, bool) { return value(p.WorkingInCanada) }},
	{"has_provincial_nomination", func(p *Profile) (any, bool) { return value(p.HasProvincialNomination) }},
	{"province_of_interest", func(p *Profile) (any, bool) { return optionalString(p.ProvinceOfInterest) }},
	{"has_canadian_relatives", func(p *Profile) (any, bool) { return value(p.HasCanadianRelatives) }},
	{"relationship_with_canadian_relative", func(p *Profile) (any, bool) { return optionalString(p.RelationshipWithCanadianRelative) }},
	{"received_invitation_to_apply", func(p *Profile) (any, bool) { return value(p.ReceivedInvitationToApply) }},
	{"settlement_funds_cad", func(p *Profile) (any, bool) { return value(p.SettlementFundsCAD) }},
	{"preferred_city", func(p *Profile) (any, bool) { return optionalString(p.PreferredCity) }},
	{"preferred_destination_province", func(p *Profile) (any, bool) { return optionalString(p.PreferredDestinationProvince) }},
	{"partner_education_level", func(p *Profile) (any, bool) { return optionalString(p.PartnerEducationLevel) }},
	{"partner_language_test_type", func(p *Profile) (any, bool) { return optionalString(p.PartnerLanguageTestType) }},
	{"partner_test_speaking_score", func(p *Profile) (any, bool) { return optionalInt(p.PartnerTestSpeakingScore) }},
	{"partner_test_listening_score", func(p *Profile) (any, bool) { return optionalInt(p.PartnerTestListeningScore) }},
	{"partner_test_reading_score", func(p *Profile) (any, bool) { return optionalInt(p.PartnerTestReadingScore) }},
	{"partner_test_writing_score", func(p *Profile) (any, bool) { return optionalInt(p.PartnerTestWritingScore) }},
	{"partner_canadian_work_experience_years", func(p *Profile) (any, bool) { return optionalInt(p.PartnerCanadianWorkExperienceYears) }},
	{"spouse_occupation_teer_category", func(p *Profile) (any, bool) { return optionalInt(p.SpouseOccupationTeerCategory) }},
	{"has_job_offer", func(p *Profile) (any, bool) { return value(p.HasJobOffer) }},
	{"is_job_offer_lmia_approved", func(p *Profile) (any, bool) { return optionalBool(p.IsJobOfferLmiaApproved) }},
	{"job_offer_wage_cad", func(p *Profile) (any, bool) { return optionalInt(p.JobOfferWageCAD) }},
	{"job_offer_noc_code", func(p *Profile) (any, bool) { return optionalInt(p.JobOfferNocCode) }},
	{"job_offer_occupation_teer_category", func(p *Profile) (any, bool) { return optionalInt(p.JobOfferOccupationTeerCategory) }},
	{"trades_certification", func(p *Profile) (any, bool) { return optionalBool(p.TradesCertification) }},
}

// Variables converts a profile snapshot into the flat variable bag consumed
// by the expression evaluator. It is a pure function of the profile: no side
// effects, no I/O.
//
// Beyond the declared attribute bindings it synthesizes:
//
//   - primary_clb_score: minimum of the four primary test sub-scores
//   - secondary_clb_score: minimum of the four secondary sub-scores, present
//     only when a secondary test was taken and all four are populated
//   - partner_clb_score: analogous minimum over the partner's sub-scores,
//     present only when the applicant has a spouse and partner test data exists
//
// plus the per-skill primary_clb_* / secondary_clb_* / partner_clb_* aliases
// the grid expressions reference directly.
func Variables(p *Profile) VariableMap {
	vars := make(VariableMap, len(variableBindings)+16)

	for _, b := range variableBindings {
		if v, ok := b.resolve(p); ok {
			vars[b.name] = v
		}
	}

	// Primary test scores are already CLB levels; alias them and derive the
	// overall CLB as the weakest skill.
	vars["primary_clb_speaking"] = p.PrimaryTestSpeakingScore
	vars["primary_clb_listening"] = p.PrimaryTestListeningScore
	vars["primary_clb_reading"] = p.PrimaryTestReadingScore
	vars["primary_clb_writing"] = p.PrimaryTestWritingScore
	vars["primary_clb_score"] = minOf(
		p.PrimaryTestSpeakingScore, p.PrimaryTestListeningScore,
		p.PrimaryTestReadingScore, p.PrimaryTestWritingScore,
	)

	if p.TookSecondaryLanguageTest {
		if p.SecondaryTestSpeakingScore != nil {
			vars["secondary_clb_speaking"] = *p.SecondaryTestSpeakingScore
		}
		if p.SecondaryTestListeningScore != nil {
			vars["secondary_clb_listening"] = *p.SecondaryTestListeningScore
		}
		if p.SecondaryTestReadingScore != nil {
			vars["secondary_clb_reading"] = *p.SecondaryTestReadingScore
		}
		if p.SecondaryTestWritingScore != nil {
			vars["secondary_clb_writing"] = *p.SecondaryTestWritingScore
		}
		if p.SecondaryTestSpeakingScore != nil && p.SecondaryTestListeningScore != nil &&
			p.SecondaryTestReadingScore != nil && p.SecondaryTestWritingScore != nil {
			vars["secondary_clb_score"] = minOf(
				*p.SecondaryTestSpeakingScore, *p.SecondaryTestListeningScore,
				*p.SecondaryTestReadingScore, *p.SecondaryTestWritingScore,
			)
		}
	}

	if p.HasSpouse() && p.PartnerLanguageTestType != "" {
		if p.PartnerTestSpeakingScore != nil {
			vars["partner_clb_speaking"] = *p.PartnerTestSpeakingScore
		}
		if p.PartnerTestListeningScore != nil {
			vars["partner_clb_listening"] = *p.PartnerTestListeningScore
		}
		if p.PartnerTestReadingScore != nil {
			vars["partner_clb_reading"] = *p.PartnerTestReadingScore
		}
		if p.PartnerTestWritingScore != nil {
			vars["partner_clb_writing"] = *p.PartnerTestWritingScore
		}
		if p.PartnerTestSpeakingScore != nil && p.PartnerTestListeningScore != nil &&
			p.PartnerTestReadingScore != nil && p.PartnerTestWritingScore != nil {
			vars["partner_clb_score"] = minOf(
				*p.PartnerTestSpeakingScore, *p.PartnerTestListeningScore,
				*p.PartnerTestReadingScore, *p.PartnerTestWritingScore,
			)
		}
	}

	return vars
}

func minOf(first int, rest ...int) int {
	m := first
	for _, v := range rest {
		if v < m {
			m = v
		}
	}
	return m
}
