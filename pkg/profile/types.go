package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Marital statuses that imply a spouse or common-law partner for scoring.
const (
	MaritalStatusMarried   = "MARRIED"
	MaritalStatusCommonLaw = "COMMON_LAW"
)

// Profile is one applicant's immigration profile snapshot. Optional fields
// (not collected for every applicant) are pointers; absent values are omitted
// from the variable map.
type Profile struct {
	ApplicationID uuid.UUID `json:"application_id"`
	UserEmail     string    `json:"user_email"`

	// Applicant basics
	ApplicantName          string `json:"applicant_name"`
	ApplicantAge           int    `json:"applicant_age"`
	ApplicantCitizenship   string `json:"applicant_citizenship"`
	ApplicantResidence     string `json:"applicant_residence"`
	ApplicantMaritalStatus string `json:"applicant_marital_status"`

	// Education
	ApplicantEducationLevel            string `json:"applicant_education_level"`
	EducationCompletedInCanada         *bool  `json:"education_completed_in_canada,omitempty"`
	CanadianEducationLevel             string `json:"canadian_education_level,omitempty"`
	HasEducationalCredentialAssessment bool   `json:"has_educational_credential_assessment"`

	// Primary language test (scores arrive already normalized to CLB)
	PrimaryLanguageTestType   string `json:"primary_language_test_type"`
	PrimaryTestSpeakingScore  int    `json:"primary_test_speaking_score"`
	PrimaryTestListeningScore int    `json:"primary_test_listening_score"`
	PrimaryTestReadingScore   int    `json:"primary_test_reading_score"`
	PrimaryTestWritingScore   int    `json:"primary_test_writing_score"`

	// Secondary language test
	TookSecondaryLanguageTest   bool   `json:"took_secondary_language_test"`
	SecondaryTestType           string `json:"secondary_test_type,omitempty"`
	SecondaryTestSpeakingScore  *int   `json:"secondary_test_speaking_score,omitempty"`
	SecondaryTestListeningScore *int   `json:"secondary_test_listening_score,omitempty"`
	SecondaryTestReadingScore   *int   `json:"secondary_test_reading_score,omitempty"`
	SecondaryTestWritingScore   *int   `json:"secondary_test_writing_score,omitempty"`

	// Work experience
	CanadianWorkExperienceYears    int  `json:"canadian_work_experience_years"`
	NocCodeCanadian                *int `json:"noc_code_canadian,omitempty"`
	CanadianOccupationTeerCategory *int `json:"canadian_occupation_teer_category,omitempty"`
	ForeignWorkExperienceYears     int  `json:"foreign_work_experience_years"`
	NocCodeForeign                 *int `json:"noc_code_foreign,omitempty"`
	ForeignOccupationTeerCategory  *int `json:"foreign_occupation_teer_category,omitempty"`
	WorkingInCanada                bool `json:"working_in_canada"`

	// Provincial / family factors
	HasProvincialNomination          bool   `json:"has_provincial_nomination"`
	ProvinceOfInterest               string `json:"province_of_interest,omitempty"`
	HasCanadianRelatives             bool   `json:"has_canadian_relatives"`
	RelationshipWithCanadianRelative string `json:"relationship_with_canadian_relative,omitempty"`
	ReceivedInvitationToApply        bool   `json:"received_invitation_to_apply"`

	// Settlement
	SettlementFundsCAD           int    `json:"settlement_funds_cad"`
	PreferredCity                string `json:"preferred_city,omitempty"`
	PreferredDestinationProvince string `json:"preferred_destination_province,omitempty"`

	// Partner factors
	PartnerEducationLevel              string `json:"partner_education_level,omitempty"`
	PartnerLanguageTestType            string `json:"partner_language_test_type,omitempty"`
	PartnerTestSpeakingScore           *int   `json:"partner_test_speaking_score,omitempty"`
	PartnerTestListeningScore          *int   `json:"partner_test_listening_score,omitempty"`
	PartnerTestReadingScore            *int   `json:"partner_test_reading_score,omitempty"`
	PartnerTestWritingScore            *int   `json:"partner_test_writing_score,omitempty"`
	PartnerCanadianWorkExperienceYears *int   `json:"partner_canadian_work_experience_years,omitempty"`
	SpouseOccupationTeerCategory       *int   `json:"spouse_occupation_teer_category,omitempty"`

	// Job offer
	HasJobOffer                    bool  `json:"has_job_offer"`
	IsJobOfferLmiaApproved         *bool `json:"is_job_offer_lmia_approved,omitempty"`
	JobOfferWageCAD                *int  `json:"job_offer_wage_cad,omitempty"`
	JobOfferNocCode                *int  `json:"job_offer_noc_code,omitempty"`
	JobOfferOccupationTeerCategory *int  `json:"job_offer_occupation_teer_category,omitempty"`

	// Trades
	TradesCertification *bool `json:"trades_certification,omitempty"`

	CreatedAt      time.Time `json:"created_at"`
	LastModifiedAt time.Time `json:"last_modified_at"`
}

// HasSpouse reports whether the applicant's marital status implies a spouse
// or common-law partner. The grid ceilings and point tables differ on it.
func (p *Profile) HasSpouse() bool {
	status := strings.ToUpper(strings.TrimSpace(p.ApplicantMaritalStatus))
	return status == MaritalStatusMarried || status == MaritalStatusCommonLaw
}
