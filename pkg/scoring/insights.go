package scoring

import (
	"fmt"
	"strings"
	"time"

	"immimate-hq/polaris/pkg/scoring/expr"
)

// maxSummaryFactors limits how many scoring factors the short summary lists.
const maxSummaryFactors = 3

// insights accumulates notable events during one evaluation run and renders
// them into the summary notes and the detailed report. It is passed explicitly
// down the category walk; there is no global state and no locking, one
// accumulator belongs to one run.
type insights struct {
	shortNotes    strings.Builder
	detailedNotes strings.Builder

	categoryOrder      []string
	categoryHighlights map[string][]string

	keyQualifications  []string
	cappingEvents      []string
	significantFactors []string

	now func() time.Time
}

func newInsights() *insights {
	return &insights{
		categoryHighlights: make(map[string][]string),
		now:                time.Now,
	}
}

// detailf appends one formatted line to the detailed technical notes.
func (in *insights) detailf(format string, args ...any) {
	fmt.Fprintf(&in.detailedNotes, format, args...)
}

// addCategoryHighlight records a per-category highlight. Highlights that name
// a point contribution also count as significant factors.
func (in *insights) addCategoryHighlight(category, highlight string) {
	if _, seen := in.categoryHighlights[category]; !seen {
		in.categoryOrder = append(in.categoryOrder, category)
	}
	in.categoryHighlights[category] = append(in.categoryHighlights[category], highlight)

	if strings.Contains(highlight, "contributed") && strings.Contains(highlight, "points") {
		in.significantFactors = append(in.significantFactors, fmt.Sprintf("[%s] %s", category, highlight))
	}
}

func (in *insights) addQualification(qualification string) {
	in.keyQualifications = append(in.keyQualifications, qualification)
}

func (in *insights) addCappingEvent(event string) {
	in.cappingEvents = append(in.cappingEvents, event)

	if in.shortNotes.Len() > 0 {
		in.shortNotes.WriteString("\n")
	}
	in.shortNotes.WriteString("[CAPPING] ")
	in.shortNotes.WriteString(event)
}

// summaryNotes renders the concise summary stored in the evaluation's notes.
func (in *insights) summaryNotes() string {
	var summary strings.Builder

	if len(in.keyQualifications) > 0 {
		summary.WriteString("KEY QUALIFICATIONS:\n")
		for _, qualification := range in.keyQualifications {
			fmt.Fprintf(&summary, "- %s\n", qualification)
		}
		summary.WriteString("\n")
	}

	if len(in.cappingEvents) > 0 {
		summary.WriteString("CAPPING APPLIED:\n")
		for _, event := range in.cappingEvents {
			fmt.Fprintf(&summary, "- %s\n", event)
		}
		summary.WriteString("\n")
	}

	if len(in.significantFactors) > 0 {
		summary.WriteString("TOP SCORING FACTORS:\n")
		for i, factor := range in.significantFactors {
			if i >= maxSummaryFactors {
				break
			}
			fmt.Fprintf(&summary, "- %s\n", factor)
		}
	}

	if in.shortNotes.Len() > 0 {
		summary.WriteString("\nADDITIONAL NOTES:\n")
		summary.WriteString(in.shortNotes.String())
	}

	return summary.String()
}

// detailedReport renders the full technical report stored in the evaluation's
// details. Categories appear in processing order.
func (in *insights) detailedReport() string {
	var report strings.Builder

	report.WriteString("=======================================\n")
	report.WriteString("DETAILED EVALUATION REPORT\n")
	report.WriteString("=======================================\n\n")

	fmt.Fprintf(&report, "Generated: %s\n\n", in.now().UTC().Format(time.RFC3339))

	report.WriteString("CATEGORY BREAKDOWN:\n")
	report.WriteString("-------------------\n")
	for _, category := range in.categoryOrder {
		fmt.Fprintf(&report, "%s:\n", category)
		for _, highlight := range in.categoryHighlights[category] {
			fmt.Fprintf(&report, "- %s\n", highlight)
		}
		report.WriteString("\n")
	}

	if len(in.keyQualifications) > 0 {
		report.WriteString("KEY QUALIFICATIONS:\n")
		report.WriteString("------------------\n")
		for _, qualification := range in.keyQualifications {
			fmt.Fprintf(&report, "- %s\n", qualification)
		}
		report.WriteString("\n")
	}

	if len(in.cappingEvents) > 0 {
		report.WriteString("CAPPING EVENTS:\n")
		report.WriteString("--------------\n")
		for _, event := range in.cappingEvents {
			fmt.Fprintf(&report, "- %s\n", event)
		}
		report.WriteString("\n")
	}

	if len(in.significantFactors) > 0 {
		report.WriteString("SIGNIFICANT FACTORS:\n")
		report.WriteString("-------------------\n")
		for _, factor := range in.significantFactors {
			fmt.Fprintf(&report, "- %s\n", factor)
		}
		report.WriteString("\n")
	}

	if in.detailedNotes.Len() > 0 {
		report.WriteString("DETAILED TECHNICAL NOTES:\n")
		report.WriteString("------------------------\n")
		report.WriteString(in.detailedNotes.String())
	}

	return report.String()
}

// recordProfileInsights writes the applicant overview into the report and
// derives the key qualifications from the variable map.
func (in *insights) recordProfileInsights(vars expr.Variables, hasSpouse bool) {
	var overview strings.Builder
	overview.WriteString("Profile Overview: ")

	if age, ok := intVar(vars, "applicant_age"); ok {
		fmt.Fprintf(&overview, "Age %d, ", age)
	}
	if education, ok := vars["applicant_education_level"].(string); ok && education != "" {
		fmt.Fprintf(&overview, "%s, ", capitalizeWords(strings.ReplaceAll(education, "-", " ")))
	}
	if _, ok := vars["primary_language_test_type"]; ok {
		if clb, ok := intVar(vars, "primary_clb_score"); ok {
			fmt.Fprintf(&overview, "Language: CLB %d, ", clb)
		}
	}
	if years, ok := intVar(vars, "canadian_work_experience_years"); ok && years > 0 {
		fmt.Fprintf(&overview, "%d %s Canadian experience, ", years, pluralYears(years))
	}
	if years, ok := intVar(vars, "foreign_work_experience_years"); ok && years > 0 {
		fmt.Fprintf(&overview, "%d %s foreign experience, ", years, pluralYears(years))
	}
	if hasSpouse {
		overview.WriteString("With spouse")
	} else {
		overview.WriteString("Without spouse")
	}

	in.detailedNotes.WriteString("APPLICANT PROFILE:\n")
	in.detailedNotes.WriteString("-----------------\n")
	in.detailedNotes.WriteString(overview.String())
	in.detailedNotes.WriteString("\n\n")

	in.addKeyQualifications(vars)
}

// addKeyQualifications extracts standout attributes worth surfacing in the
// summary: advanced degrees, strong language results, deep Canadian
// experience, a provincial nomination, and job offers.
func (in *insights) addKeyQualifications(vars expr.Variables) {
	if education, ok := vars["applicant_education_level"].(string); ok {
		lowered := strings.ToLower(education)
		switch {
		case strings.Contains(lowered, "doctoral") || strings.Contains(lowered, "phd"):
			in.addQualification("Doctoral degree (highest education)")
		case strings.Contains(lowered, "master"):
			in.addQualification("Master's degree")
		}
	}

	if clb, ok := intVar(vars, "primary_clb_score"); ok && clb >= 9 {
		in.addQualification(fmt.Sprintf("High language proficiency (CLB %d)", clb))
	}

	if years, ok := intVar(vars, "canadian_work_experience_years"); ok && years >= 3 {
		in.addQualification(fmt.Sprintf("Significant Canadian work experience (%d years)", years))
	}

	if nominated, ok := vars["has_provincial_nomination"].(bool); ok && nominated {
		in.addQualification("Provincial nomination")
	}

	if hasOffer, ok := vars["has_job_offer"].(bool); ok && hasOffer {
		if lmia, ok := vars["is_job_offer_lmia_approved"].(bool); ok && lmia {
			in.addQualification("LMIA-approved job offer")
		} else {
			in.addQualification("Job offer")
		}
	}
}

// intVar reads a numeric variable tolerating both int and float64 values.
func intVar(vars expr.Variables, name string) (int, bool) {
	switch v := vars[name].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func pluralYears(n int) string {
	if n == 1 {
		return "year"
	}
	return "years"
}

// capitalizeWords title-cases each whitespace-separated word.
func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
