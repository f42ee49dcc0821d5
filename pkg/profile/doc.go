// Package profile defines the applicant immigration profile and the variable
// extraction that feeds the scoring engine.
//
// A Profile is a flat snapshot of everything an applicant declared: identity,
// age, education, language test results, work experience, partner data, job
// offer, and so on. The engine never reads profile fields directly; it
// consumes the variable map produced by Variables, which exposes every scalar
// attribute under a snake_case name plus a handful of derived values (the
// minimum-of-four CLB scores).
//
// The field-to-variable mapping is declared statically in variables.go rather
// than derived by reflection, so adding a profile field without wiring its
// variable is caught by TestVariableMappingCompleteness.
package profile
