package expr

import (
	"testing"
)

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name         string
		expression   string
		alternatives int
		chainLens    []int
	}{
		{
			name:         "single comparison",
			expression:   "applicant_age >= 20",
			alternatives: 1,
			chainLens:    []int{1},
		},
		{
			name:         "semicolon chain",
			expression:   "applicant_age >= 20; applicant_age <= 29",
			alternatives: 1,
			chainLens:    []int{2},
		},
		{
			name:         "or alternatives",
			expression:   "education_level == PHD OR education_level == MASTERS",
			alternatives: 2,
			chainLens:    []int{1, 1},
		},
		{
			name:         "or of chains",
			expression:   "a == 1; b == 2 OR c == 3",
			alternatives: 2,
			chainLens:    []int{2, 1},
		},
		{
			name:         "bare variable",
			expression:   "has_job_offer",
			alternatives: 1,
			chainLens:    []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.expression)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.expression, err)
			}
			if len(parsed.Alternatives) != tt.alternatives {
				t.Fatalf("expected %d alternatives, got %d", tt.alternatives, len(parsed.Alternatives))
			}
			for i, want := range tt.chainLens {
				if got := len(parsed.Alternatives[i].Clauses); got != want {
					t.Errorf("alternative %d: expected %d clauses, got %d", i, want, got)
				}
			}
		})
	}
}

func TestParseClauseKinds(t *testing.T) {
	parsed, err := Parse("province IN (ON, BC, 'QC'); applicant_age > 18")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	clauses := parsed.Alternatives[0].Clauses
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(clauses))
	}

	membership, ok := clauses[0].(*Membership)
	if !ok {
		t.Fatalf("expected *Membership, got %T", clauses[0])
	}
	if membership.Negated {
		t.Error("IN clause must not be negated")
	}
	if len(membership.Items) != 3 {
		t.Fatalf("expected 3 list items, got %d", len(membership.Items))
	}
	if membership.Items[0].Kind != OperandVariable || membership.Items[0].Name != "ON" {
		t.Errorf("unexpected first item: %+v", membership.Items[0])
	}
	if membership.Items[2].Kind != OperandString || membership.Items[2].Text != "QC" {
		t.Errorf("unexpected quoted item: %+v", membership.Items[2])
	}

	comparison, ok := clauses[1].(*Comparison)
	if !ok {
		t.Fatalf("expected *Comparison, got %T", clauses[1])
	}
	if comparison.Op != ">" {
		t.Errorf("expected operator >, got %q", comparison.Op)
	}
	if comparison.Right.Kind != OperandNumber || comparison.Right.Number != 18 {
		t.Errorf("unexpected right operand: %+v", comparison.Right)
	}
}

func TestParseNotIn(t *testing.T) {
	parsed, err := Parse("status NOT IN (WITHDRAWN, EXPIRED)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	membership, ok := parsed.Alternatives[0].Clauses[0].(*Membership)
	if !ok {
		t.Fatalf("expected *Membership, got %T", parsed.Alternatives[0].Clauses[0])
	}
	if !membership.Negated {
		t.Error("NOT IN clause must be negated")
	}
}

func TestParseNotWithoutInIsIdentifier(t *testing.T) {
	parsed, err := Parse("NOT == 5")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	comparison, ok := parsed.Alternatives[0].Clauses[0].(*Comparison)
	if !ok {
		t.Fatalf("expected *Comparison, got %T", parsed.Alternatives[0].Clauses[0])
	}
	if comparison.Left.Name != "NOT" {
		t.Errorf("expected identifier NOT, got %q", comparison.Left.Name)
	}
}

func TestParseNegativeNumber(t *testing.T) {
	parsed, err := Parse("balance > -10.5")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	comparison := parsed.Alternatives[0].Clauses[0].(*Comparison)
	if comparison.Right.Number != -10.5 {
		t.Errorf("expected -10.5, got %v", comparison.Right.Number)
	}
}

func TestParseHyphenatedWords(t *testing.T) {
	parsed, err := Parse("applicant_education_level IN (bachelors-degree, masters-degree)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	membership, ok := parsed.Alternatives[0].Clauses[0].(*Membership)
	if !ok {
		t.Fatalf("expected *Membership, got %T", parsed.Alternatives[0].Clauses[0])
	}
	if len(membership.Items) != 2 {
		t.Fatalf("expected 2 list items, got %d", len(membership.Items))
	}
	if membership.Items[0].Kind != OperandVariable || membership.Items[0].Name != "bachelors-degree" {
		t.Errorf("unexpected first item: %+v", membership.Items[0])
	}

	parsed, err = Parse("canadian_education_level == one-or-two-year-diploma")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	comparison := parsed.Alternatives[0].Clauses[0].(*Comparison)
	if comparison.Right.Kind != OperandVariable || comparison.Right.Name != "one-or-two-year-diploma" {
		t.Errorf("unexpected right operand: %+v", comparison.Right)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		expression string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"single equals", "a = 5"},
		{"dangling operator", "a =="},
		{"missing list", "a IN"},
		{"unterminated list", "a IN (1, 2"},
		{"unterminated string", "a == 'abc"},
		{"trailing garbage", "a == 5 )"},
		{"lone bang", "a ! b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.expression); err == nil {
				t.Errorf("Parse(%q) expected error, got none", tt.expression)
			}
		})
	}
}

func TestLowercaseKeywordsAreIdentifiers(t *testing.T) {
	parsed, err := Parse("or == in")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(parsed.Alternatives) != 1 {
		t.Fatalf("lowercase or must not split alternatives, got %d", len(parsed.Alternatives))
	}
	comparison := parsed.Alternatives[0].Clauses[0].(*Comparison)
	if comparison.Left.Name != "or" || comparison.Right.Name != "in" {
		t.Errorf("unexpected operands: %+v", comparison)
	}
}
