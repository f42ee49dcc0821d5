package scoring

import (
	"testing"

	"immimate-hq/polaris/pkg/evaluation"
)

func TestTransferGroupFor(t *testing.T) {
	tests := []struct {
		name        string
		subcategory string
		wantGroup   string
		wantExempt  bool
		wantCounted bool
	}{
		{"education combination", "Education + Language", transferGroupEducation, false, true},
		{"education with work", "Education + Canadian Work Experience", transferGroupEducation, false, true},
		{"foreign work combination", "Foreign Work Experience + Language", transferGroupForeignWork, false, true},
		{"trades certificate", "Trades Certificate + Language", "", true, true},
		{"unrecognized", "Something Else", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, exempt, counted := transferGroupFor(tt.subcategory)
			if group != tt.wantGroup || exempt != tt.wantExempt || counted != tt.wantCounted {
				t.Errorf("transferGroupFor(%q) = (%q, %t, %t), want (%q, %t, %t)",
					tt.subcategory, group, exempt, counted,
					tt.wantGroup, tt.wantExempt, tt.wantCounted)
			}
		})
	}
}

func TestApplyTransferabilityCapsGroupCap(t *testing.T) {
	edu1 := subcat("Education + Language", 30)
	edu2 := subcat("Education + Canadian Work Experience", 30)
	foreign := subcat("Foreign Work Experience + Language", 20)

	total, adjustments, err := applyTransferabilityCaps(
		[]*evaluation.Subcategory{edu1, edu2, foreign}, newInsights())
	if err != nil {
		t.Fatalf("applyTransferabilityCaps: %v", err)
	}

	if total != 70 {
		t.Errorf("total = %d, want 70 (education capped at 50 + foreign 20)", total)
	}
	if edu1.UserScore+edu2.UserScore != maxPointsPerTransferGroup {
		t.Errorf("education group sum = %d, want exactly %d",
			edu1.UserScore+edu2.UserScore, maxPointsPerTransferGroup)
	}
	if foreign.UserScore != 20 {
		t.Errorf("foreign work subcategory changed to %d", foreign.UserScore)
	}
	if len(adjustments) == 0 {
		t.Error("expected adjustments for the capped education group")
	}
}

func TestApplyTransferabilityCapsTradesExempt(t *testing.T) {
	trades := subcat("Trades Certificate + Language", 60)

	total, adjustments, err := applyTransferabilityCaps(
		[]*evaluation.Subcategory{trades}, newInsights())
	if err != nil {
		t.Fatalf("applyTransferabilityCaps: %v", err)
	}

	if total != 60 {
		t.Errorf("total = %d, want 60 (trades bypass the group cap)", total)
	}
	if trades.UserScore != 60 {
		t.Errorf("trades subcategory changed to %d", trades.UserScore)
	}
	if len(adjustments) != 0 {
		t.Errorf("expected no adjustments, got %d", len(adjustments))
	}
}

func TestApplyTransferabilityCapsExcludesUnrecognized(t *testing.T) {
	edu := subcat("Education + Language", 25)
	other := subcat("Something Else", 40)

	total, _, err := applyTransferabilityCaps(
		[]*evaluation.Subcategory{edu, other}, newInsights())
	if err != nil {
		t.Fatalf("applyTransferabilityCaps: %v", err)
	}

	if total != 25 {
		t.Errorf("total = %d, want 25 (unrecognized subcategory excluded)", total)
	}
	if other.UserScore != 40 {
		t.Errorf("excluded subcategory's own score changed to %d", other.UserScore)
	}
}

func TestApplyTransferabilityCapsEmpty(t *testing.T) {
	total, adjustments, err := applyTransferabilityCaps(nil, newInsights())
	if err != nil {
		t.Fatalf("applyTransferabilityCaps: %v", err)
	}
	if total != 0 || len(adjustments) != 0 {
		t.Errorf("empty category: total = %d, adjustments = %d", total, len(adjustments))
	}
}
