package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"immimate-hq/polaris/pkg/config"
)

func TestNewRejectsInvalidSettings(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "loud"}, nil); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(config.LoggingConfig{Format: "xml"}, nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("should be dropped")
	logger.Warn("should be kept")

	output := buf.String()
	if strings.Contains(output, "should be dropped") {
		t.Error("info message must be filtered at warn level")
	}
	if !strings.Contains(output, "should be kept") {
		t.Error("warn message must pass at warn level")
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("evaluation complete", "total_score", 465)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["msg"] != "evaluation complete" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["total_score"] != float64(465) {
		t.Errorf("unexpected total_score: %v", entry["total_score"])
	}
}

func TestContextFieldsAppearInOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := WithApplicationID(context.Background(), "app-123")
	ctx = WithGrid(ctx, "COMPREHENSIVE_RANKING")

	logger.InfoContext(ctx, "starting evaluation")

	output := buf.String()
	if !strings.Contains(output, "app-123") {
		t.Errorf("expected application_id in output: %s", output)
	}
	if !strings.Contains(output, "COMPREHENSIVE_RANKING") {
		t.Errorf("expected grid in output: %s", output)
	}
}

func TestRedactorMasksApplicantPII(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json", RedactPII: true}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("profile loaded",
		"applicant_name", "Jordan Example",
		"contact", "jordan@example.com",
	)

	output := buf.String()
	if strings.Contains(output, "Jordan Example") {
		t.Errorf("applicant name must be redacted: %s", output)
	}
	if strings.Contains(output, "jordan@example.com") {
		t.Errorf("email must be redacted: %s", output)
	}
}

func TestRedactString(t *testing.T) {
	r := NewRedactor()

	tests := []struct {
		name  string
		input string
		leak  string
	}{
		{"email", "contact jordan@example.com for details", "jordan@example.com"},
		{"phone", "call 613-555-0142", "613-555-0142"},
		{"passport", "passport AB1234567 on file", "AB1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.RedactString(tt.input)
			if strings.Contains(got, tt.leak) {
				t.Errorf("RedactString(%q) leaked %q: %q", tt.input, tt.leak, got)
			}
		})
	}
}
